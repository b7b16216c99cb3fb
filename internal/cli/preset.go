package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"boardsync/internal/board"

	"gopkg.in/yaml.v3"
)

// Preset is a saved view: a mode plus a complete set of view options. Keys
// missing from the file keep their default values.
type Preset struct {
	Mode              board.ViewMode `yaml:"mode"`
	board.ViewOptions `yaml:",inline"`
}

func DefaultPreset() Preset {
	return Preset{Mode: board.ViewKanban, ViewOptions: board.DefaultViewOptions()}
}

func (p Preset) Validate() error {
	switch p.Mode {
	case board.ViewKanban, board.ViewList:
	default:
		return fmt.Errorf("unknown mode %q", p.Mode)
	}
	return p.ViewOptions.Validate()
}

// DecodePreset reads one YAML document. Unknown keys are rejected.
func DecodePreset(data []byte) (Preset, error) {
	preset := DefaultPreset()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&preset); err != nil && !errors.Is(err, io.EOF) {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	if err := preset.Validate(); err != nil {
		return Preset{}, fmt.Errorf("invalid preset: %w", err)
	}
	return preset, nil
}

func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	return DecodePreset(data)
}
