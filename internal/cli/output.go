package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// textRenderer is implemented by command results with a human-readable form.
type textRenderer interface {
	renderText(w io.Writer) error
}

func writeOut(cmd *cobra.Command, app *App, v textRenderer) error {
	w := cmd.OutOrStdout()
	switch app.Format {
	case "", "text":
		return v.renderText(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", app.Format)
	}
}
