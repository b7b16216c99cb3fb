package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"boardsync/internal/board"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type viewFlags struct {
	boardID       string
	mode          string
	preset        string
	groupBy       string
	orderBy       string
	filters       []string
	showCompleted bool
	hideEmpty     bool
}

func newViewCmd(app *App) *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Materialize a board as kanban columns or a grouped list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			boardID, err := uuid.Parse(f.boardID)
			if err != nil {
				return fmt.Errorf("invalid --board: %w", err)
			}
			preset, err := f.resolve(cmd)
			if err != nil {
				return err
			}

			columns, err := app.NewService(app).FetchColumnsForBoard(cmd.Context(), boardID)
			if err != nil {
				return fmt.Errorf("fetch board: %w", err)
			}

			store := board.NewViewStore()
			store.SetMode(preset.Mode)
			store.SetOptions(preset.ViewOptions)
			return writeOut(cmd, app, viewResult{View: store.Materialize(columns)})
		},
	}

	cmd.Flags().StringVar(&f.boardID, "board", "", "Board id (required)")
	cmd.Flags().StringVar(&f.mode, "mode", string(board.ViewKanban), "View mode (kanban|list)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "YAML file with a saved view")
	cmd.Flags().StringVar(&f.groupBy, "group-by", "", "Group list rows by column|assignee|label|priority|none")
	cmd.Flags().StringVar(&f.orderBy, "order-by", "", "Order cards by order|dueDate|priority|title")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "Filter as kind=value (priority, label, assignee, dueBefore, text); repeatable")
	cmd.Flags().BoolVar(&f.showCompleted, "show-completed", false, "Include completed cards")
	cmd.Flags().BoolVar(&f.hideEmpty, "hide-empty", false, "Drop kanban columns left empty by filters")
	_ = cmd.MarkFlagRequired("board")

	return cmd
}

// resolve layers explicitly set flags over the preset (or the defaults).
func (f viewFlags) resolve(cmd *cobra.Command) (Preset, error) {
	preset := DefaultPreset()
	if f.preset != "" {
		loaded, err := LoadPreset(f.preset)
		if err != nil {
			return Preset{}, err
		}
		preset = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") || f.preset == "" {
		preset.Mode = board.ViewMode(f.mode)
	}
	if f.groupBy != "" {
		preset.GroupBy = board.GroupBy(f.groupBy)
	}
	if f.orderBy != "" {
		preset.OrderBy = board.OrderBy(f.orderBy)
	}
	if flags.Changed("filter") {
		filters, err := parseFilters(f.filters)
		if err != nil {
			return Preset{}, err
		}
		preset.ActiveFilters = filters
	}
	if flags.Changed("show-completed") {
		preset.ShowCompletedCards = f.showCompleted
	}
	if flags.Changed("hide-empty") {
		preset.ShowEmptyColumns = !f.hideEmpty
	}

	if err := preset.Validate(); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

func parseFilters(raw []string) ([]board.Filter, error) {
	filters := make([]board.Filter, 0, len(raw))
	for _, r := range raw {
		kind, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q: want kind=value", r)
		}
		filters = append(filters, board.Filter{Kind: board.FilterKind(kind), Value: value})
	}
	return filters, nil
}

type viewResult struct {
	board.View `yaml:",inline"`
}

func (r viewResult) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if r.Mode == board.ViewList {
		for _, g := range r.Groups {
			fmt.Fprintf(tw, "## %s (%d)\n", g.Title, len(g.Cards))
			writeCards(tw, g.Cards)
		}
	} else {
		for _, col := range r.Columns {
			fmt.Fprintf(tw, "## %s (%d)\n", col.Title, len(col.Cards))
			writeCards(tw, col.Cards)
		}
	}
	return tw.Flush()
}

func writeCards(w io.Writer, cards []board.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "  (no items)")
		return
	}
	for _, c := range cards {
		due := "-"
		if c.DueDate != nil {
			due = c.DueDate.Format("2006-01-02")
		}
		labels := strings.Join(c.Labels, ",")
		if labels == "" {
			labels = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%g\n", c.ID, c.Title, c.Priority, due, labels, c.Order)
	}
}
