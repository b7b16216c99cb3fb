package cli

import (
	"errors"
	"fmt"
	"io"

	"boardsync/internal/board"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type moveFlags struct {
	boardID   string
	cardID    string
	from      string
	fromIndex int
	to        string
	toIndex   int
}

func newMoveCmd(app *App) *cobra.Command {
	var f moveFlags
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Drop a card at a position in a column and confirm it with the card service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			boardID, err := uuid.Parse(f.boardID)
			if err != nil {
				return fmt.Errorf("invalid --board: %w", err)
			}

			ctx := cmd.Context()
			log := app.logger(cmd)
			service := app.NewService(app)

			cache := board.NewCache(service.FetchColumnsForBoard, log)
			if err := cache.Refetch(ctx, boardID); err != nil {
				return fmt.Errorf("fetch board: %w", err)
			}
			coordinator := board.NewCoordinator(cache, service, board.LogNotifier{Logger: log}, log, app.InvalidateDelay)
			controller := board.NewController(boardID, cache, coordinator, log)

			outcome := controller.OnDragEnd(ctx, board.DragEnd{
				CardID:      f.cardID,
				Source:      board.Location{ColumnID: f.from, Index: f.fromIndex},
				Destination: &board.Location{ColumnID: f.to, Index: f.toIndex},
			})

			result := moveResult{Result: outcome.Result.String()}
			if outcome.Err != nil {
				result.Error = outcome.Err.Error()
			}
			if id, err := uuid.Parse(f.cardID); err == nil {
				if card, idx, ok := cache.FindCard(board.ColumnsKey(boardID), id); ok {
					result.Card = &card
					result.Index = idx
				}
			}
			if err := writeOut(cmd, app, result); err != nil {
				return err
			}

			switch outcome.Result {
			case board.ResultCommitted:
				return nil
			case board.ResultIgnored:
				if outcome.Err != nil {
					return outcome.Err
				}
				return nil
			case board.ResultRolledBack:
				return outcome.Err
			default:
				return errors.New("another move is in progress")
			}
		},
	}

	cmd.Flags().StringVar(&f.boardID, "board", "", "Board id (required)")
	cmd.Flags().StringVar(&f.cardID, "card", "", "Card id (required)")
	cmd.Flags().StringVar(&f.from, "from", "", "Source column id (required)")
	cmd.Flags().IntVar(&f.fromIndex, "from-index", 0, "Card's index in the source column")
	cmd.Flags().StringVar(&f.to, "to", "", "Destination column id (required)")
	cmd.Flags().IntVar(&f.toIndex, "to-index", 0, "Target index in the destination column")
	for _, name := range []string{"board", "card", "from", "to"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

type moveResult struct {
	Result string      `json:"result" yaml:"result"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
	Card   *board.Card `json:"card,omitempty" yaml:"card,omitempty"`
	Index  int         `json:"index" yaml:"index"`
}

func (r moveResult) renderText(w io.Writer) error {
	switch {
	case r.Card == nil:
		_, err := fmt.Fprintf(w, "%s\n", r.Result)
		return err
	case r.Error != "":
		_, err := fmt.Fprintf(w, "%s: %s (card %s stays at index %d)\n", r.Result, r.Error, r.Card.ID, r.Index)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s: %q in column %s at index %d, order %g\n",
			r.Result, r.Card.Title, r.Card.ColumnID, r.Index, r.Card.Order)
		return err
	}
}
