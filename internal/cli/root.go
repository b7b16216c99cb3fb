// Package cli implements boardctl, a command-line client that loads a board
// from the card service, materializes its views and moves cards.
package cli

import (
	"strings"
	"time"

	"boardsync/internal/board"
	"boardsync/internal/cardservice"
	"boardsync/internal/config"
	"boardsync/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	APIURL          string
	Token           string
	Timeout         time.Duration
	InvalidateDelay time.Duration
	LogLevel        string
	Format          string

	// NewService builds the card service client; tests replace it.
	NewService func(app *App) board.CardService
}

func defaultService(app *App) board.CardService {
	return cardservice.New(app.APIURL, app.Token, app.Timeout)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(config.Load())
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	app := &App{NewService: defaultService}

	cmd := &cobra.Command{
		Use:           "boardctl",
		Short:         "Inspect and rearrange boards served by the card service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Kanban view of a board
  boardctl view --board 0b6f...

  # Flat list grouped by label, using a saved preset
  boardctl view --board 0b6f... --mode list --preset triage.yaml

  # Drop the first card of one column at index 2 of another
  boardctl move --board 0b6f... --card 91c2... --from 5d1e... --from-index 0 --to 7a40... --to-index 2
`),
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", cfg.APIURL, "Card service base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", cfg.APIToken, "Bearer token for the card service")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", cfg.RequestTimeout, "Per-request timeout")
	cmd.PersistentFlags().DurationVar(&app.InvalidateDelay, "invalidate-delay", cfg.InvalidateDelay, "Delay before refetching a board after a committed move")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "text", "Output format (text|json|yaml)")

	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newMoveCmd(app))

	return cmd
}

func (app *App) logger(cmd *cobra.Command) *logrus.Logger {
	log := logging.New(app.LogLevel)
	log.SetOutput(cmd.ErrOrStderr())
	return log
}
