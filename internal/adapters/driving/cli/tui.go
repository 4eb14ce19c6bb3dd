package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/logger"
)

// ConfigWatcher reloads configuration when it changes on disk.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Tabs:
  F1 조회     - search form and results table
  F2 지도     - map of located transactions
  F3 예측     - monthly price forecast
  F4 AI 질의  - questions about the results

Controls:
  Tab/Shift+Tab - Move between form fields
  ↑/↓           - Change selection / scroll
  Enter         - Submit
  Ctrl+N/Ctrl+P - Next / previous tab
  Ctrl+C        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if services == nil {
		return errNotConfigured
	}

	ports := &tui.Ports{
		Reference:    services.Reference,
		Search:       services.Search,
		Forecast:     services.Forecast,
		Chat:         services.Chat,
		Map:          services.Map,
		ColumnPolicy: services.ColumnPolicy,
		FlushCache:   services.FlushCache,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	defer app.Shutdown()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx)

	program := app.Program()

	// A newly added map key takes effect without a restart.
	if services.Config != nil {
		go func() {
			err := services.Config.Watch(ctx, func() {
				program.Send(messages.ConfigReloaded{})
			})
			if err != nil {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
