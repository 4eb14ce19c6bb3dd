// Package cli provides the cobra commands of the aptview binary.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
	"github.com/custodia-labs/aptview/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options are the global flags, available to the bootstrap hook.
type Options struct {
	// ConfigDir holds config.toml and .env.
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Services are the driving ports the commands run against.
type Services struct {
	Reference driving.ReferenceService
	Search    driving.SearchService
	Forecast  driving.ForecastService
	Chat      driving.ChatService
	Map       driving.MapService

	// ColumnPolicy is consulted whenever a table is built.
	ColumnPolicy func() domain.ColumnPolicy

	// Config is watched by the TUI for changes. Optional.
	Config ConfigWatcher

	// FlushCache drops cached reference lookups after a config reload. Optional.
	FlushCache func()
}

// BootstrapFunc builds the services once global flags are parsed.
type BootstrapFunc func(opts Options) (*Services, error)

var (
	opts      Options
	bootstrap BootstrapFunc
	services  *Services
)

// errNotConfigured is returned when a command runs without services.
var errNotConfigured = errors.New("services not configured")

var rootCmd = &cobra.Command{
	Use:   "aptview",
	Short: "Korean apartment transaction explorer",
	Long: `aptview queries apartment sale transactions by district and month,
shows them on a terminal map, forecasts monthly prices and answers
questions about the results.

All data comes from the aptview backend (APTVIEW_API_BASE_URL).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.aptview)")
}

// SetBootstrap sets the hook that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)

	if services != nil || bootstrap == nil {
		return nil
	}
	s, err := bootstrap(opts)
	if err != nil {
		return err
	}
	services = s
	return nil
}

// columnPolicy returns the configured policy, defaulting to the deny-list.
func columnPolicy() domain.ColumnPolicy {
	if services == nil || services.ColumnPolicy == nil {
		return domain.ColumnsDenyList
	}
	return services.ColumnPolicy()
}
