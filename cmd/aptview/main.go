// Command aptview explores Korean apartment sale transactions.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/aptview/internal/adapters/driven/backend/rest"
	"github.com/custodia-labs/aptview/internal/adapters/driven/config/file"
	"github.com/custodia-labs/aptview/internal/adapters/driven/maps/terminal"
	"github.com/custodia-labs/aptview/internal/adapters/driving/cli"
	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/services"
	"github.com/custodia-labs/aptview/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services once flags are parsed.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	if err := file.LoadDotEnv("."); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger.Debug("config file: %s", store.Path())

	backend := rest.NewClient(rest.Config{
		BaseURL:           file.BaseURL(store),
		Timeout:           file.Timeout(store),
		RequestsPerSecond: file.RateLimit(store),
		CacheTTL:          file.CacheTTL(store),
	})
	logger.Debug("backend: %s", file.BaseURL(store))

	reference := services.NewReferenceLoader(backend)
	mapService := services.NewMapLifecycle(terminal.NewFactory(), func() string {
		return file.VWorldKey(store)
	})

	return &cli.Services{
		Reference: reference,
		Search:    services.NewSearchOrchestrator(backend, reference),
		Forecast:  services.NewForecastOrchestrator(backend),
		Chat:      services.NewChatOrchestrator(backend),
		Map:       mapService,
		ColumnPolicy: func() domain.ColumnPolicy {
			if file.StrictColumns(store) {
				return domain.ColumnsAllowList
			}
			return domain.ColumnsDenyList
		},
		Config:     store,
		FlushCache: backend.FlushCache,
	}, nil
}
