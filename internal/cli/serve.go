package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpapi "github.com/tlemoine/gridfeed/internal/api/http"
)

// serveCmd exposes the acquisition services over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve load, temperature, consumption and prices over HTTP",
	Long: `Start the HTTP API. Endpoints live under /api/v1 and mirror the fetch
commands: /load, /temperature, /consumption and /prices, plus /health.

Examples:
  gridfeed serve
  gridfeed serve --port 9090`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		app := httpapi.NewApp(httpapi.Services{
			Load:        services.load,
			Temperature: services.temperature,
			RTE:         services.rte,
		})

		port := viper.GetString("port")
		if port == "" {
			port = services.cfg.Port
		}

		// Start server with graceful shutdown
		log.Printf("gridfeed: listening on :%s", port)
		go func() {
			if err := app.Listen(":" + port); err != nil {
				log.Printf("fiber server stopped: %v", err)
			}
		}()

		// Wait for termination signal
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}
		return nil
	},
}
