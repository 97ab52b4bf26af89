package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/home"
	"github.com/jackzampolin/provlink/internal/server"

	_ "github.com/jackzampolin/provlink/docs/swagger"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the provlink server",
	Long: `Start the provlink HTTP server.

Documents are read from the storage backend in config (storage.type: http or
dir). When cache.redis_url is set, fetched documents are cached in Redis.
Viewer settings and form schemas are reloaded when the config file changes.

The server provides:
  - /health   - Basic server health check
  - /ready    - Readiness check (includes the document cache)
  - /metrics  - Prometheus metrics
  - /swagger  - API documentation

Examples:
  provlink serve                    # Start on the configured port (default 8080)
  provlink serve --port 3000        # Start on custom port
  provlink serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger()
		if err != nil {
			return err
		}

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := openConfig(h)
		if err != nil {
			return err
		}
		cm.OnError(func(err error) {
			logger.Error("config reload rejected, keeping previous settings", "error", err)
		})
		if cm.ConfigFile() != "" {
			logger.Info("loaded config", "file", cm.ConfigFile())
			cm.WatchConfig()
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
