package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/cookbook/internal/config"
	"github.com/jackzampolin/cookbook/internal/home"
	"github.com/jackzampolin/cookbook/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Cookbook server",
	Long: `Start the Cookbook HTTP server.

This starts the HTTP API server, the background worker pool, and a
headless browser for PDF rendering. When the server shuts down (via
Ctrl+C or SIGTERM), the browser is also stopped.

The server provides:
  - /                      - Upload form
  - /api/cookbooks         - Submit a recipe archive
  - /api/jobs/{id}         - Poll job progress
  - /api/jobs/{id}/result  - Download the finished PDF

Examples:
  cookbook serve                    # Start on default port 8080
  cookbook serve --port 3000        # Start on custom port
  cookbook serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := server.ParsePort(servePort); err != nil {
			return err
		}

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()
		appCfg := cfgMgr.Get()

		logger, cleanup := config.SetupLogger(h.LogPath(), config.ParseLogLevel(appCfg.LogLevel))
		defer cleanup()

		// Flags override config file values
		host := serveHost
		if !cmd.Flags().Changed("host") && appCfg.Server.Host != "" {
			host = appCfg.Server.Host
		}
		port := servePort
		if !cmd.Flags().Changed("port") && appCfg.Server.Port != "" {
			port = appCfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: cfgMgr,
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
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
