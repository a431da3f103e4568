package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeeChowCA/recipe-extraction/internal/config"
	"github.com/LeeChowCA/recipe-extraction/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recipex server",
	Long: `Start the recipex HTTP server.

The server provides:
  - /api/extract        - Extract a recipe document from raw text
  - /api/extract/upload - Extract from an uploaded PDF
  - /api/prompts        - Inspect and override prompt templates
  - /api/llmcalls       - Recent completion call history
  - /health, /ready, /status

Configuration hot-reloads when the config file changes.

Examples:
  recipex serve                  # Start on default port 8080
  recipex serve --port 3000      # Start on custom port
  recipex serve --host 0.0.0.0   # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configMgr.WatchConfig()

		// Flag overrides beat the config file for the listen address
		if cmd.Flags().Changed("host") {
			configMgr.Get().Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			configMgr.Get().Server.Port = servePort
		}

		srv := server.New(configMgr, logger)

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
