package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"florascan/internal/config"
	"florascan/internal/server"
)

var serveMock bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the florascan server",
	Long: `Start the florascan HTTP server.

The server provides:
  - POST /api/identify - Identify a plant from an uploaded photo
  - GET  /api/identify - Service metadata
  - GET  /api/images   - Plant photo search
  - GET  /health       - Basic server health check
  - GET  /status       - Provider and configuration status

Examples:
  florascan serve                          # Start with ./config.yaml
  florascan serve --config my-config.yaml  # Start with a specific config
  florascan serve --mock                   # Start with the mock provider`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			ConfigManager: mgr,
			Logger:        logger,
			UseMock:       serveMock,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMock, "mock", false, "Use the mock vision provider (no API key needed)")

	rootCmd.AddCommand(serveCmd)
}
