package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the TranscriptFlow API server with the configured settings.

The server answers single video transcript requests, runs channel batch jobs
on a background worker pool and keeps each user's saved transcripts.

Example:
  transcriptflow serve
  transcriptflow serve --port 9090
  transcriptflow serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// flags win over config
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	app, err := newApplication(ctx, cfg, addr, logger)
	if err != nil {
		return err
	}
	if err := app.start(ctx); err != nil {
		_ = app.shutdown(cfg.Server.ShutdownTimeout)
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err := <-serverErr:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
			_ = app.shutdown(cfg.Server.ShutdownTimeout)
			return err
		}
	}

	if err := app.shutdown(cfg.Server.ShutdownTimeout); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
