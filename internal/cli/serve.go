package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tradeverify/internal/app"
	"tradeverify/internal/platform/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on server.addr. /ready reports 503 until startup
hooks (gazetteer warm-up, broker ping) have finished.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, _, err := loadApp(cmd)
	if err != nil {
		return err
	}
	return Serve(cmd.Context(), a)
}

// Serve runs the HTTP server for a until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts the server and the app down.
func Serve(ctx context.Context, a *app.App) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := a.Config
	srv := httpserver.New(cfg.Server.Addr, a.Router(), cfg.Server.ReadHeaderTimeoutDuration())
	errCh := httpserver.Start(srv, a.Logger)
	go a.Lifecycle.Start()

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down")
	case serveErr = <-errCh:
	}

	timeout := cfg.ShutdownTimeoutDuration()
	if err := httpserver.Shutdown(srv, timeout); err != nil {
		a.Logger.Error("http shutdown failed", "error", err)
	}
	if err := a.Close(timeout); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}
