package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/dupx/internal/server"
	"github.com/desertthunder/dupx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve hosts the duplicate report viewer over HTTP until interrupted.
//
// The report file is read per request, so a scan rerun while the server is
// up shows on the next refresh. History endpoints degrade to 503 when the
// database cannot be opened.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	reportPath := r.reportPath(cmd)

	if err := r.ensureDatabase(); err != nil {
		r.logger.Warn("scan history endpoints disabled", "error", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewReportHandler(reportPath))
	router.Handler(server.NewHistoryHandler(r.scans))
	router.Static("/files/", r.config.Output.Dir)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("report viewer listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	url := fmt.Sprintf("http://%s/", addr)
	r.writePlain("→ Report viewer at %s\n", url)
	r.writePlain("→ Press Ctrl+C to stop\n")

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlain("⚠ Could not open browser. Open %s manually.\n", url)
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	return nil
}
