package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/router"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	gin.SetMode(a.cfg.GinMode)

	gate, err := handler.NewAdminGate(a.cfg.AdminPassword)
	if err != nil {
		return err
	}
	if !gate.Enabled() {
		log.Printf("[CONFIG] ADMIN_PASSWORD not set, admin routes are open")
	}

	api := handler.NewAPI(a.posts, a.ingest, a.optimizer, a.images)
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           router.SetupRouter(api, gate, a.cfg.SessionSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (storage: %s, env: %s)", a.cfg.ListenAddr, a.cfg.StorageDriver, a.cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("shutting down")
	return srv.Shutdown(shutdownCtx)
}
