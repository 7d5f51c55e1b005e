package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/api"
	"github.com/rustyeddy/papertrade/schedule"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the account over HTTP",
	Long: `Start the HTTP API. With schedule.enabled set, the daily snapshot is also
taken on schedule.snapshot_spec.

Example:
  papertrade serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr     string
	serveSchedule bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveSchedule, "schedule", false, "take daily snapshots on schedule.snapshot_spec")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if s.cfg.Schedule.Enabled || serveSchedule {
		runner, err := schedule.New(s.cfg.Schedule, s.engine, s.log)
		if err != nil {
			return err
		}
		runner.Start()
		defer runner.Stop()
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(s.engine, s.cfg.Server, s.log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
