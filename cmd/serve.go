package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"nrro-site/application"
	"nrro-site/infrastructure"
	"nrro-site/interfaces"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if serveMigrate {
			if err := infrastructure.Migrate(a.db); err != nil {
				return err
			}
		}

		// With a broker, emails go through the worker; without one they are
		// sent inline.
		var notify application.Dispatcher
		if a.cfg.RabbitMQURL != "" {
			rmq, err := infrastructure.NewRabbitMQ(a.cfg.RabbitMQURL, a.cfg.NotificationQueue, a.log)
			if err != nil {
				return err
			}
			defer rmq.Close()
			notify = rmq
		} else {
			notify = a.mailDispatcher()
		}

		deps, err := a.dependencies(notify)
		if err != nil {
			return err
		}
		if a.cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := &http.Server{
			Addr:              a.cfg.HTTPAddr,
			Handler:           interfaces.NewRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      a.cfg.AITimeout + 30*time.Second,
			IdleTimeout:       120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			a.log.WithField("addr", srv.Addr).Info("HTTP server listening")
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

		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "run database migrations before serving")
}
