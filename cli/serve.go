package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/emlak-portal/api/v1"
	"github.com/emlak-portal/config"
	"github.com/emlak-portal/database"
	"github.com/emlak-portal/identity"
	"github.com/emlak-portal/notify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and admin pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				a.cfg.Port = port
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		log.Info("database schema migrated")
	}

	sinks, closeSinks := buildSinks(cfg, log)
	defer closeSinks()
	dispatcher := notify.NewDispatcher(notify.Options{
		QueueSize:   cfg.Notify.QueueSize,
		MaxAttempts: cfg.Notify.MaxAttempts,
		Timeout:     cfg.Notify.Timeout,
		BaseBackoff: cfg.Notify.BaseBackoff,
		Logger:      log.Named("notify"),
	}, sinks...)

	if cfg.Identity.SecretKey == "" {
		log.Warn("IDENTITY_SECRET_KEY is not set, every session will be rejected")
	}
	verifier := identity.NewJWTVerifier(cfg.Identity.SecretKey, cfg.Identity.Issuer, cfg.Identity.PublishableKey)

	gin.SetMode(cfg.GinMode)
	router := v1.NewRouter(v1.NewServices(db, verifier, dispatcher, log), v1.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		CookieName:  cfg.Identity.CookieName,
		SignInURL:   cfg.Identity.SignInURL,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.Int("sinks", len(sinks)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn("notification queue not drained", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}

// buildSinks enables each sink whose endpoint is configured. An unreachable
// broker disables the AMQP sink instead of failing startup.
func buildSinks(cfg *config.Config, log *zap.Logger) ([]notify.Sink, func()) {
	var (
		sinks   []notify.Sink
		closers []func() error
	)
	if cfg.Search.URL != "" {
		sinks = append(sinks, notify.NewSearchIndexSink(cfg.Search.URL, cfg.Search.APIKey))
	}
	if cfg.Site.URL != "" {
		sinks = append(sinks, notify.NewRevalidationSink(cfg.Site.URL, cfg.Site.RevalidateSecret))
	}
	if cfg.AMQP.URL != "" {
		sink, err := notify.NewAMQPSink(notify.AMQPConfig{URL: cfg.AMQP.URL, Exchange: cfg.AMQP.Exchange})
		if err != nil {
			log.Error("amqp sink disabled", zap.Error(err))
		} else {
			sinks = append(sinks, sink)
			closers = append(closers, sink.Close)
		}
	}
	for _, sink := range sinks {
		log.Info("notification sink enabled", zap.String("sink", sink.Name()))
	}
	return sinks, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn("failed to close sink", zap.Error(err))
			}
		}
	}
}
