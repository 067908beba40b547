package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/gastosfacil/backend/internal/auth"
	"github.com/gastosfacil/backend/internal/config"
	"github.com/gastosfacil/backend/internal/events"
	"github.com/gastosfacil/backend/internal/ledger"
	"github.com/gastosfacil/backend/internal/middleware"
	"github.com/gastosfacil/backend/internal/service"
	"github.com/gastosfacil/backend/internal/storage/sqlite"
	"github.com/gastosfacil/backend/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQP.Enabled() {
		p, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			// Events are best effort; the API works without a broker.
			slog.Warn("AMQP unavailable, expense events disabled", "error", err)
		} else {
			publisher = p
			slog.Info("Publishing expense events", "exchange", cfg.AMQP.Exchange, "routing_key", cfg.AMQP.RoutingKey)
		}
	}
	defer publisher.Close()

	engine := ledger.New(store, ledger.WithMetrics(ledger.NewMetrics(reg)))
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	handler := service.NewRouter(service.RouterConfig{
		Auth:           service.NewAuthService(authenticator, tokens, store),
		Groups:         service.NewGroupService(engine),
		Expenses:       service.NewExpenseService(engine, publisher),
		Tokens:         tokens,
		Store:          store,
		Metrics:        middleware.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		CORSOrigin:     cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr)
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

	slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
