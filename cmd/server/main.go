package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripmatch/internal/agency/aggregator"
	"tripmatch/internal/agency/gateway"
	"tripmatch/internal/agency/handler"
	agencymetrics "tripmatch/internal/agency/metrics"
	"tripmatch/internal/agency/money"
	"tripmatch/internal/agency/service"
	jwttoken "tripmatch/internal/jwt_token"
	"tripmatch/internal/platform/config"
	"tripmatch/internal/platform/health"
	"tripmatch/internal/platform/logger"
	"tripmatch/internal/platform/metrics"
	"tripmatch/internal/platform/tracer"
	httptransport "tripmatch/internal/transport/http"
	"tripmatch/pkg/platform/circuit"
	"tripmatch/pkg/platform/middleware/metadata"
	"tripmatch/pkg/platform/middleware/request"
)

// main wires dependencies explicitly and owns the server lifecycle. Business
// logic lives in internal/agency.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("initializing tripmatch agency service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"api_base_url", cfg.API.BaseURL,
		"currency_locale", cfg.Aggregation.CurrencyLocale,
	)

	registry := metrics.NewRegistry(health.Version, cfg.Environment)
	agencyMetrics := agencymetrics.New(registry)

	formatter, err := money.New(cfg.Aggregation.CurrencyLocale)
	if err != nil {
		return fmt.Errorf("currency formatter: %w", err)
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	gw := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})

	userBreaker := circuit.New("user_details",
		circuit.WithFailureThreshold(cfg.Aggregation.UserBreakerThreshold),
		circuit.WithCooldown(cfg.Aggregation.UserBreakerCooldown),
	)

	agg := aggregator.New(gw, formatter, aggregator.Config{
		Cap:                cfg.Aggregation.Cap,
		FetchTimeout:       cfg.Aggregation.FetchTimeout,
		MaxRetries:         retries(cfg.Aggregation.MaxRetries),
		RetryBackoff:       cfg.Aggregation.RetryBackoff,
		AggregationTimeout: cfg.Aggregation.Timeout,
		EnrichConcurrency:  cfg.Aggregation.EnrichConcurrency,
		ScopeInquiries:     cfg.Aggregation.ScopeInquiries,
	},
		aggregator.WithLogger(log),
		aggregator.WithMetrics(agencyMetrics),
		aggregator.WithTracer(tracer.NewOTel()),
		aggregator.WithUserBreaker(userBreaker),
	)

	svc := service.New(agg, gw,
		service.WithLogger(log),
		service.WithDegradedRecorder(agencyMetrics),
		service.WithResponseClockSkew(cfg.Aggregation.ResponseClockSkew),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("tripmatch_api", gw.Ping)

	tokens := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Agency:         handler.New(svc, log),
		Health:         healthHandler,
		Validator:      jwttoken.NewMiddlewareAdapter(tokens),
		Metadata:       metadata.NewMiddleware(metadata.Config{TrustedProxies: proxies}),
		RequestMetrics: request.NewMetrics(registry),
		MetricsHandler: registry.Handler(),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// retries maps the configured retry count onto the aggregator, where zero
// means "use the default" and a negative value disables retries.
func retries(n int) int {
	if n == 0 {
		return -1
	}
	return n
}
