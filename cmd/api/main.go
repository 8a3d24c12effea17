package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sisera-crm/internal/config"
	"sisera-crm/internal/gateway"
	"sisera-crm/internal/httpserver"
	"sisera-crm/internal/logging"
	customerrepo "sisera-crm/internal/repository/customer"
	"sisera-crm/internal/repository/state"
	authsvc "sisera-crm/internal/service/auth"
	customersvc "sisera-crm/internal/service/customer"
	shopsvc "sisera-crm/internal/service/shop"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.Log, "api")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	logger.Info("backend configured",
		zap.String("url", cfg.Backend.URL),
		zap.String("anon_key", cfg.Backend.MaskedKey()))

	ctx := context.Background()
	gw, closeBackend, err := gateway.Open(ctx, cfg.Backend, logger.Named("gateway"))
	if err != nil {
		logger.Fatal("connect to backend", zap.Error(err))
	}
	defer closeBackend()

	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		gw = gateway.Instrument(gw, gateway.NewMetrics(reg))
		gatherer = reg
	}

	kv, err := state.OpenSQLite(ctx, cfg.StatePath, logger.Named("state"))
	if err != nil {
		logger.Fatal("open state store", zap.String("path", cfg.StatePath), zap.Error(err))
	}
	defer kv.Close()
	logger.Info("state store opened", zap.String("path", kv.Path()))

	registry := customersvc.NewRegistry(customerrepo.NewGateway(gw, logger.Named("customers")), logger.Named("registry"))
	shop := shopsvc.NewStore(ctx, kv, logger.Named("shop"))
	session, err := authsvc.NewSession(ctx, kv, logger.Named("auth"))
	if err != nil {
		logger.Fatal("init auth session", zap.Error(err))
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), httpserver.Deps{
		Customers:      registry,
		Shop:           shop,
		Auth:           session,
		Backend:        gw,
		Metrics:        gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
