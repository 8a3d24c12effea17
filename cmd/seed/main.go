package main

import (
	"context"
	"log"

	"sisera-crm/internal/config"
	"sisera-crm/internal/gateway"
	"sisera-crm/internal/logging"
	customerrepo "sisera-crm/internal/repository/customer"
	"sisera-crm/internal/seed"
	customersvc "sisera-crm/internal/service/customer"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.Log, "seed")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()
	gw, closeBackend, err := gateway.Open(ctx, cfg.Backend, logger)
	if err != nil {
		logger.Fatal("connect backend", zap.Error(err))
	}
	defer closeBackend()

	registry := customersvc.NewRegistry(customerrepo.NewGateway(gw, logger), logger)
	added, err := seed.Apply(ctx, registry)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied", zap.Int("added", added))
}
