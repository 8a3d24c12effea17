package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"sisera-crm/internal/config"
	"sisera-crm/internal/db"
	"sisera-crm/internal/gateway"
	"sisera-crm/internal/logging"
	"sisera-crm/internal/migrate"

	"go.uber.org/zap"
)

func main() {
	var (
		down        int
		showVersion bool
	)
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")
	flag.BoolVar(&showVersion, "version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.Log, "migrate")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if strings.HasPrefix(cfg.Backend.URL, gateway.MemoryScheme) {
		logger.Info("memory backend has no schema, nothing to do")
		return
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Backend.URL, cfg.Backend.AnonKey)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	switch {
	case showVersion:
		v, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			logger.Fatal("read version", zap.Error(err))
		}
		logger.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	case down > 0:
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Fatal("roll back migrations", zap.Error(err))
		}
		logger.Info("migrations rolled back", zap.Int("steps", down))
	default:
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}
}
