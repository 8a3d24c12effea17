package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sisera-crm/internal/config"
	"sisera-crm/internal/domain"
	"sisera-crm/internal/gateway"
	"sisera-crm/internal/importer"
	"sisera-crm/internal/logging"
	customerrepo "sisera-crm/internal/repository/customer"
	customersvc "sisera-crm/internal/service/customer"

	"go.uber.org/zap"
)

func main() {
	var (
		filePath string
		shopName string
	)
	flag.StringVar(&filePath, "file", "", "Path to customer CSV export")
	flag.StringVar(&shopName, "shop", string(domain.DefaultShop), "Shop for rows without a store column (sisera|boss)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	shop, err := domain.ParseShop(shopName)
	if err != nil {
		log.Fatalf("shop %q: %v", shopName, err)
	}

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.Log, "importer")
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	registry := customersvc.NewRegistry(customerrepo.NewGateway(gw, logger), logger)
	imp := importer.NewCSVImporter(f, registry, shop)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	fmt.Printf("Imported %d customers into %s in %s\n", count, shop, time.Since(start).Truncate(time.Millisecond))
}
