package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/pkg/kit"
)

const service = "catalog"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	store := newStore(cfg)
	defer func() { _ = store.Close() }()

	s := &catalog.Server{Store: store, Log: log}
	if cfg.RateLimit.Writes > 0 {
		s.WriteLimit = kit.NewIPRateLimiter(cfg.RateLimit.Writes, cfg.RateLimit.Window)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	log.Info("catalog ready",
		zap.String("env", cfg.Server.Env),
		zap.Bool("seeded", cfg.Store.Seed),
		zap.Int("write_rate_limit", cfg.RateLimit.Writes),
	)

	if err := kit.RunHTTPServer(context.Background(), cfg.Addr(), h, log, cfg.Server.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newStore(cfg *config.Config) *catalog.MemStore {
	if cfg.Store.Seed {
		return catalog.NewSeededStore()
	}
	return catalog.NewMemStore()
}
