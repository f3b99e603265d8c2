package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"CafeDesk/internal/catalog"
	"CafeDesk/internal/config"
	"CafeDesk/internal/console"
	"CafeDesk/internal/receipt"
	"CafeDesk/pkg/kit"
)

func main() {
	cfg, err := config.Load(getenv("CAFE_CONFIG", "configs/cafe.yaml"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := kit.NewLogger(cfg.App.Name, kit.LogConfig{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "storage:", err)
		log.Fatal("open storage failed", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	metrics := kit.NewMetrics(reg)

	cat := catalog.New(store, log, metrics)
	if err := cat.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "load menu:", err)
		log.Fatal("load catalog failed", zap.Error(err))
	}

	deps := console.Deps{
		Catalog:  cat,
		Metrics:  metrics,
		Log:      log,
		Currency: cfg.App.Currency,
	}
	if cfg.Receipts.Dir != "" {
		deps.Receipts = &receipt.Writer{Dir: cfg.Receipts.Dir, QR: cfg.Receipts.QR, Currency: cfg.App.Currency}
	}

	runErr := console.Run(ctx, os.Stdin, os.Stdout, deps)

	if cfg.Metrics.Textfile != "" {
		if err := kit.WriteTextfile(cfg.Metrics.Textfile, reg); err != nil {
			log.Warn("write metrics textfile failed", zap.Error(err), zap.String("path", cfg.Metrics.Textfile))
		}
	}

	if runErr != nil {
		log.Error("console stopped with unsaved changes", zap.Error(runErr))
		_ = log.Sync()
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (catalog.Store, func(), error) {
	startCtx, cancel := context.WithTimeout(ctx, cfg.Storage.StartTimeout)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		s := catalog.NewPostgresStore(db)
		if err := s.Ping(startCtx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := s.EnsureSchema(startCtx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("storage ready", zap.String("driver", cfg.Storage.Driver))
		return s, func() { _ = db.Close() }, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		s := catalog.NewRedisStore(client, cfg.Storage.RedisKey)
		if err := s.Ping(startCtx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		log.Info("storage ready", zap.String("driver", cfg.Storage.Driver), zap.String("key", s.Key))
		return s, func() { _ = client.Close() }, nil

	case config.DriverMemory:
		log.Warn("memory storage: menu changes are lost at exit")
		return catalog.NewMemStore(), func() {}, nil

	default:
		s := catalog.NewCSVStore(cfg.Storage.CSVPath)
		log.Info("storage ready", zap.String("driver", config.DriverCSV), zap.String("path", s.Path()))
		return s, func() {}, nil
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
