package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/godilite/csat-server/internal/config"
	"github.com/godilite/csat-server/internal/dataset"
	"github.com/godilite/csat-server/internal/repository"
	dbbuilder "github.com/godilite/csat-server/pkg/database"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.LoadFromEnv()

	configPath := flag.String("config", cfg.GaugeConfigPath, "YAML dashboard definitions to seed")
	xlsxPath := flag.String("xlsx", "", "Excel workbook of CSAT responses to import")
	dataSource := flag.String("source", "csat", "Table the responses are written to")
	driver := flag.String("driver", cfg.DBDriver, "Database driver: sqlite3 or postgres")
	dsn := flag.String("db", cfg.DBPath, "Database path or connection string")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall import timeout")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Seeds dashboard configuration and imports CSAT responses.

Usage:
  importer --config dashboards.yaml
  importer --xlsx responses.xlsx --source csat
  importer --driver postgres --db "postgres://..." --config dashboards.yaml --xlsx responses.xlsx

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *configPath == "" && *xlsxPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := dbbuilder.New(dbbuilder.WithDriver(*driver), dbbuilder.WithDataSource(*dsn))
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("schema init failed", zap.Error(err))
	}

	if *configPath != "" {
		src, err := repository.LoadFileConfigStore(*configPath)
		if err != nil {
			logger.Fatal("load dashboard config failed", zap.Error(err))
		}
		n, err := dataset.SeedConfig(ctx, src, repository.NewConfigRepository(db, *driver))
		if err != nil {
			logger.Fatal("seed dashboard config failed", zap.Error(err))
		}
		logger.Info("dashboard config seeded", zap.String("path", *configPath), zap.Int("gauges", n))
	}

	if *xlsxPath != "" {
		rows, err := dataset.LoadXLSX(*xlsxPath)
		if err != nil {
			logger.Fatal("read workbook failed", zap.String("path", *xlsxPath), zap.Error(err))
		}
		n, err := repository.NewCSATRepository(db, *driver).InsertRecords(ctx, *dataSource, rows)
		if err != nil {
			logger.Fatal("import responses failed", zap.Error(err))
		}
		logger.Info("responses imported", zap.String("source", *dataSource), zap.Int("rows", n))
	}
}
