package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/godilite/csat-server/internal/config"
	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
	handler "github.com/godilite/csat-server/internal/grpc"
	"github.com/godilite/csat-server/internal/metrics"
	"github.com/godilite/csat-server/internal/repository"
	"github.com/godilite/csat-server/internal/service"
	"github.com/godilite/csat-server/internal/source"
	"github.com/godilite/csat-server/pkg/cache"
	dbbuilder "github.com/godilite/csat-server/pkg/database"
	grpcsrv "github.com/godilite/csat-server/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger        *zap.Logger
	dbPool        *sql.DB
	cache         *cache.Cache
	coordinator   *dashboard.Coordinator
	grpcServer    *grpcsrv.Server
	metricsServer *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("driver", cfg.DBDriver), zap.String("path", cfg.DBPath))

	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		_ = dbPool.Close()
		return nil, err
	}

	var configs dashboard.ConfigSource = repository.NewConfigRepository(dbPool, cfg.DBDriver)
	if cfg.GaugeConfigPath != "" {
		fileStore, err := repository.LoadFileConfigStore(cfg.GaugeConfigPath)
		if err != nil {
			_ = dbPool.Close()
			return nil, fmt.Errorf("gauge config init failed: %w", err)
		}
		configs = fileStore
		logger.Info("Dashboard configuration loaded from file", zap.String("path", cfg.GaugeConfigPath))
	}

	var records dashboard.RecordSource = repository.NewCSATRepository(dbPool, cfg.DBDriver)
	var cacheClient *cache.Cache
	if cfg.CacheEnabled {
		cacheClient, err = cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			logger.Warn("Cache unavailable, reading records directly", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			records = source.NewCachedRecords(records, cacheClient, cfg.RecordCacheTTL, logger)
			logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
		}
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Warn("metrics registration failed", zap.Error(err))
	}

	coordinator := dashboard.NewCoordinator(dashboard.NewStore(), configs, records, logger,
		dashboard.WithRefreshInterval(cfg.RefreshInterval),
		dashboard.WithRefreshLimit(rate.Limit(cfg.RefreshRPS), 1),
		dashboard.WithDefaultDashboard(cfg.DefaultDashboard),
	)

	dashboardService := service.NewDashboardService(coordinator, gauge.NewRegistry(logger), logger)

	grpcHandlers := handler.NewGRPCHandlers(dashboardService, logger, 0)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithMetrics(true),
	)
	if err != nil {
		_ = dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterDashboardServer(s, grpcHandlers)
	})
	grpcServer.InitializeMetrics()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
	}

	return &App{
		logger:        logger,
		dbPool:        dbPool,
		cache:         cacheClient,
		coordinator:   coordinator,
		grpcServer:    grpcServer,
		metricsServer: metricsServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.coordinator.Start(ctx); err != nil {
		if errors.Is(err, dashboard.ErrDashboardsMissing) {
			return err
		}
		// The dashboard stays up with its error status; the periodic refresh retries.
		a.logger.Warn("initial record load failed", zap.Error(err))
	}

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server listening", zap.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server exited", zap.Error(err))
				stop()
			}
		}()
	}

	a.grpcServer.Start()

	<-ctx.Done()
	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.coordinator.Stop()

	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("gRPC shutdown error", zap.Error(err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	select {
	case <-shutdownCtx.Done():
		if shutdownCtx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}
