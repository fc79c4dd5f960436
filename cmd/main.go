package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employeeapi/inner/common"
	"employeeapi/inner/database"
	"employeeapi/inner/employee"
	"employeeapi/inner/info"
	"employeeapi/inner/tracing"
	"employeeapi/inner/validator"
	"employeeapi/inner/web"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title Employee API
// @version 1.0
// @BasePath /
func main() {
	// читаем конфиг из .env или переменных окружения
	var cfg = common.GetConfig(".env")
	var logger = common.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("tracing initialization failed", zap.Error(err))
	}

	db, err := database.ConnectDbWithCfg(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	var registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.AppName),
	)

	var server = build(cfg, logger, db, registry)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.AppPort))
		if err := server.App.Listen(":" + cfg.AppPort); err != nil {
			logger.Error("server stopped with error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	gracefulShutdown(server, shutdownTracing, db, logger)
}

// build собирает слои приложения: репозиторий, сервис, контроллеры
func build(cfg common.Config, logger *common.Logger, db *sqlx.DB, registry *prometheus.Registry) *web.Server {
	var server = web.NewServer(cfg, logger, registry)

	var employeeRepo = employee.NewEmployeeRepository(db)
	var employeeService = employee.NewService(employeeRepo, validator.New(), logger)
	employee.NewController(server, employeeService, logger).RegisterRoutes()

	info.NewController(server, cfg, db, logger).RegisterRoutes()
	return server
}

// gracefulShutdown дожидается активных запросов, затем сбрасывает трейсы и закрывает пул
func gracefulShutdown(server *web.Server, shutdownTracing tracing.ShutdownFunc, db *sqlx.DB, logger *common.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.App.ShutdownWithContext(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracer shutdown failed", zap.Error(err))
	}
	database.Close(db, logger)
}
