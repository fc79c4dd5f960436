package database

import (
	"context"
	"database/sql"
	"fmt"

	"employeeapi/inner/common"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

var sqlOpen = sql.Open

// Подключиться к базе данных с переданным конфигом.
// DB_DRIVER_NAME выбирает драйвер: "postgres" (lib/pq) или "pgx" (pgx stdlib);
// оба оборачиваются otelsql.
func ConnectDbWithCfg(ctx context.Context, cfg common.Config, logger *common.Logger) (*sqlx.DB, error) {
	driverName, err := otelsql.Register(cfg.DbDriverName,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql for %s: %w", cfg.DbDriverName, err)
	}

	db, err := sqlOpen(driverName, cfg.Dsn)
	if err != nil {
		logger.Error("Failed to open database",
			zap.String("driver", cfg.DbDriverName),
			zap.Error(err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DbMaxOpenConns)
	db.SetMaxIdleConns(cfg.DbMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DbConnMaxLifetime)

	logger.Debug("Database connection pool configured",
		zap.Int("maxOpenConns", cfg.DbMaxOpenConns),
		zap.Int("maxIdleConns", cfg.DbMaxIdleConns),
		zap.Duration("connMaxLifetime", cfg.DbConnMaxLifetime))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DbConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		logger.Error("Failed to connect to database",
			zap.String("driver", cfg.DbDriverName),
			zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connection established successfully",
		zap.String("driver", cfg.DbDriverName))

	// sqlx нужно исходное имя драйвера, чтобы выбрать стиль плейсхолдеров
	return sqlx.NewDb(db, cfg.DbDriverName), nil
}

// Close закрывает пул при остановке приложения
func Close(db *sqlx.DB, logger *common.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
		return
	}
	logger.Info("Database connection pool closed")
}
