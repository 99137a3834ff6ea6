package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moringadesk/internal/platform/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm handle shared by every module.
type Database struct {
	DB     *gorm.DB
	Driver string
}

// Connect opens the configured engine and pings it. Driver errors are
// translated so repositories can match gorm.ErrDuplicatedKey.
func Connect(cfg config.Config, log *slog.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is required")
		}
		dialector = postgres.Open(cfg.PostgresDSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm %s: %w", cfg.DatabaseDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve %s sql db handle: %w", cfg.DatabaseDriver, err)
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DatabaseDriver, err)
	}
	if log != nil {
		log.Info("database connected",
			"event", "platform_db_connected",
			"module", "internal/platform/db",
			"layer", "platform",
			"driver", cfg.DatabaseDriver,
		)
	}
	return &Database{DB: db, Driver: cfg.DatabaseDriver}, nil
}

// PoolStats reports connection pool counters keyed by stat name.
func (d *Database) PoolStats() map[string]float64 {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil
	}
	stats := sqlDB.Stats()
	return map[string]float64{
		"open":       float64(stats.OpenConnections),
		"in_use":     float64(stats.InUse),
		"idle":       float64(stats.Idle),
		"wait_count": float64(stats.WaitCount),
	}
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
