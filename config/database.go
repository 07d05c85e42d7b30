package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fooddelight/logger"
	"fooddelight/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// sqlitePragmas turns on foreign key enforcement, which sqlite leaves off by default.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SQLiteDSN appends the pragmas every sqlite connection needs to path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// OpenDatabase connects to the configured database, applies pool settings and
// migrates the schema when enabled.
func OpenDatabase(cfg DatabaseConfig, log *zap.Logger, sqlLevel string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.ParseGormLevel(sqlLevel), cfg.SlowThreshold),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := models.Migrate(db); err != nil {
			return nil, err
		}
	}
	log.Info("database ready", zap.String("driver", cfg.Driver), zap.Bool("migrated", cfg.AutoMigrate))
	return db, nil
}
