package config

import (
	"path/filepath"
	"testing"
	"time"

	"fooddelight/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fooddelight", cfg.App.Name)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "food_delivery.db", cfg.Database.Path)
		assert.True(t, cfg.Database.AutoMigrate)
		assert.Equal(t, "memory", cfg.Session.Store)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "admin", cfg.Admin.Username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cfg.Admin.PasswordHash), []byte("admin123")))
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("FOOD_APP_PORT", "9090")
		t.Setenv("FOOD_DATABASE_DRIVER", "postgres")
		t.Setenv("FOOD_DATABASE_DSN", "host=db user=food dbname=food")
		t.Setenv("FOOD_SESSION_STORE", "redis")
		t.Setenv("FOOD_SESSION_TTL", "2h")
		t.Setenv("FOOD_ADMIN_PASSWORD", "s3cret!")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "host=db user=food dbname=food", cfg.Database.DSN)
		assert.Equal(t, "redis", cfg.Session.Store)
		assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cfg.Admin.PasswordHash), []byte("s3cret!")))
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("FOOD_DATABASE_DRIVER", "mysql")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported database.driver")
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		t.Setenv("FOOD_DATABASE_DRIVER", "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, "database.dsn")
	})

	t.Run("production requires a real secret", func(t *testing.T) {
		t.Setenv("FOOD_APP_ENV", "production")
		_, err := Load()
		assert.ErrorContains(t, err, "jwt.secret")

		t.Setenv("FOOD_JWT_SECRET", "a-long-production-secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?"+sqlitePragmas, SQLiteDSN("app.db"))
	assert.Equal(t, "file:app.db?cache=shared&"+sqlitePragmas, SQLiteDSN("file:app.db?cache=shared"))
}

func TestOpenDatabaseMigratesSchema(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "food.db"),
		AutoMigrate:  true,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	db, err := OpenDatabase(cfg, zap.NewNop(), "silent")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	var n int64
	require.NoError(t, db.Table(models.OrderSummaryView).Count(&n).Error)
	assert.Zero(t, n)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
