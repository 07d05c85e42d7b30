package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment override, e.g. FOOD_DATABASE_DRIVER.
const EnvPrefix = "FOOD"

const devJWTSecret = "food_delivery_dev_secret"

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig selects the storage driver. Path is used by sqlite, DSN by postgres.
type DatabaseConfig struct {
	Driver          string
	Path            string
	DSN             string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Store string // memory or redis
	TTL   time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminConfig holds the single administrator login. Only the bcrypt hash is
// kept after Load.
type AdminConfig struct {
	Username     string
	Email        string
	PasswordHash string
}

type LogConfig struct {
	Level    string
	Format   string
	Output   string
	SQLLevel string
}

type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration with this priority:
// 1. environment variables with the FOOD_ prefix (a .env file is loaded first if present)
// 2. config.toml in the working directory
// 3. built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			Path:            v.GetString("database.path"),
			DSN:             v.GetString("database.dsn"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Store: strings.ToLower(v.GetString("session.store")),
			TTL:   v.GetDuration("session.ttl"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Admin: AdminConfig{
			Username:     v.GetString("admin.username"),
			Email:        v.GetString("admin.email"),
			PasswordHash: v.GetString("admin.password_hash"),
		},
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Format:   v.GetString("log.format"),
			Output:   v.GetString("log.output"),
			SQLLevel: v.GetString("log.sql_level"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			CORSOrigins:     v.GetStringSlice("http.cors_origins"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}

	if cfg.Admin.PasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(v.GetString("admin.password")), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		cfg.Admin.PasswordHash = string(hash)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fooddelight")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "food_delivery.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("jwt.secret", devJWTSecret)
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("jwt.issuer", "fooddelight")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@foodapp.com")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.sql_level", "warn")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q (want sqlite or postgres)", c.Database.Driver)
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported session.store %q (want memory or redis)", c.Session.Store)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must not be empty")
	}
	if c.IsProduction() && c.JWT.Secret == devJWTSecret {
		return errors.New("jwt.secret must be set in production")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be positive")
	}
	if c.Admin.Username == "" {
		return errors.New("admin.username must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
