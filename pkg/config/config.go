package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is empty because every field carries its full VELOX_* name.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "VELOX_APP_ENV"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Stock        StockConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELOX_APP_ENV" required:"true"`
	Port         string `envconfig:"VELOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELOX_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"VELOX_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VELOX_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VELOX_DB_DSN"`
	Driver string `envconfig:"VELOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELOX_DB_HOST"`
	LegacyPort     int    `envconfig:"VELOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELOX_DB_USER"`
	LegacyPassword string `envconfig:"VELOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds the DSN from the legacy host/port variables when VELOX_DB_DSN
// is not set directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either VELOX_DB_DSN or VELOX_DB_HOST/USER/NAME must be set")
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     "/" + d.LegacyName,
		RawQuery: "sslmode=" + d.LegacySSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"VELOX_REDIS_URL"`
	Address      string        `envconfig:"VELOX_REDIS_ADDR"`
	Password     string        `envconfig:"VELOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StockConfig tunes the stock coordinator.
type StockConfig struct {
	// RepairZero controls whether the revalidation sweep resets rows with
	// quantity <= 0 back to 1. Zero stock can be a legitimate sold-out state,
	// so operators can opt out of the repair.
	RepairZero bool `envconfig:"VELOX_STOCK_REPAIR_ZERO" default:"true"`

	// DefaultLocation is used when a caller omits the storage location.
	DefaultLocation string `envconfig:"VELOX_STOCK_DEFAULT_LOCATION" default:"Matriz"`

	// RevalidateInterval is the cadence of the cron sweep.
	RevalidateInterval time.Duration `envconfig:"VELOX_STOCK_REVALIDATE_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELOX_AUTO_MIGRATE" default:"false"`
}
