package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	Admin         AdminConfig
	Uploads       UploadsConfig
	Cart          CartConfig
	Cron          CronConfig
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
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`

	CORSOrigins     []string      `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the single SQLite database file backing the store.
type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	Path   string `envconfig:"STOREFRONT_DB_PATH" default:"data/storefront.db"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"STOREFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

// CatalogConfig controls the remote product feed mirror.
type CatalogConfig struct {
	BaseURL            string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"https://promonitor.no"`
	FetchTimeout       time.Duration `envconfig:"STOREFRONT_CATALOG_FETCH_TIMEOUT" default:"30s"`
	SyncOnStartup      bool          `envconfig:"STOREFRONT_CATALOG_SYNC_ON_STARTUP" default:"false"`
	CollectionsEnabled bool          `envconfig:"STOREFRONT_CATALOG_COLLECTIONS_ENABLED" default:"false"`
	SeedProducts       bool          `envconfig:"STOREFRONT_CATALOG_SEED_PRODUCTS" default:"false"`
}

// AdminConfig seeds the back-office account on startup when both values are set.
type AdminConfig struct {
	Email    string `envconfig:"STOREFRONT_ADMIN_EMAIL"`
	Password string `envconfig:"STOREFRONT_ADMIN_PASSWORD"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"STOREFRONT_UPLOADS_DIR" default:"public/uploads"`
	PublicPrefix string `envconfig:"STOREFRONT_UPLOADS_PUBLIC_PREFIX" default:"/uploads"`
	MaxBytes     int64  `envconfig:"STOREFRONT_UPLOADS_MAX_BYTES" default:"2097152"`
	MaxGallery   int    `envconfig:"STOREFRONT_UPLOADS_MAX_GALLERY" default:"12"`
}

type CartConfig struct {
	TTL          time.Duration `envconfig:"STOREFRONT_CART_TTL" default:"168h"`
	CookieName   string        `envconfig:"STOREFRONT_CART_COOKIE_NAME" default:"sf_session"`
	CookieSecure bool          `envconfig:"STOREFRONT_CART_COOKIE_SECURE" default:"false"`
}

type CronConfig struct {
	SyncInterval time.Duration `envconfig:"STOREFRONT_CRON_SYNC_INTERVAL" default:"1h"`
	LockTTL      time.Duration `envconfig:"STOREFRONT_CRON_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if !strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("unsupported %s %q: only sqlite is supported", "STOREFRONT_DB_DRIVER", db.Driver)
	}
	if db.DSN != "" {
		return nil
	}
	if strings.TrimSpace(db.Path) == "" {
		return fmt.Errorf("either %s or %s is required", EnvDBDSN, EnvDBPath)
	}
	db.DSN = fmt.Sprintf("file:%s?%s", db.Path, EnvDefaultSQLiteDSNOptions)
	return nil
}
