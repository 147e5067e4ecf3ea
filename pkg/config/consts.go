package config

// EnvPrefix scopes envconfig lookups; the struct tags carry the full names.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogWarnStack = "STOREFRONT_LOG_WARN_STACK"
	EnvLogFormat    = "STOREFRONT_LOG_FORMAT"

	EnvDBDSN          = "STOREFRONT_DB_DSN"
	EnvDBPath         = "STOREFRONT_DB_PATH"
	EnvDBMaxOpenConns = "STOREFRONT_DB_MAX_OPEN_CONNS"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret               = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer               = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins              = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"
	EnvAutoMigrate             = "STOREFRONT_AUTO_MIGRATE"
	EnvCatalogBaseURL          = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogSyncOnStartup    = "STOREFRONT_CATALOG_SYNC_ON_STARTUP"
	EnvCatalogCollections      = "STOREFRONT_CATALOG_COLLECTIONS_ENABLED"
	EnvCatalogSeedProducts     = "STOREFRONT_CATALOG_SEED_PRODUCTS"
	EnvCatalogFetchTimeout     = "STOREFRONT_CATALOG_FETCH_TIMEOUT"
	EnvAdminEmail              = "STOREFRONT_ADMIN_EMAIL"
	EnvAdminPassword           = "STOREFRONT_ADMIN_PASSWORD"
	EnvUploadsDir              = "STOREFRONT_UPLOADS_DIR"
	EnvUploadsMaxBytes         = "STOREFRONT_UPLOADS_MAX_BYTES"
	EnvCartTTL                 = "STOREFRONT_CART_TTL"
	EnvCronSyncInterval        = "STOREFRONT_CRON_SYNC_INTERVAL"
	EnvMigrationsDir           = "STOREFRONT_MIGRATIONS_DIR"
	EnvDefaultSQLiteDSNOptions = "_busy_timeout=5000&_foreign_keys=on"
)
