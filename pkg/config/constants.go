package config

// EnvPrefix is the envconfig prefix for all application settings.
const EnvPrefix = "BAKERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, kept as constants so tests and tooling can
// reference them without retyping.
const (
	EnvAppEnv     = "BAKERY_APP_ENV"
	EnvPort       = "BAKERY_APP_PORT"
	EnvLogLevel   = "BAKERY_LOG_LEVEL"
	EnvDBDSN      = "BAKERY_DB_DSN"
	EnvDBHost     = "BAKERY_DB_HOST"
	EnvDBUser     = "BAKERY_DB_USER"
	EnvDBName     = "BAKERY_DB_NAME"
	EnvRedisURL   = "BAKERY_REDIS_URL"
	EnvJWTSecret  = "BAKERY_JWT_SECRET"
	EnvJWTIssuer  = "BAKERY_JWT_ISSUER"
	EnvJWTExpMins = "BAKERY_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite  = "BAKERY_USE_SQLITE"
	EnvSQLitePath = "BAKERY_SQLITE_PATH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
