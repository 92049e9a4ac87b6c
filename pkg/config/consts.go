package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "REVIEWHUB"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "REVIEWHUB_APP_ENV"
	EnvPort       = "REVIEWHUB_APP_PORT"
	EnvDBDSN      = "REVIEWHUB_DB_DSN"
	EnvDBHost     = "REVIEWHUB_DB_HOST"
	EnvDBUser     = "REVIEWHUB_DB_USER"
	EnvDBName     = "REVIEWHUB_DB_NAME"
	EnvRedisURL   = "REVIEWHUB_REDIS_URL"
	EnvJWTSecret  = "REVIEWHUB_JWT_SECRET"
	EnvJWTIssuer  = "REVIEWHUB_JWT_ISSUER"
	EnvJWTExpMins = "REVIEWHUB_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
