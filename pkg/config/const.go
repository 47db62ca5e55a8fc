package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "FIXFLOW"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "FIXFLOW_APP_ENV"
	EnvPort       = "FIXFLOW_APP_PORT"
	EnvDBDSN      = "FIXFLOW_DB_DSN"
	EnvDBHost     = "FIXFLOW_DB_HOST"
	EnvDBUser     = "FIXFLOW_DB_USER"
	EnvDBName     = "FIXFLOW_DB_NAME"
	EnvRedisURL   = "FIXFLOW_REDIS_URL"
	EnvJWTSecret  = "FIXFLOW_JWT_SECRET"
	EnvJWTIssuer  = "FIXFLOW_JWT_ISSUER"
	EnvJWTExpMins = "FIXFLOW_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
