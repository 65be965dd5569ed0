package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "NUTHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "NUTHUB_APP_ENV"
	EnvPort       = "NUTHUB_APP_PORT"
	EnvDBDSN      = "NUTHUB_DB_DSN"
	EnvDBHost     = "NUTHUB_DB_HOST"
	EnvDBUser     = "NUTHUB_DB_USER"
	EnvDBName     = "NUTHUB_DB_NAME"
	EnvJWTSecret  = "NUTHUB_JWT_SECRET"
	EnvRedisURL   = "NUTHUB_REDIS_URL"
	EnvHypayMasof = "NUTHUB_HYPAY_MASOF"
	EnvHypayKey   = "NUTHUB_HYPAY_KEY"
	EnvHypayPassP = "NUTHUB_HYPAY_PASSP"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
