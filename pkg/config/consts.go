package config

const (
	EnvPrefix = "WARUNGPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv    = "WARUNGPOS_APP_ENV"
	EnvPort      = "WARUNGPOS_APP_PORT"
	EnvDBDSN     = "WARUNGPOS_DB_DSN"
	EnvRedisURL  = "WARUNGPOS_REDIS_URL"
	EnvJWTSecret = "WARUNGPOS_JWT_SECRET"
	EnvJWTIssuer = "WARUNGPOS_JWT_ISSUER"
)
