package config

const EnvPrefix = "CAMPUSEATS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "CAMPUSEATS_APP_ENV"
	EnvPort      = "CAMPUSEATS_APP_PORT"
	EnvLogLevel  = "CAMPUSEATS_LOG_LEVEL"
	EnvDBDSN     = "CAMPUSEATS_DB_DSN"
	EnvDBHost    = "CAMPUSEATS_DB_HOST"
	EnvDBPort    = "CAMPUSEATS_DB_PORT"
	EnvDBUser    = "CAMPUSEATS_DB_USER"
	EnvDBPass    = "CAMPUSEATS_DB_PASSWORD"
	EnvDBName    = "CAMPUSEATS_DB_NAME"
	EnvDBSSLMode = "CAMPUSEATS_DB_SSLMODE"
	EnvRedisURL  = "CAMPUSEATS_REDIS_URL"
	EnvJWTSecret = "CAMPUSEATS_JWT_SECRET"
	EnvJWTIssuer = "CAMPUSEATS_JWT_ISSUER"
	EnvJWTExp    = "CAMPUSEATS_JWT_EXPIRATION_MINUTES"
	EnvMediaURL  = "CAMPUSEATS_MEDIA_ENDPOINT"
	EnvMailOn    = "CAMPUSEATS_MAIL_ENABLED"
	EnvPopular   = "CAMPUSEATS_POPULAR_LIMIT"
	EnvCORS      = "CAMPUSEATS_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
