package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvBackendBaseURL = "STOREFRONT_BACKEND_BASE_URL"
	EnvJWTSecret      = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer      = "STOREFRONT_JWT_ISSUER"
)
