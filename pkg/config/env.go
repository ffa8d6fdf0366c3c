package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CartStoreMemory   = "memory"
	CartStoreRedis    = "redis"
	CartStorePostgres = "postgres"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvDBDSN        = "STOREFRONT_DB_DSN"
	EnvDBHost       = "STOREFRONT_DB_HOST"
	EnvDBUser       = "STOREFRONT_DB_USER"
	EnvDBName       = "STOREFRONT_DB_NAME"
	EnvDBPassword   = "STOREFRONT_DB_PASSWORD"
	EnvRedisURL     = "STOREFRONT_REDIS_URL"
	EnvRedisAddr    = "STOREFRONT_REDIS_ADDR"
	EnvTaxRate      = "STOREFRONT_PRICING_TAX_RATE"
	EnvFreeShipping = "STOREFRONT_PRICING_FREE_SHIPPING_THRESHOLD"
	EnvShippingFee  = "STOREFRONT_PRICING_SHIPPING_FLAT_FEE"
	EnvCartStore    = "STOREFRONT_CART_STORE"
	EnvCartTTL      = "STOREFRONT_CART_TTL"
	EnvUseSQLite    = "STOREFRONT_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
