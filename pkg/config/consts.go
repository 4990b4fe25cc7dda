package config

// EnvPrefix is applied by envconfig before struct tags are read.
const EnvPrefix = "bookhaven"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	SnapshotBackendDB     = "db"
	SnapshotBackendRedis  = "redis"
	SnapshotBackendMemory = "memory"
)

const (
	EnvDBDSN  = "BOOKHAVEN_DB_DSN"
	EnvDBHost = "BOOKHAVEN_DB_HOST"
	EnvDBUser = "BOOKHAVEN_DB_USER"
	EnvDBName = "BOOKHAVEN_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
