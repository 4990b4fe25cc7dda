package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	Service     ServiceConfig
	DB          DBConfig
	Redis       RedisConfig
	Snapshot    SnapshotConfig
	Checkout    CheckoutConfig
	Fulfillment FulfillmentConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Snapshot.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOKHAVEN_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"BOOKHAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOKHAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BOOKHAVEN_SERVICE_KIND" default:"fulfillment-worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"BOOKHAVEN_DB_DSN"`
	Driver string `envconfig:"BOOKHAVEN_DB_DRIVER" default:"sqlite"`

	Host     string `envconfig:"BOOKHAVEN_DB_HOST"`
	Port     int    `envconfig:"BOOKHAVEN_DB_PORT" default:"5432"`
	User     string `envconfig:"BOOKHAVEN_DB_USER"`
	Password string `envconfig:"BOOKHAVEN_DB_PASSWORD"`
	Name     string `envconfig:"BOOKHAVEN_DB_NAME"`
	SSLMode  string `envconfig:"BOOKHAVEN_DB_SSLMODE" default:"disable"`

	SQLitePath  string `envconfig:"BOOKHAVEN_DB_SQLITE_PATH" default:"bookhaven.db"`
	AutoMigrate bool   `envconfig:"BOOKHAVEN_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"BOOKHAVEN_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BOOKHAVEN_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BOOKHAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOKHAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) UseSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOKHAVEN_REDIS_URL"`
	Address      string        `envconfig:"BOOKHAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"BOOKHAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKHAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKHAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKHAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKHAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKHAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOKHAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SnapshotConfig selects where serialized cart/user/orders/books snapshots live.
type SnapshotConfig struct {
	Backend string `envconfig:"BOOKHAVEN_SNAPSHOT_BACKEND" default:"db"`
}

func (s SnapshotConfig) validate() error {
	switch strings.ToLower(s.Backend) {
	case SnapshotBackendDB, SnapshotBackendRedis, SnapshotBackendMemory:
		return nil
	}
	return fmt.Errorf("unknown snapshot backend %q", s.Backend)
}

func (s SnapshotConfig) UseRedis() bool {
	return strings.EqualFold(s.Backend, SnapshotBackendRedis)
}

func (s SnapshotConfig) UseDB() bool {
	return strings.EqualFold(s.Backend, SnapshotBackendDB)
}

// CheckoutConfig carries the simulated processing latencies. They stand in for
// network round-trips and may be zeroed; the busy signal is what callers rely on.
type CheckoutConfig struct {
	CartDelay  time.Duration `envconfig:"BOOKHAVEN_CHECKOUT_CART_DELAY" default:"500ms"`
	OrderDelay time.Duration `envconfig:"BOOKHAVEN_CHECKOUT_ORDER_DELAY" default:"1500ms"`
}

type FulfillmentConfig struct {
	Interval time.Duration `envconfig:"BOOKHAVEN_FULFILLMENT_INTERVAL" default:"6h"`
	LockTTL  time.Duration `envconfig:"BOOKHAVEN_FULFILLMENT_LOCK_TTL" default:"30m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.UseSQLite() || db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
