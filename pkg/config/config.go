package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "REFACCIONARIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "REFACCIONARIA_DB_DSN"
	EnvDBHost = "REFACCIONARIA_DB_HOST"
	EnvDBUser = "REFACCIONARIA_DB_USER"
	EnvDBName = "REFACCIONARIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REFACCIONARIA_APP_ENV" required:"true"`
	Port         string `envconfig:"REFACCIONARIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REFACCIONARIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REFACCIONARIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REFACCIONARIA_DB_DSN"`
	Driver string `envconfig:"REFACCIONARIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REFACCIONARIA_DB_HOST"`
	LegacyPort     int    `envconfig:"REFACCIONARIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REFACCIONARIA_DB_USER"`
	LegacyPassword string `envconfig:"REFACCIONARIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"REFACCIONARIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"REFACCIONARIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REFACCIONARIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REFACCIONARIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REFACCIONARIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REFACCIONARIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REFACCIONARIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"REFACCIONARIA_REDIS_ADDR"`
	Password     string        `envconfig:"REFACCIONARIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"REFACCIONARIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REFACCIONARIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REFACCIONARIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REFACCIONARIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REFACCIONARIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REFACCIONARIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REFACCIONARIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REFACCIONARIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"REFACCIONARIA_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"REFACCIONARIA_SESSION_TTL_MINUTES" default:"480"`
}

// SessionTTL returns the server-side login session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REFACCIONARIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REFACCIONARIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REFACCIONARIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REFACCIONARIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REFACCIONARIA_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	// Idle TTL for the session-scoped cart blob; refreshed on every save.
	IdleTTL time.Duration `envconfig:"REFACCIONARIA_CART_IDLE_TTL" default:"30m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"REFACCIONARIA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"REFACCIONARIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"REFACCIONARIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	// InventoryTopic is optional; when empty, inventory events are disabled.
	InventoryTopic string `envconfig:"REFACCIONARIA_PUBSUB_INVENTORY_TOPIC"`
}

// Enabled reports whether inventory event publishing is configured.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.InventoryTopic) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"REFACCIONARIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"REFACCIONARIA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
