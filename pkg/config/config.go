package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StoreDriverMemory   = "memory"
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvLogLevel      = "STOREFRONT_LOG_LEVEL"
	EnvAPIURL        = "STOREFRONT_API_URL"
	EnvAPITimeout    = "STOREFRONT_API_TIMEOUT"
	EnvStoreDriver   = "STOREFRONT_STORE_DRIVER"
	EnvStorePath     = "STOREFRONT_STORE_PATH"
	EnvDBDriver      = "STOREFRONT_DB_DRIVER"
	EnvDBDSN         = "STOREFRONT_DB_DSN"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvServerPort    = "STOREFRONT_SERVER_PORT"
	EnvJWTSecret     = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer     = "STOREFRONT_JWT_ISSUER"
	EnvAdminPassword = "STOREFRONT_ADMIN_PASSWORD"
)

type Config struct {
	App           AppConfig
	API           APIConfig
	Store         StoreConfig
	DB            DBConfig
	Redis         RedisConfig
	Server        ServerConfig
	JWT           JWTConfig
	Admin         AdminConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load reads the environment. Dev-backend-only settings are checked separately by
// ValidateServer so the CLI can run without them.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateServer checks the settings the dev backend needs on top of Load.
func (c *Config) ValidateServer() error {
	missing := []string{}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		missing = append(missing, EnvJWTSecret)
	}
	if strings.TrimSpace(c.Admin.Password) == "" {
		missing = append(missing, EnvAdminPassword)
	}
	if len(missing) > 0 {
		return fmt.Errorf("dev backend requires %s", strings.Join(missing, ", "))
	}
	if c.JWT.ExpirationMinutes <= 0 {
		return fmt.Errorf("jwt expiration minutes must be positive")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL   string        `envconfig:"STOREFRONT_API_URL" default:"http://localhost:8000"`
	Timeout   time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"0s"`
	UserAgent string        `envconfig:"STOREFRONT_API_USER_AGENT" default:"smarttech-storefront"`
}

func (a *APIConfig) validate() error {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvAPIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", EnvAPIURL)
	}
	if a.Timeout < 0 {
		return fmt.Errorf("invalid %s: must not be negative", EnvAPITimeout)
	}
	return nil
}

// StoreConfig selects where client-side state (cart, bearer token, checkout journal) lives.
type StoreConfig struct {
	Driver string `envconfig:"STOREFRONT_STORE_DRIVER" default:"file"`
	Path   string `envconfig:"STOREFRONT_STORE_PATH" default:".storefront/state.json"`
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StoreDriverMemory, StoreDriverSQLite, StoreDriverPostgres, StoreDriverRedis:
		return nil
	case StoreDriverFile:
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("%s is required for the file store", EnvStorePath)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
	}
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), StoreDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type ServerConfig struct {
	Port          string `envconfig:"STOREFRONT_SERVER_PORT" default:"8000"`
	PublicBaseURL string `envconfig:"STOREFRONT_SERVER_PUBLIC_URL" default:"http://localhost:8000"`
	UploadDir     string `envconfig:"STOREFRONT_SERVER_UPLOAD_DIR" default:"static/uploads"`
	MaxUploadMB   int    `envconfig:"STOREFRONT_SERVER_MAX_UPLOAD_MB" default:"100"`

	CORSOrigins     []string      `envconfig:"STOREFRONT_SERVER_CORS_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 0
	}
	return int64(s.MaxUploadMB) << 20
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"smarttech"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"30"`
}

// AdminConfig seeds the single dev backend administrator.
type AdminConfig struct {
	Username string `envconfig:"STOREFRONT_ADMIN_USERNAME" default:"admin"`
	Password string `envconfig:"STOREFRONT_ADMIN_PASSWORD"`
	Email    string `envconfig:"STOREFRONT_ADMIN_EMAIL" default:"admin@smarttech.local"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

// AuthRateLimitConfig throttles the admin login endpoint.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOREFRONT_LOGIN_RATE_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginUsernameLimit int           `envconfig:"STOREFRONT_LOGIN_RATE_USERNAME_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"true"`
	SeedCatalog bool `envconfig:"STOREFRONT_SEED_CATALOG" default:"true"`
}
