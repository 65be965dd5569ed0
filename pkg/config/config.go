package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Uploads   UploadsConfig
	Hypay     HypayConfig
	Orders    OrdersConfig
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
	Env          string `envconfig:"NUTHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"NUTHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NUTHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NUTHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NUTHUB_DB_DSN"`
	Driver string `envconfig:"NUTHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NUTHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"NUTHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NUTHUB_DB_USER"`
	LegacyPassword string `envconfig:"NUTHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"NUTHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"NUTHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NUTHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NUTHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NUTHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NUTHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"NUTHUB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NUTHUB_REDIS_URL"`
	Address      string        `envconfig:"NUTHUB_REDIS_ADDR"`
	Password     string        `envconfig:"NUTHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"NUTHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NUTHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NUTHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NUTHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NUTHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NUTHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NUTHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NUTHUB_JWT_ISSUER" default:"nuthub"`
	ExpirationMinutes int    `envconfig:"NUTHUB_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NUTHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NUTHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NUTHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NUTHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NUTHUB_ARGON_KEY_LEN" default:"32"`
}

// RateLimitConfig mirrors the storefront's 100-requests-per-15-minutes policy.
type RateLimitConfig struct {
	Window   time.Duration `envconfig:"NUTHUB_RATE_LIMIT_WINDOW" default:"15m"`
	IPLimit  int           `envconfig:"NUTHUB_RATE_LIMIT_IP_LIMIT" default:"100"`
	Disabled bool          `envconfig:"NUTHUB_RATE_LIMIT_DISABLED" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"NUTHUB_CORS_ALLOWED_ORIGINS"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"NUTHUB_UPLOADS_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"NUTHUB_MAX_UPLOAD_MB" default:"2"`
}

// HypayConfig carries the merchant credentials for the hosted payment page.
// These are attached server-side only and must never reach the browser.
type HypayConfig struct {
	BaseURL     string        `envconfig:"NUTHUB_HYPAY_BASE_URL" default:"https://pay.hyp.co.il/p/"`
	TerminalID  string        `envconfig:"NUTHUB_HYPAY_MASOF"`
	APIKey      string        `envconfig:"NUTHUB_HYPAY_KEY"`
	Passphrase  string        `envconfig:"NUTHUB_HYPAY_PASSP"`
	HTTPTimeout time.Duration `envconfig:"NUTHUB_HYPAY_HTTP_TIMEOUT" default:"10s"`
}

type OrdersConfig struct {
	ShippingFee string `envconfig:"NUTHUB_ORDERS_SHIPPING_FEE" default:"5.99"`
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
