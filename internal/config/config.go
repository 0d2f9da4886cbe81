// Package config loads application settings from defaults, an optional YAML file and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Session   SessionConfig   `koanf:"session"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	Admin     AdminConfig     `koanf:"admin"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	PublicDir       string        `koanf:"public_dir"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig selects one of the supported SQL dialects.
// URL wins over the discrete fields when set.
type DatabaseConfig struct {
	Dialect        string        `koanf:"dialect"`
	URL            string        `koanf:"url"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"`
	Host           string        `koanf:"host"`
	Port           string        `koanf:"port"`
	InstanceName   string        `koanf:"instance_name"`
	SSLMode        string        `koanf:"ssl_mode"`
	SQLitePath     string        `koanf:"sqlite_path"`
	RunMigrations  bool          `koanf:"run_migrations"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxOpenConns   int           `koanf:"max_open_conns"`
	MaxIdleConns   int           `koanf:"max_idle_conns"`
}

// RedisConfig leaves Redis disabled when Host is empty.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type SessionConfig struct {
	TTL          time.Duration `koanf:"ttl"`
	CookieName   string        `koanf:"cookie_name"`
	SecureCookie bool          `koanf:"secure_cookie"`
	KeyPrefix    string        `koanf:"key_prefix"`
	PurgeEvery   time.Duration `koanf:"purge_every"`
}

type CacheConfig struct {
	ProductTTL time.Duration `koanf:"product_ttl"`
	Namespace  string        `koanf:"namespace"`
}

// RateLimitConfig applies to the credential endpoints only.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Period   time.Duration `koanf:"period"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type GeminiConfig struct {
	Enabled bool          `koanf:"enabled"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// AdminConfig holds the account seeded outside production.
type AdminConfig struct {
	Seed     bool   `koanf:"seed"`
	Username string `koanf:"username"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

// Load builds a Config. configPath may be empty, in which case only defaults and env vars are used.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "shop_backend",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.public_dir":       "",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.shutdown_timeout": "10s",

		"database.dialect":         DialectPostgres,
		"database.ssl_mode":        "require",
		"database.sqlite_path":     "./shop.db",
		"database.run_migrations":  false,
		"database.connect_timeout": "60s",
		"database.max_open_conns":  25,
		"database.max_idle_conns":  5,

		"redis.port": "6379",
		"redis.db":   0,

		"session.ttl":           "24h",
		"session.cookie_name":   "sid",
		"session.secure_cookie": false,
		"session.key_prefix":    "session",
		"session.purge_every":   "1h",

		"cache.product_ttl": "30s",
		"cache.namespace":   "products",

		"rate_limit.requests": 10,
		"rate_limit.period":   "1m",
		"rate_limit.burst":    10,

		"cors.allowed_origins": []string{"http://localhost:3000"},

		"log.level":  "info",
		"log.format": "json",

		"gemini.enabled": false,
		"gemini.model":   "gemini-2.5-flash",
		"gemini.timeout": "30s",

		"admin.seed":     true,
		"admin.username": "admin",
		"admin.email":    "admin@gmail.com",
		"admin.password": "admin123",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return nil
}

var envKeyMap = map[string]string{
	"APP_ENV":                  "app.environment",
	"NODE_ENV":                 "app.environment",
	"HOST":                     "server.host",
	"PORT":                     "server.port",
	"PUBLIC_DIR":               "server.public_dir",
	"DB_DIALECT":               "database.dialect",
	"DATABASE_URL":             "database.url",
	"DB_USER":                  "database.user",
	"DB_PASSWORD":              "database.password",
	"DB_NAME":                  "database.name",
	"DB_HOST":                  "database.host",
	"DB_PORT":                  "database.port",
	"DB_SSLMODE":               "database.ssl_mode",
	"INSTANCE_CONNECTION_NAME": "database.instance_name",
	"SQLITE_PATH":              "database.sqlite_path",
	"RUN_MIGRATIONS":           "database.run_migrations",
	"REDIS_HOST":               "redis.host",
	"REDIS_PORT":               "redis.port",
	"REDIS_PASSWORD":           "redis.password",
	"REDIS_DB":                 "redis.db",
	"SESSION_TTL":              "session.ttl",
	"SESSION_COOKIE_NAME":      "session.cookie_name",
	"SESSION_SECURE_COOKIE":    "session.secure_cookie",
	"CACHE_PRODUCT_TTL":        "cache.product_ttl",
	"RATE_LIMIT_REQUESTS":      "rate_limit.requests",
	"RATE_LIMIT_PERIOD":        "rate_limit.period",
	"RATE_LIMIT_BURST":         "rate_limit.burst",
	"CORS_ALLOWED_ORIGINS":     "cors.allowed_origins",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
	"GEMINI_ENABLED":           "gemini.enabled",
	"GEMINI_MODEL":             "gemini.model",
	"GEMINI_TIMEOUT":           "gemini.timeout",
	"DEFAULT_ADMIN_SEED":       "admin.seed",
	"DEFAULT_ADMIN_USERNAME":   "admin.username",
	"DEFAULT_ADMIN_EMAIL":      "admin.email",
	"DEFAULT_ADMIN_PASSWORD":   "admin.password",
}

// envValue maps a known env var to its config key. Unknown vars are dropped.
func envValue(key, value string) (string, any) {
	mapped, ok := envKeyMap[key]
	if !ok {
		return "", nil
	}
	if mapped == "cors.allowed_origins" {
		origins := strings.Split(value, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return mapped, origins
	}
	return mapped, value
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	switch c.Database.Dialect {
	case DialectPostgres, DialectMySQL:
		if c.Database.URL == "" && c.Database.Host == "" && c.Database.InstanceName == "" {
			return fmt.Errorf("%s requires DATABASE_URL, DB_HOST or INSTANCE_CONNECTION_NAME", c.Database.Dialect)
		}
	case DialectSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DIALECT %q", c.Database.Dialect)
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Period <= 0 {
		return fmt.Errorf("rate_limit.requests and rate_limit.period must be positive")
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS wildcard '*' cannot be used with session cookies")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Enabled reports whether a Redis host was configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r *RedisConfig) Address() string {
	return r.Host + ":" + r.Port
}
