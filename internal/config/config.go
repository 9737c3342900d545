package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Document store backends selectable through QDN_SOURCE.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

const (
	// EnvDevelopment is the only APP_ENV allowed to run with DefaultJWTSecret.
	EnvDevelopment = "development"
	// DefaultJWTSecret signs operator tokens when AUTH_JWT_SECRET is unset.
	DefaultJWTSecret = "dev-secret"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	QDN      QDNConfig      `yaml:"qdn"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
	Auth     AuthConfig     `yaml:"auth"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name"`
	Env                   string `yaml:"env"`
	Host                  string `yaml:"host"`
	Port                  string `yaml:"port"`
	Version               string `yaml:"version"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// QDNConfig selects and configures the document store.
type QDNConfig struct {
	Source         string `yaml:"source"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	FetchMetadata  bool   `yaml:"fetch_metadata"`
}

// PostgresConfig holds DB connection values for the document mirror.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	RunMigrations  bool   `yaml:"run_migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds"`
}

// SQLiteConfig locates the local document mirror.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// AuthConfig defines operator authentication parameters.
type AuthConfig struct {
	JWTSecret             string `yaml:"jwt_secret"`
	AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
	OperatorPasswordHash  string `yaml:"operator_password_hash"`
	BcryptCost            int    `yaml:"bcrypt_cost"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		App: AppConfig{
			Name:                  "qdn-ticket-service",
			Env:                   EnvDevelopment,
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
		},
		QDN: QDNConfig{
			Source:         SourceHTTP,
			BaseURL:        "http://127.0.0.1:12391",
			TimeoutSeconds: 20,
		},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			RunMigrations:  true,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		SQLite: SQLiteConfig{
			Path: "qdn-mirror.db",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Output: "stdout",
		},
		Auth: AuthConfig{
			JWTSecret:             DefaultJWTSecret,
			AccessTokenTTLMinutes: 60,
			BcryptCost:            12,
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables, applying defaults where possible. Environment wins over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("APP_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.Redis.DB)))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.App = AppConfig{
		Name:                  getEnv("APP_NAME", cfg.App.Name),
		Env:                   getEnv("APP_ENV", cfg.App.Env),
		Host:                  getEnv("APP_HOST", cfg.App.Host),
		Port:                  getEnv("APP_PORT", cfg.App.Port),
		Version:               getEnv("APP_VERSION", cfg.App.Version),
		RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", cfg.App.RequestTimeoutSeconds),
	}
	cfg.QDN = QDNConfig{
		Source:         strings.ToLower(getEnv("QDN_SOURCE", cfg.QDN.Source)),
		BaseURL:        strings.TrimRight(getEnv("QDN_BASE_URL", cfg.QDN.BaseURL), "/"),
		APIKey:         getEnv("QDN_API_KEY", cfg.QDN.APIKey),
		TimeoutSeconds: getEnvAsInt("QDN_TIMEOUT_SECONDS", cfg.QDN.TimeoutSeconds),
		FetchMetadata:  getEnvAsBool("QDN_FETCH_METADATA", cfg.QDN.FetchMetadata),
	}
	cfg.Postgres = PostgresConfig{
		DSN:            getEnv("POSTGRES_DSN", cfg.Postgres.DSN),
		MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", int(cfg.Postgres.MaxConns))),
		MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", int(cfg.Postgres.MinConns))),
		RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", cfg.Postgres.RunMigrations),
		ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", int(cfg.Postgres.ConnMaxIdleSec))),
		ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", int(cfg.Postgres.ConnMaxLifeSec))),
	}
	cfg.SQLite = SQLiteConfig{
		Path: getEnv("SQLITE_PATH", cfg.SQLite.Path),
	}
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", cfg.Redis.Addr),
		Password: getEnv("REDIS_PASSWORD", cfg.Redis.Password),
		DB:       redisDB,
	}
	cfg.Logger = LoggerConfig{
		Level:  getEnv("LOG_LEVEL", cfg.Logger.Level),
		Output: getEnv("LOG_OUTPUT", cfg.Logger.Output),
	}
	cfg.Auth = AuthConfig{
		JWTSecret:             getEnv("AUTH_JWT_SECRET", cfg.Auth.JWTSecret),
		AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", cfg.Auth.AccessTokenTTLMinutes),
		OperatorPasswordHash:  getEnv("AUTH_OPERATOR_PASSWORD_HASH", cfg.Auth.OperatorPasswordHash),
		BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", cfg.Auth.BcryptCost),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.App.Env != EnvDevelopment && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("AUTH_JWT_SECRET must be set when APP_ENV is %q", c.App.Env)
	}
	switch c.QDN.Source {
	case SourceHTTP:
		if c.QDN.BaseURL == "" {
			return fmt.Errorf("QDN_BASE_URL required for source %q", SourceHTTP)
		}
	case SourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN required for source %q", SourcePostgres)
		}
	case SourceSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH required for source %q", SourceSQLite)
		}
	default:
		return fmt.Errorf("invalid QDN_SOURCE %q", c.QDN.Source)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-request timeout of the QDN HTTP client.
func (q QDNConfig) Timeout() time.Duration {
	if q.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(q.TimeoutSeconds) * time.Second
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
