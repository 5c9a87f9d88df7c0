package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	DB    DBConfig
	AI    AIConfig
	Redis RedisConfig
}

type AppConfig struct {
	Name              string `env:"APP_NAME" env-default:"Task Manager API"`
	Version           string `env:"APP_VERSION" env-default:"dev"`
	TranslationFolder string `env:"TRANSLATION_FOLDER" env-default:"pkg/translator/translation"`
}

type HTTPConfig struct {
	Port           string        `env:"APP_PORT" env-default:"8080"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" env-separator:","`
	CorsOrigins    string        `env:"CORS_ORIGINS" env-default:"http://localhost:3000,http://127.0.0.1:3000"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER" env-default:"sqlite"`
	URL    string `env:"DATABASE_URL"`

	// Used to build a MySQL DSN when DATABASE_URL is empty.
	Host     string `env:"MYSQL_HOST" env-default:"db"`
	Port     string `env:"MYSQL_PORT" env-default:"3306"`
	User     string `env:"MYSQL_USER" env-default:"taskmanager"`
	Password string `env:"MYSQL_PASSWORD" env-default:"taskmanager"`
	Name     string `env:"MYSQL_DATABASE" env-default:"taskmanager"`
	Params   string `env:"MYSQL_PARAMS" env-default:"parseTime=true&multiStatements=true"`

	// Used to build a Postgres DSN when DATABASE_URL is empty.
	PGHost     string `env:"POSTGRES_HOST" env-default:"db"`
	PGPort     string `env:"POSTGRES_PORT" env-default:"5432"`
	PGUser     string `env:"POSTGRES_USER" env-default:"taskmanager"`
	PGPassword string `env:"POSTGRES_PASSWORD" env-default:"taskmanager"`
	PGName     string `env:"POSTGRES_DB" env-default:"taskmanager"`
	PGSSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type AIConfig struct {
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	Model        string        `env:"AI_MODEL" env-default:"gemini-2.0-flash"`
	Timeout      time.Duration `env:"AI_TIMEOUT" env-default:"20s"`
}

// Enabled reports whether a provider credential was supplied.
func (c AIConfig) Enabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" env-default:"0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" env-default:"24h"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverSQLite
	}
	switch cfg.DB.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DB.Driver)
	}

	cfg.HTTP.TrustedProxies = cleanList(cfg.HTTP.TrustedProxies)
	return &cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	switch c.Driver {
	case DriverMySQL:
		params := c.Params
		if params == "" {
			params = "parseTime=true&multiStatements=true"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", c.User, c.Password, c.Host, c.Port, c.Name, params)
	case DriverPostgres:
		sslMode := c.PGSSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.PGUser, c.PGPassword),
			Host:     net.JoinHostPort(c.PGHost, c.PGPort),
			Path:     "/" + c.PGName,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return u.String()
	default:
		return "taskmanager.db"
	}
}

// AllowedOrigins splits CORS_ORIGINS. A "*" entry yields nil, meaning any origin.
func (c HTTPConfig) AllowedOrigins() []string {
	origins := cleanList(strings.Split(c.CorsOrigins, ","))
	for _, origin := range origins {
		if origin == "*" {
			return nil
		}
	}
	return origins
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
