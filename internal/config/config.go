package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting the API reads from the environment.
type Config struct {
	Port   int    `env:"PORT" envDefault:"3001"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"file"`
	SignaturesDir string `env:"SIGNATURES_DIR" envDefault:"public/SavedSignatures"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/signatures.db"`
	DatabaseURL   string `env:"DATABASE_URL"`

	EmployeesFile string `env:"EMPLOYEES_FILE" envDefault:"public/employees.json"`
	AdminEmail    string `env:"ADMIN_EMAIL"`

	Mail Mail

	AppName     string   `env:"APP_NAME" envDefault:"Signature Campaign"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
	StaticDir   string   `env:"STATIC_DIR" envDefault:"dist"`

	RabbitMQURL   string `env:"RABBITMQ_URL"`
	SaveRateLimit int    `env:"SAVE_RATE_LIMIT" envDefault:"30"`
}

// Mail is the SMTP transport configuration.
type Mail struct {
	Host               string        `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	Port               int           `env:"EMAIL_PORT" envDefault:"587"`
	Secure             bool          `env:"EMAIL_SECURE" envDefault:"false"`
	User               string        `env:"EMAIL_USER"`
	Password           string        `env:"EMAIL_PASS"`
	VerifyCertificates bool          `env:"TLS_REJECT_UNAUTHORIZED" envDefault:"true"`
	Timeout            time.Duration `env:"EMAIL_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	for i, origin := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(origin)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that would leave the service unable to run.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (use file, sqlite or postgres)", c.StoreDriver)
	}
	if strings.TrimSpace(c.AdminEmail) == "" {
		return errors.New("ADMIN_EMAIL is required to authorize approval notifications")
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.SaveRateLimit <= 0 {
		return fmt.Errorf("invalid SAVE_RATE_LIMIT %d", c.SaveRateLimit)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
