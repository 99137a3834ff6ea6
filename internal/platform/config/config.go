package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string

	DatabaseDriver string
	PostgresDSN    string
	SQLitePath     string
	AutoMigrate    bool

	JWTSecret        string
	JWTIssuer        string
	AccessTokenTTL   time.Duration
	PasswordResetTTL time.Duration
	SeedAdminEmail   string

	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment. Values
// already present in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(envFile()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		ServiceName:        envString("SERVICE_NAME", "moringadesk"),
		HTTPPort:           envString("HTTP_PORT", "8080"),
		DatabaseDriver:     strings.ToLower(envString("DATABASE_DRIVER", DriverPostgres)),
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		SQLitePath:         envString("SQLITE_PATH", "moringadesk.db"),
		AutoMigrate:        envBool("AUTO_MIGRATE", true),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          envString("JWT_ISSUER", "moringadesk"),
		AccessTokenTTL:     envDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		PasswordResetTTL:   envDuration("PASSWORD_RESET_TTL", 30*time.Minute),
		SeedAdminEmail:     strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate rejects configurations the process cannot serve with. Every
// driver needs a signing secret because registration and login issue tokens.
func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when DATABASE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

func envFile() string {
	if path := strings.TrimSpace(os.Getenv("ENV_FILE")); path != "" {
		return path
	}
	return ".env"
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envList(name string, fallback []string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
