package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Ahorros"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"CURRENCY" default:"MXN"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"file"`
		Path   string `envconfig:"STORE_PATH" default:"./data"`
		Key    string `envconfig:"STORE_KEY" default:"ahorros_app_v1"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ahorros"`
	}

	Import struct {
		// Delimiter forces the column separator of delimited files: one of
		// "," ";" "|" or "tab". Empty means detect it per file.
		Delimiter string `envconfig:"IMPORT_DELIMITER" default:""`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
		MaxUpload   int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	}
}

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// ImportDelimiter returns the configured delimiter, or false when it should
// be detected per file.
func (c *Config) ImportDelimiter() (rune, bool) {
	switch c.Import.Delimiter {
	case "":
		return 0, false
	case "tab", `\t`, "\t":
		return '\t', true
	}

	return []rune(c.Import.Delimiter)[0], true
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverFile, DriverMemory, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	switch cfg.Import.Delimiter {
	case "", ",", ";", "|", "tab", `\t`, "\t":
	default:
		return nil, fmt.Errorf("unsupported import delimiter %q", cfg.Import.Delimiter)
	}

	return &cfg, nil
}
