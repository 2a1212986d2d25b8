// Package config loads the settings of the etf command: defaults, then TOML
// files, then a .env file and ETF_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverJSONL  = "jsonl"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the etf command.
type Config struct {
	Currency string        `toml:"currency"`
	Mode     string        `toml:"mode"` // live or demo, the mode a portfolio starts in
	Storage  StorageConfig `toml:"storage"`
	Catalog  CatalogConfig `toml:"catalog"`
	Server   ServerConfig  `toml:"server"`
	Logging  LoggingConfig `toml:"logging"`
}

// StorageConfig selects where the live ledger is persisted.
type StorageConfig struct {
	Driver       string `toml:"driver"`        // memory, jsonl or sqlite
	LedgerFile   string `toml:"ledger_file"`   // jsonl driver
	DatabasePath string `toml:"database_path"` // sqlite driver
}

// CatalogConfig locates the instrument catalog. An empty source uses the
// built-in demonstration catalog.
type CatalogConfig struct {
	Source   string                   `toml:"source"` // file path or http(s) URL
	Timeout  string                   `toml:"timeout"`
	Cache    bool                     `toml:"cache"`     // keep remote documents for the day
	CacheDir string                   `toml:"cache_dir"` // defaults to the user cache directory
	Mapping  portfolio.CatalogMapping `toml:"mapping"`
}

// GetTimeout parses the fetch timeout, 10s when unset or invalid.
func (c CatalogConfig) GetTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// IsRemote reports whether the catalog is fetched over HTTP.
func (c CatalogConfig) IsRemote() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// NewDefaultConfig returns a configuration that runs entirely in memory.
func NewDefaultConfig() *Config {
	return &Config{
		Currency: "EUR",
		Mode:     string(portfolio.Live),
		Storage: StorageConfig{
			Driver:       DriverJSONL,
			LedgerFile:   "ledger.jsonl",
			DatabasePath: "ledger.db",
		},
		Catalog: CatalogConfig{
			Timeout: "10s",
			Mapping: portfolio.DefaultCatalogMapping(),
		},
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPaths returns the config files looked up when none is given:
// the user config directory, then the working directory.
func DefaultPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "etf", "etf.toml"))
	}
	return append(paths, "etf.toml")
}

// Load builds the configuration from defaults, the TOML files at paths
// (later files override earlier ones, missing files are skipped), a .env
// file in the working directory and the environment.
func Load(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env is optional, it only feeds the environment.
	_ = godotenv.Load()
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if cur := os.Getenv("ETF_CURRENCY"); cur != "" {
		config.Currency = strings.ToUpper(cur)
	}
	if mode := os.Getenv("ETF_MODE"); mode != "" {
		config.Mode = strings.ToLower(mode)
	}
	if driver := os.Getenv("ETF_STORAGE"); driver != "" {
		config.Storage.Driver = strings.ToLower(driver)
	}
	if path := os.Getenv("ETF_LEDGER_FILE"); path != "" {
		config.Storage.LedgerFile = path
	}
	if path := os.Getenv("ETF_DATABASE_PATH"); path != "" {
		config.Storage.DatabasePath = path
	}
	if src := os.Getenv("ETF_CATALOG"); src != "" {
		config.Catalog.Source = src
	}
	if host := os.Getenv("ETF_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("ETF_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if origins := os.Getenv("ETF_ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if level := os.Getenv("ETF_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if pretty := os.Getenv("ETF_LOG_PRETTY"); pretty != "" {
		if b, err := strconv.ParseBool(pretty); err == nil {
			config.Logging.Pretty = b
		}
	}
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	if err := portfolio.ValidateCurrency(c.Currency); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := portfolio.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverJSONL:
		if c.Storage.LedgerFile == "" {
			return fmt.Errorf("config: storage.ledger_file is required with the %s driver", DriverJSONL)
		}
	case DriverSQLite:
		if c.Storage.DatabasePath == "" {
			return fmt.Errorf("config: storage.database_path is required with the %s driver", DriverSQLite)
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}
