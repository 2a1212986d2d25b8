package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "live", cfg.Mode)
	assert.Equal(t, DriverJSONL, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "$.instruments[*]", cfg.Catalog.Mapping.Items)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFilesAreSkipped(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "")
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig().Server, cfg.Server)
}

func TestLoad_MergesFilesInOrder(t *testing.T) {
	base := writeFile(t, "base.toml", `
currency = "USD"

[storage]
driver = "sqlite"
database_path = "/var/lib/etf/ledger.db"

[catalog]
source = "https://example.org/etfs.json"
timeout = "3s"
cache = true
cache_dir = "/tmp/etf-cache"

[catalog.mapping]
items = "$.data[*]"
isin = "$.code"
price = "$.last"

[server]
port = 9000
allowed_origins = ["http://localhost:5173"]
`)
	override := writeFile(t, "override.toml", `
[server]
port = 9100

[logging]
level = "debug"
pretty = true
`)

	cfg, err := Load(base, override)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/etf/ledger.db", cfg.Storage.DatabasePath)
	assert.True(t, cfg.Catalog.IsRemote())
	assert.Equal(t, "3s", cfg.Catalog.GetTimeout().String())
	assert.True(t, cfg.Catalog.Cache)
	assert.Equal(t, "/tmp/etf-cache", cfg.Catalog.CacheDir)
	assert.Equal(t, "$.code", cfg.Catalog.Mapping.ISIN)
	assert.Equal(t, "$.name", cfg.Catalog.Mapping.Name, "unset mapping fields keep their default")
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ETF_CURRENCY", "chf")
	t.Setenv("ETF_MODE", "DEMO")
	t.Setenv("ETF_STORAGE", "memory")
	t.Setenv("ETF_PORT", "9090")
	t.Setenv("ETF_ALLOWED_ORIGINS", "http://a,http://b")
	t.Setenv("ETF_LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "CHF", cfg.Currency)
	assert.Equal(t, "demo", cfg.Mode)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Logging.Pretty)
}

func TestLoad_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("ETF_PORT", "not-a-port")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"bad toml", `currency = `},
		{"bad currency", `currency = "euro"`},
		{"bad mode", `mode = "paper"`},
		{"bad driver", "[storage]\ndriver = \"postgres\""},
		{"missing ledger file", "[storage]\ndriver = \"jsonl\"\nledger_file = \"\""},
		{"bad port", "[server]\nport = 70000"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "etf.toml", tc.content))
			assert.Error(t, err)
		})
	}
}

func TestCatalogConfig_GetTimeoutDefault(t *testing.T) {
	assert.Equal(t, "10s", CatalogConfig{Timeout: "soon"}.GetTimeout().String())
}
