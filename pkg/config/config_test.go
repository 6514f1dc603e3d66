package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/envstore/pkg/bootstrap"
	"github.com/marmos91/envstore/pkg/store"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
// On Windows, backslashes in double-quoted YAML strings are interpreted as
// escape sequences, causing parse errors.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	dbPath := yamlSafePath(filepath.Join(t.TempDir(), "settings.db"))
	configPath := writeConfig(t, "config.yaml", `
logging:
  level: debug

database:
  type: SQLite
  sqlite:
    path: "`+dbPath+`"
    busy_timeout: 2s
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Database.Type != store.DatabaseTypeSQLite {
		t.Errorf("Expected database type 'sqlite', got %q", cfg.Database.Type)
	}
	if cfg.Database.SQLite.Path != dbPath {
		t.Errorf("Expected sqlite path %q, got %q", dbPath, cfg.Database.SQLite.Path)
	}
	if cfg.Database.SQLite.BusyTimeout != 2*time.Second {
		t.Errorf("Expected busy_timeout 2s, got %v", cfg.Database.SQLite.BusyTimeout)
	}
	if cfg.Bootstrap.Path != bootstrap.DefaultPath {
		t.Errorf("Expected bootstrap path %q, got %q", bootstrap.DefaultPath, cfg.Bootstrap.Path)
	}
	if !cfg.Bootstrap.ShouldImportOnInit() {
		t.Error("Expected import_on_init to default to true")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}

	if cfg.Database.SQLite.Path != store.DefaultSQLitePath {
		t.Errorf("Expected default database %q, got %q", store.DefaultSQLitePath, cfg.Database.SQLite.Path)
	}
	if cfg.Database.SQLite.BusyTimeout != store.DefaultBusyTimeout {
		t.Errorf("Expected default busy timeout, got %v", cfg.Database.SQLite.BusyTimeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid.yaml", `
logging:
  level: INFO
  invalid yaml here [[[
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_TOML(t *testing.T) {
	configPath := writeConfig(t, "config.toml", `
[logging]
format = "json"

[bootstrap]
path = "defaults.toml"
modules_path = "modules.toml"
import_on_init = false

[metrics]
enabled = true
textfile = "envstore.prom"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Bootstrap.Path != "defaults.toml" || cfg.Bootstrap.ModulesPath != "modules.toml" {
		t.Errorf("Unexpected bootstrap config: %+v", cfg.Bootstrap)
	}
	if cfg.Bootstrap.ShouldImportOnInit() {
		t.Error("Expected import_on_init false")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Textfile != "envstore.prom" {
		t.Errorf("Unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
database:
  type: mysql
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected validation error for unsupported database type")
	}
	if !strings.Contains(err.Error(), "mysql") {
		t.Errorf("Expected error to name the database type, got: %v", err)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ENVSTORE_LOGGING_LEVEL", "ERROR")
	t.Setenv("ENVSTORE_DATABASE_SQLITE_PATH", "/var/lib/envstore/config.db")
	t.Setenv("ENVSTORE_TELEMETRY_ENABLED", "true")

	configPath := writeConfig(t, "config.yaml", `
logging:
  level: "INFO"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	// not present in the file at all
	if cfg.Database.SQLite.Path != "/var/lib/envstore/config.db" {
		t.Errorf("Expected sqlite path from env var, got %q", cfg.Database.SQLite.Path)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Expected telemetry enabled from env var")
	}
}

func TestLoad_EnvironmentWithoutFile(t *testing.T) {
	t.Setenv("ENVSTORE_BOOTSTRAP_PATH", "/etc/envstore/env.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Bootstrap.Path != "/etc/envstore/env.json" {
		t.Errorf("Expected bootstrap path from env var, got %q", cfg.Bootstrap.Path)
	}
}

func TestMustLoad_MissingExplicitFile(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "envstore init") {
		t.Errorf("Expected hint to run 'envstore init', got: %v", err)
	}
}

func TestMustLoad_NoDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := MustLoad("")
	if err != nil {
		t.Fatalf("Expected defaults without a config file, got: %v", err)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level, got %q", cfg.Logging.Level)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Logging.Format = "json"
	cfg.Database.SQLite.Path = "/data/config.db"
	off := false
	cfg.Bootstrap.ImportOnInit = &off

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload saved config: %v", err)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", loaded.Logging.Format)
	}
	if loaded.Database.SQLite.Path != "/data/config.db" {
		t.Errorf("Expected sqlite path preserved, got %q", loaded.Database.SQLite.Path)
	}
	if loaded.Database.SQLite.BusyTimeout != store.DefaultBusyTimeout {
		t.Errorf("Expected busy timeout preserved, got %v", loaded.Database.SQLite.BusyTimeout)
	}
	if loaded.Bootstrap.ShouldImportOnInit() {
		t.Error("Expected import_on_init false after round trip")
	}
}

func TestGetConfigDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	if dir := GetConfigDir(); dir != filepath.Join(tmp, "envstore") {
		t.Errorf("Expected %q, got %q", filepath.Join(tmp, "envstore"), dir)
	}
	if path := GetDefaultConfigPath(); filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected config.yaml, got %q", path)
	}
	if DefaultConfigExists() {
		t.Error("Expected no default config in empty directory")
	}
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(Config{}), "")

	want := []string{
		"logging.level",
		"database.type",
		"database.sqlite.path",
		"database.sqlite.busy_timeout",
		"database.postgres.host",
		"bootstrap.import_on_init",
		"metrics.textfile",
		"telemetry.sample_rate",
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	for _, k := range want {
		if !set[k] {
			t.Errorf("Expected key %q in %v", k, keys)
		}
	}
}
