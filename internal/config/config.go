package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "crania.yaml"

// EnvPrefix prefixes every environment override, e.g. CRANIA_DB_PATH.
const EnvPrefix = "CRANIA"

// Config represents the top-level crania.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Database DatabaseConfig `yaml:"database"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Import   ImportConfig   `yaml:"import"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// BusinessConfig identifies the business whose books these are.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LedgerConfig names the designated accounts by code. They are resolved to
// account ids once at startup.
type LedgerConfig struct {
	CashAccount    string `yaml:"cash_account"`
	TaxAccount     string `yaml:"tax_account"`
	IncomeAccount  string `yaml:"income_account"`
	ExpenseAccount string `yaml:"expense_account"`
}

// ImportConfig controls bank statement import.
type ImportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // chase or statement
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	RateLimit int    `yaml:"rate_limit"` // requests per second
	BodyLimit string `yaml:"body_limit"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file,omitempty"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns a Config with sensible defaults for new books.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{Name: businessName},
		Database: DatabaseConfig{Path: "crania.db"},
		Ledger: LedgerConfig{
			CashAccount:    "1000",
			TaxAccount:     "2300",
			IncomeAccount:  "4000",
			ExpenseAccount: "6900",
		},
		Import: ImportConfig{
			Dir:    "import",
			Format: "chase",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:5000",
			RateLimit: 20,
			BodyLimit: "1M",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a crania.yaml file from disk. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// LoadOrDefault reads path, falling back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default("")
		cfg.dir = filepath.Dir(path)
		return cfg, nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// envOverrides lists the settings that can come from the environment.
// Unset variables leave the file value alone.
type envOverrides struct {
	BusinessName string `envconfig:"BUSINESS_NAME"`
	DBPath       string `envconfig:"DB_PATH"`
	ImportDir    string `envconfig:"IMPORT_DIR"`
	ServerAddr   string `envconfig:"SERVER_ADDR"`
	RateLimit    *int   `envconfig:"RATE_LIMIT"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	LogFile      string `envconfig:"LOG_FILE"`
	LogPretty    *bool  `envconfig:"LOG_PRETTY"`
}

// ApplyEnv loads envFile if it exists, then applies CRANIA_* environment
// overrides to cfg. Variables already set in the environment win over the
// file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	setIf(&c.Business.Name, env.BusinessName)
	setIf(&c.Database.Path, env.DBPath)
	setIf(&c.Import.Dir, env.ImportDir)
	setIf(&c.Server.Addr, env.ServerAddr)
	setIf(&c.Log.Level, env.LogLevel)
	setIf(&c.Log.File, env.LogFile)
	if env.RateLimit != nil {
		c.Server.RateLimit = *env.RateLimit
	}
	if env.LogPretty != nil {
		c.Log.Pretty = *env.LogPretty
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Resolve returns p, made absolute against the config file's directory
// when relative.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// DatabasePath returns the resolved database file path.
func (c *Config) DatabasePath() string {
	return c.Resolve(c.Database.Path)
}

// ImportDir returns the resolved import directory.
func (c *Config) ImportDir() string {
	return c.Resolve(c.Import.Dir)
}
