package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // IANA zones on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name written by `finewise init`.
const FileName = "finewise.yaml"

// Source kinds.
const (
	SourceCSV = "csv"
	SourceAPI = "api"
)

// Config represents the top-level finewise.yaml configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Locale LocaleConfig `yaml:"locale"`
	Budget BudgetConfig `yaml:"budget"`
	Server ServerConfig `yaml:"server"`
}

// SourceConfig selects where expenses are fetched from.
type SourceConfig struct {
	Kind    string        `yaml:"kind"`     // "csv" or "api"
	Path    string        `yaml:"path"`     // csv: relative to the config file
	BaseURL string        `yaml:"base_url"` // api: e.g. http://127.0.0.1:5000/api/v1
	Token   string        `yaml:"token,omitempty"`
	Limit   int           `yaml:"limit"` // max records per fetch, 0 = no limit
	Timeout time.Duration `yaml:"timeout"`
	Retries uint          `yaml:"retries"` // total attempts per request
}

// LocaleConfig controls how amounts and months are presented.
type LocaleConfig struct {
	CurrencySymbol string `yaml:"currency_symbol"`
	Timezone       string `yaml:"timezone"` // IANA name or "Local"
}

// BudgetConfig holds the monthly budget shown next to the totals.
type BudgetConfig struct {
	Monthly string `yaml:"monthly"` // decimal, e.g. "2000.00"
	// AlertThreshold is the percent of Monthly at which spending is flagged.
	AlertThreshold int `yaml:"alert_threshold"`
}

// ServerConfig configures `finewise serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// envOverrides are the FINEWISE_* variables that override finewise.yaml.
type envOverrides struct {
	SourceKind string `koanf:"FINEWISE_SOURCE"`
	CSVPath    string `koanf:"FINEWISE_CSV_PATH"`
	APIURL     string `koanf:"FINEWISE_API_URL"`
	APIToken   string `koanf:"FINEWISE_API_TOKEN"`
	Limit      string `koanf:"FINEWISE_LIMIT"`
	Timezone   string `koanf:"FINEWISE_TIMEZONE"`
	Currency   string `koanf:"FINEWISE_CURRENCY_SYMBOL"`
	Budget     string `koanf:"FINEWISE_MONTHLY_BUDGET"`
	Addr       string `koanf:"FINEWISE_ADDR"`
}

// Load reads a finewise.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
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

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:    SourceCSV,
			Path:    "expenses.csv",
			BaseURL: "http://127.0.0.1:5000/api/v1",
			Limit:   1000,
			Timeout: 10 * time.Second,
			Retries: 3,
		},
		Locale: LocaleConfig{
			CurrencySymbol: "₹",
			Timezone:       "Local",
		},
		Budget: BudgetConfig{
			Monthly:        "2000.00",
			AlertThreshold: 80,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Resolve loads the config at path (defaults if the file does not exist),
// loads a .env file next to it, applies FINEWISE_* overrides and validates
// the result. A relative CSV path is made relative to the config's directory.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Source.Kind == SourceCSV && !filepath.IsAbs(cfg.Source.Path) {
		cfg.Source.Path = filepath.Join(dir, cfg.Source.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any FINEWISE_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	k := koanf.New(".")
	if err := k.Load(env.Provider("FINEWISE_", ".", nil), nil); err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	var o envOverrides
	if err := k.UnmarshalWithConf("", &o, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return fmt.Errorf("unmarshaling environment: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Source.Kind, o.SourceKind)
	set(&cfg.Source.Path, o.CSVPath)
	set(&cfg.Source.BaseURL, o.APIURL)
	set(&cfg.Source.Token, o.APIToken)
	set(&cfg.Locale.Timezone, o.Timezone)
	set(&cfg.Locale.CurrencySymbol, o.Currency)
	set(&cfg.Budget.Monthly, o.Budget)
	set(&cfg.Server.Addr, o.Addr)

	if o.Limit != "" {
		var limit int
		if _, err := fmt.Sscan(o.Limit, &limit); err != nil {
			return fmt.Errorf("parsing FINEWISE_LIMIT %q: %w", o.Limit, err)
		}
		cfg.Source.Limit = limit
	}
	return nil
}

// Validate checks that the config can be used to build a store.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.Path == "" {
			return errors.New("source.path is required for csv sources")
		}
	case SourceAPI:
		if c.Source.BaseURL == "" {
			return errors.New("source.base_url is required for api sources")
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Limit < 0 {
		return fmt.Errorf("source.limit must not be negative, got %d", c.Source.Limit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.MonthlyBudget(); err != nil {
		return err
	}
	if c.Budget.AlertThreshold < 1 || c.Budget.AlertThreshold > 100 {
		return fmt.Errorf("budget.alert_threshold must be between 1 and 100, got %d", c.Budget.AlertThreshold)
	}
	return nil
}

// Location returns the time zone that calendar months are read in.
func (c *Config) Location() (*time.Location, error) {
	switch c.Locale.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Locale.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Locale.Timezone, err)
	}
	return loc, nil
}

// MonthlyBudget parses Budget.Monthly. Empty means zero.
func (c *Config) MonthlyBudget() (decimal.Decimal, error) {
	if c.Budget.Monthly == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Budget.Monthly)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing budget.monthly %q: %w", c.Budget.Monthly, err)
	}
	return d, nil
}
