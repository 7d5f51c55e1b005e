// Package config loads papertrade settings from a YAML (or JSON) file, an
// optional .env file and PAPERTRADE_* environment variables, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PAPERTRADE_"

type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account" envPrefix:"ACCOUNT_"`
	Storage  StorageConfig  `json:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	Log      LogConfig      `json:"log" yaml:"log" envPrefix:"LOG_"`
	Server   ServerConfig   `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule" envPrefix:"SCHEDULE_"`
}

// AccountConfig seeds a new account when no account document exists yet.
// Percentages are whole numbers (8 means 8%).
type AccountConfig struct {
	InitialCapital       money.Amount `json:"initial_capital" yaml:"initial_capital" env:"INITIAL_CAPITAL"`
	MaxSinglePositionPct money.Amount `json:"max_single_position_pct" yaml:"max_single_position_pct" env:"MAX_SINGLE_POSITION_PCT"`
	MaxTotalPositionPct  money.Amount `json:"max_total_position_pct" yaml:"max_total_position_pct" env:"MAX_TOTAL_POSITION_PCT"`
	StopLossPct          money.Amount `json:"stop_loss_pct" yaml:"stop_loss_pct" env:"STOP_LOSS_PCT"`
	TakeProfitPct        money.Amount `json:"take_profit_pct" yaml:"take_profit_pct" env:"TAKE_PROFIT_PCT"`
	CommissionRate       money.Amount `json:"commission_rate" yaml:"commission_rate" env:"COMMISSION_RATE"`
	MinCommission        money.Amount `json:"min_commission" yaml:"min_commission" env:"MIN_COMMISSION"`
	StampDutyRate        money.Amount `json:"stamp_duty_rate" yaml:"stamp_duty_rate" env:"STAMP_DUTY_RATE"`
}

// Settings converts the section into account defaults.
func (a AccountConfig) Settings() portfolio.Settings {
	return portfolio.Settings{
		InitialCapital: a.InitialCapital,
		Risk: portfolio.RiskParams{
			MaxSinglePositionPct: a.MaxSinglePositionPct,
			StopLossPct:          a.StopLossPct,
			TakeProfitPct:        a.TakeProfitPct,
			MaxTotalPositionPct:  a.MaxTotalPositionPct,
		},
		Fees: portfolio.FeeSchedule{
			CommissionRate: a.CommissionRate,
			MinCommission:  a.MinCommission,
			StampDutyRate:  a.StampDutyRate,
		},
	}
}

// StorageConfig names the documents. Relative file names live under DataDir.
type StorageConfig struct {
	DataDir      string `json:"data_dir" yaml:"data_dir" env:"DATA_DIR"`
	AccountFile  string `json:"account_file" yaml:"account_file" env:"ACCOUNT_FILE"`
	SnapshotFile string `json:"snapshot_file" yaml:"snapshot_file" env:"SNAPSHOT_FILE"`
	JournalType  string `json:"journal_type" yaml:"journal_type" env:"JOURNAL_TYPE"` // jsonl, csv or sqlite
	JournalFile  string `json:"journal_file" yaml:"journal_file" env:"JOURNAL_FILE"`
}

// Path resolves name against DataDir.
func (s StorageConfig) Path(name string) string {
	if filepath.IsAbs(name) || s.DataDir == "" {
		return name
	}
	return filepath.Join(s.DataDir, name)
}

type LogConfig struct {
	Level             string `json:"level" yaml:"level" env:"LEVEL"`
	Encoding          string `json:"encoding" yaml:"encoding" env:"ENCODING"` // json or console
	Output            string `json:"output" yaml:"output" env:"OUTPUT"`
	Development       bool   `json:"development" yaml:"development" env:"DEVELOPMENT"`
	DisableCaller     bool   `json:"disable_caller" yaml:"disable_caller" env:"DISABLE_CALLER"`
	DisableStacktrace bool   `json:"disable_stacktrace" yaml:"disable_stacktrace" env:"DISABLE_STACKTRACE"`
}

type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr" env:"ADDR"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// ScheduleConfig drives the daily snapshot job. The cron expression has a seconds
// field: "0 5 15 * * 1-5" is 15:05 on weekdays.
type ScheduleConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	SnapshotSpec string `json:"snapshot_spec" yaml:"snapshot_spec" env:"SNAPSHOT_SPEC"`
	Timezone     string `json:"timezone" yaml:"timezone" env:"TIMEZONE"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	s := portfolio.DefaultSettings()
	return &Config{
		Account: AccountConfig{
			InitialCapital:       s.InitialCapital,
			MaxSinglePositionPct: s.Risk.MaxSinglePositionPct,
			MaxTotalPositionPct:  s.Risk.MaxTotalPositionPct,
			StopLossPct:          s.Risk.StopLossPct,
			TakeProfitPct:        s.Risk.TakeProfitPct,
			CommissionRate:       s.Fees.CommissionRate,
			MinCommission:        s.Fees.MinCommission,
			StampDutyRate:        s.Fees.StampDutyRate,
		},
		Storage: StorageConfig{
			DataDir:      "./data",
			AccountFile:  "portfolio.json",
			SnapshotFile: "daily_snapshots.json",
			JournalType:  journal.BackendJSONL,
			JournalFile:  "trades.jsonl",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
			Output:   "stderr",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Schedule: ScheduleConfig{
			Enabled:      false,
			SnapshotSpec: "0 5 15 * * 1-5",
		},
	}
}

// Load builds the effective configuration: defaults, then the file at path
// (skipped when path is empty), then variables from dotenv (a missing file
// is ignored) and the process environment.
func Load(path, dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads a configuration file over the defaults and validates
// it. Environment variables are not consulted.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if jerr := json.Unmarshal(data, c); jerr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", errors.Join(err, jerr))
		}
	}
	return nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

var hundred = money.FromInt(100)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error
	a := c.Account
	if !a.InitialCapital.IsPositive() {
		errs = append(errs, errors.New("account.initial_capital must be positive"))
	}
	pcts := []struct {
		name string
		v    money.Amount
	}{
		{"account.max_single_position_pct", a.MaxSinglePositionPct},
		{"account.max_total_position_pct", a.MaxTotalPositionPct},
		{"account.stop_loss_pct", a.StopLossPct},
	}
	for _, p := range pcts {
		if !p.v.IsPositive() || p.v.GreaterThan(hundred) {
			errs = append(errs, fmt.Errorf("%s must be in (0, 100], got %s", p.name, p.v))
		}
	}
	if !a.TakeProfitPct.IsPositive() {
		errs = append(errs, errors.New("account.take_profit_pct must be positive"))
	}
	fees := []struct {
		name string
		v    money.Amount
	}{
		{"account.commission_rate", a.CommissionRate},
		{"account.min_commission", a.MinCommission},
		{"account.stamp_duty_rate", a.StampDutyRate},
	}
	for _, f := range fees {
		if f.v.IsNegative() {
			errs = append(errs, fmt.Errorf("%s must not be negative", f.name))
		}
	}

	s := c.Storage
	if s.AccountFile == "" || s.SnapshotFile == "" || s.JournalFile == "" {
		errs = append(errs, errors.New("storage account_file, snapshot_file and journal_file are required"))
	}
	switch s.JournalType {
	case journal.BackendJSONL, journal.BackendCSV, journal.BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.journal_type must be jsonl, csv or sqlite, got %q", s.JournalType))
	}

	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.encoding must be json or console, got %q", c.Log.Encoding))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Schedule.Enabled && c.Schedule.SnapshotSpec == "" {
		errs = append(errs, errors.New("schedule.snapshot_spec is required when the schedule is enabled"))
	}
	return errors.Join(errs...)
}
