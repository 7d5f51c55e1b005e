package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/logging"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/rustyeddy/papertrade/store"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "A paper-trading account with a trade journal and performance analytics",
	Long: `Papertrade keeps a simulated stock account on disk.

It provides tools for:
  - Recording buys, sells, adds and reductions with commission and stamp duty
  - Registering existing holdings and updating quotes
  - Keeping a trade journal (JSONL, CSV or SQLite)
  - Taking daily snapshots and reporting performance over a window
  - Risk alerts for stop loss, take profit and total position limits
  - Serving the account over an HTTP API

Settings come from a YAML or JSON file, a .env file and PAPERTRADE_* variables.`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	envFile  string
	dataDir  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file; ignored when missing")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (overrides storage.data_dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides log.level)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// session is everything a command needs to work on the account.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *sim.Engine
}

func (s *session) Close() {
	if err := s.engine.Close(); err != nil {
		s.log.Warn("close journal", zap.Error(err))
	}
	_ = s.log.Sync()
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st := cfg.Storage
	j, err := journal.Open(st.JournalType, st.Path(st.JournalFile), log)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	e, err := sim.NewEngine(
		&store.AccountFile{Path: st.Path(st.AccountFile), Defaults: cfg.Account.Settings(), Logger: log},
		&store.SnapshotFile{Path: st.Path(st.SnapshotFile), Logger: log},
		j,
		sim.WithLogger(log),
	)
	if err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("open account: %w", err)
	}
	return &session{cfg: cfg, log: log, engine: e}, nil
}
