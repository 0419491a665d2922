package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meur/skyatlas/internal/config"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/logging"
	"github.com/meur/skyatlas/internal/models"
	"github.com/meur/skyatlas/internal/storage"
	"github.com/meur/skyatlas/internal/tui"
)

var (
	configPath string
	dataFlag   string
	dbFlag     string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse Endless Sky ships and outfits in the terminal",
	Long: `browse opens an interactive table browser over a ship and outfit snapshot.

The snapshot is read from a data.json[.gz] file or URL, or from a SQLite
database written by the seed command.

Keys:
  tab / shift+tab   switch table
  left / right      select a column
  s / enter         cycle the ordering of the selected column (asc, desc, none)
  f                 open the ship filter pane (up/down, space toggles)
  d                 open the selected ship
  q                 quit`,
	SilenceUsage: true,
	RunE:         runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "skyatlas.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "data.json path or URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite snapshot path (overrides config)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file (logging is off otherwise)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.Dataset.DBPath = dbFlag
	}
	if dataFlag != "" {
		cfg.Dataset.Location, cfg.Dataset.DBPath = dataFlag, ""
	}
	return cfg, nil
}

// openSource picks the snapshot store when configured, the data file otherwise.
// The returned close func is never nil.
func openSource(cfg *config.Config) (dataset.Source, func(), error) {
	if cfg.Dataset.DBPath == "" {
		return dataset.SourceFor(cfg.Dataset.Location), func() {}, nil
	}
	store, err := storage.New(cfg.Dataset.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// loadDataset reads the snapshot synchronously for the non-interactive commands
func loadDataset(ctx context.Context) (*config.Config, *models.Dataset, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	source, closeSource, err := openSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closeSource()

	d, err := source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return cfg, d, nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if logFile != "" {
		if logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development, logFile); err != nil {
			return err
		}
	}
	defer logger.Sync()

	source, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loader := dataset.NewLoader(source, logger.Named("dataset"))
	return tui.Run(ctx, loader, cfg.Dataset.SpriteBaseURL)
}
