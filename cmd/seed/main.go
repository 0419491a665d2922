package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/logging"
	"github.com/meur/skyatlas/internal/storage"
)

func main() {
	dbPath := flag.String("db", getEnv("DB_PATH", "./skyatlas.db"), "SQLite database path")
	data := flag.String("data", getEnv("SKYATLAS_DATASET", "./data.json"), "data.json[.gz] path or URL to import")
	export := flag.String("export", "", "Write the stored snapshot to this file instead of importing (.gz compresses)")
	flag.Parse()

	logger, err := logging.New("info", true)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := storage.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("db", *dbPath), zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *export != "" {
		if err := exportSnapshot(ctx, store, *export); err != nil {
			logger.Fatal("export failed", zap.String("file", *export), zap.Error(err))
		}
		logger.Info("snapshot exported", zap.String("file", *export))
		return
	}

	d, err := dataset.SourceFor(*data).Load(ctx)
	if err != nil {
		logger.Fatal("failed to read dataset", zap.String("data", *data), zap.Error(err))
	}
	if err := store.SaveDataset(ctx, d); err != nil {
		logger.Fatal("failed to save dataset", zap.Error(err))
	}

	info, err := store.Info(ctx)
	if err != nil {
		logger.Fatal("failed to read snapshot info", zap.Error(err))
	}
	logger.Info("seeding complete",
		zap.String("db", *dbPath),
		zap.Int("ships", info.Ships),
		zap.Int("outfits", info.Outfits),
		zap.Int("modifications", info.Modifications),
	)
}

func exportSnapshot(ctx context.Context, store *storage.Store, path string) error {
	d, err := store.Load(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.Encode(f, d, strings.HasSuffix(path, ".gz")); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
