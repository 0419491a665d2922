package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/skyatlas/internal/api"
	"github.com/meur/skyatlas/internal/config"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/logging"
	"github.com/meur/skyatlas/internal/session"
	"github.com/meur/skyatlas/internal/storage"
)

func main() {
	// Parse flags
	configPath := flag.String("config", getEnv("SKYATLAS_CONFIG", "skyatlas.yaml"), "YAML config file")
	port := flag.String("port", "", "Server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite snapshot path (overrides config)")
	data := flag.String("data", "", "data.json path or URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Dataset.DBPath = *dbPath
	}
	if *data != "" {
		cfg.Dataset.Location, cfg.Dataset.DBPath = *data, ""
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the data source
	var source dataset.Source
	if cfg.Dataset.DBPath != "" {
		store, err := storage.New(cfg.Dataset.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()
		source = store
		logger.Info("using snapshot store", zap.String("db", cfg.Dataset.DBPath))
	} else {
		source = dataset.SourceFor(cfg.Dataset.Location)
		logger.Info("using dataset", zap.String("location", cfg.Dataset.Location))
	}

	loader := dataset.NewLoader(source, logger.Named("dataset"))
	loader.Start(ctx)

	srv := api.New(loader, session.NewManager(cfg.Sessions.TTL), logger.Named("api"), api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SpriteBaseURL:  cfg.Dataset.SpriteBaseURL,
	})

	// Serve frontend static files (for production deployment)
	if cfg.Server.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.Server.StaticDir))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Sky Atlas API starting", zap.String("addr", "http://localhost:"+cfg.Server.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
