// Command seclens starts the assessment API server.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seclens/seclens/internal/assessor"
	"github.com/seclens/seclens/internal/config"
	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/knowledge"
	"github.com/seclens/seclens/internal/llm"
	"github.com/seclens/seclens/internal/logging"
	"github.com/seclens/seclens/internal/registry"
	"github.com/seclens/seclens/internal/server"
	"github.com/seclens/seclens/internal/ws"
)

func main() {
	logger := logging.NewStdoutLogger("seclens")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading configuration", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		generator interfaces.Generator
		embedder  interfaces.Embedder
	)
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:         cfg.GeminiAPIKey,
			Model:          cfg.GeminiModel,
			EmbeddingModel: cfg.GeminiEmbeddingModel,
		}, logger)
		if err != nil {
			logger.Error("creating gemini client", interfaces.Field{Key: "error", Value: err.Error()})
			os.Exit(1)
		}
		defer client.Close()
		generator, embedder = client, client
		logger.Info("using gemini backend", interfaces.Field{Key: "model", Value: client.ModelName()})
	} else {
		logger.Warn("GEMINI_API_KEY not set, using deterministic mock backend")
		generator = llm.NewMockGenerator()
		embedder = llm.NewMockEmbedder()
	}

	// No index, no service: a broken catalog or embedder is fatal.
	techniques, err := knowledge.DefaultCatalog()
	if err != nil {
		logger.Error("loading technique catalog", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	index, err := knowledge.BuildIndex(ctx, techniques, embedder)
	if err != nil {
		logger.Error("building knowledge index", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	logger.Info("knowledge index ready", interfaces.Field{Key: "techniques", Value: index.Len()})

	if err := os.MkdirAll(cfg.StorageRoot, 0o755); err != nil {
		logger.Error("creating storage root", interfaces.Field{Key: "path", Value: cfg.StorageRoot}, interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	db, err := sql.Open("sqlite", filepath.Join(cfg.StorageRoot, "seclens.db"))
	if err != nil {
		logger.Error("opening assessment database", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	defer db.Close()
	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		logger.Error("creating registry", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	engine, err := assessor.NewEngine(cfg.EngineConfig(), index, generator, logger)
	if err != nil {
		logger.Error("creating engine", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	srv, err := server.NewServer(server.Config{
		ListenAddr:   cfg.ListenAddr,
		HistoryLimit: cfg.HistoryLimit,
	}, engine, index, reg, hub, logger)
	if err != nil {
		logger.Error("creating server", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	httpSrv := srv.HTTPServer()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", interfaces.Field{Key: "error", Value: err.Error()})
		}
	}()

	logger.Info("listening", interfaces.Field{Key: "addr", Value: cfg.ListenAddr})
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", interfaces.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}
