package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nileshk07/bloghub/internal/ai"
	"github.com/nileshk07/bloghub/internal/api"
	"github.com/nileshk07/bloghub/internal/config"
	"github.com/nileshk07/bloghub/internal/media"
	"github.com/nileshk07/bloghub/internal/repository/postgres"
	"github.com/nileshk07/bloghub/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// The process does not come up without its primary store.
	db, err := postgres.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	repos := postgres.NewRepositories(db)

	mediaStore, err := media.NewS3Store(context.Background(), media.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		sugar.Fatalw("failed to create media store", "error", err)
	}

	var vectorStore ai.VectorStore
	if cfg.QdrantURL != "" {
		vectorStore = ai.NewQdrantStore(ai.QdrantConfig{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		})
	} else {
		sugar.Warnw("QDRANT_URL not set, using in-memory vector store")
		vectorStore = ai.NewMemoryStore()
	}

	services := service.NewServices(repos, mediaStore, service.Providers{
		Embedder: ai.NewOpenAIEmbedder(ai.OpenAIConfig{
			BaseURL: cfg.EmbeddingsBaseURL,
			APIKey:  cfg.EmbeddingsAPIKey,
			Model:   cfg.EmbeddingsModel,
		}),
		VectorStore: vectorStore,
		Generator: ai.NewChatGenerator(ai.ChatConfig{
			BaseURL: cfg.ChatBaseURL,
			APIKey:  cfg.ChatAPIKey,
			Model:   cfg.ChatModel,
		}),
	}, cfg, sugar)

	router := api.NewRouter(services, cfg)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", cfg.Address, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalw("server forced to shutdown", "error", err)
	}

	sugar.Info("server stopped")
}
