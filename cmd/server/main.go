// Command server runs the studymatch HTTP service: tag resolution,
// survey scoring and candidate matching.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/teamgrow/studymatch/internal/cache/redis"
	"github.com/teamgrow/studymatch/internal/config"
	"github.com/teamgrow/studymatch/internal/db"
	"github.com/teamgrow/studymatch/internal/embedding"
	"github.com/teamgrow/studymatch/internal/matching"
	"github.com/teamgrow/studymatch/internal/server"
	"github.com/teamgrow/studymatch/internal/tags"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.NewStore(db.Config{
		DSN:           cfg.DatabaseDSN,
		MaxConns:      cfg.MaxConns,
		EmbeddingDims: cfg.EmbeddingDimensions,
		LogLevel:      logger.Warn,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := embedding.NewOpenAIClient(embedding.OpenAIConfig{
		BaseURL:    cfg.EmbeddingBaseURL,
		APIKey:     cfg.EmbeddingAPIKey,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
	})
	if err != nil {
		return err
	}

	hardmap, err := tags.LoadHardSynonyms(cfg.HardmapPath)
	if err != nil {
		return err
	}
	if err := hardmap.Watch(ctx); err != nil {
		return err
	}

	vocab := db.NewVocabStore(store)

	var synonymCache tags.SynonymCache = db.NewSynonymStore(store)
	if cfg.RedisAddr != "" {
		redisCache := redis.New(cfg.RedisAddr)
		defer redisCache.Close()
		synonymCache = redisCache
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis synonym cache")
	}

	resolver := tags.NewResolver(
		hardmap,
		vocab,
		synonymCache,
		embedder,
		tags.WithThreshold(cfg.SimilarityThreshold),
		tags.WithBackfillBatch(cfg.BackfillBatch),
	)

	svc := server.NewService(cfg.Port, resolver, matching.NewEngine(), vocab, store)
	return svc.Run(ctx)
}
