package main

import (
	"context"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/config"
	dbRedis "github.com/kailas-cloud/askdex/internal/db/redis"
	"github.com/kailas-cloud/askdex/internal/metrics"
	fragmentrepo "github.com/kailas-cloud/askdex/internal/repository/fragment"
	warehouserepo "github.com/kailas-cloud/askdex/internal/repository/warehouse"
	openaiTransport "github.com/kailas-cloud/askdex/internal/transport/openai"
	askuc "github.com/kailas-cloud/askdex/internal/usecase/ask"
	raguc "github.com/kailas-cloud/askdex/internal/usecase/rag"
	routeuc "github.com/kailas-cloud/askdex/internal/usecase/route"
	structureduc "github.com/kailas-cloud/askdex/internal/usecase/structured"
)

// pipeline holds the composed question-answering stack and the resources
// backing it.
type pipeline struct {
	store     *dbRedis.Store
	warehouse *warehouserepo.Repo
	ask       *askuc.Service
}

// buildPipeline is the composition root shared by the serve and ask
// commands: fragment store, warehouse, completion transport, and the
// usecase services on top of them.
func buildPipeline(ctx context.Context, cfg config.Config, logger *zap.Logger) (*pipeline, error) {
	metrics.RegisterPipelineMetrics()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Fragments.Addrs,
		Username: cfg.Fragments.Username,
		Password: cfg.Fragments.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create fragment store: %w", err)
	}
	readiness := time.Duration(cfg.Fragments.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("fragment store not ready: %w", err)
	}
	logger.Info("Connected to fragment store", zap.Strings("addrs", cfg.Fragments.Addrs))

	wh, err := warehouserepo.Open(ctx, cfg.Warehouse.Driver, cfg.Warehouse.DSN, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	logger.Info("Connected to warehouse",
		zap.String("driver", cfg.Warehouse.Driver),
		zap.Strings("tables", cfg.Warehouse.Tables),
	)

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:  cfg.Completion.APIKey,
		BaseURL: cfg.Completion.BaseURL,
		Logger:  logger,
	})
	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Completion.APIKey,
		BaseURL:    cfg.Completion.BaseURL,
		Model:      cfg.Completion.EmbeddingModel,
		Dimensions: cfg.Completion.EmbeddingDimensions,
		Logger:     logger,
	})

	fragments := fragmentrepo.New(store, embedder, cfg.Fragments.Index)

	router := routeuc.New(completer, cfg.Completion.RouterModels, logger)
	synth := structureduc.New(
		completer, wh, wh,
		cfg.Completion.SQLModels, cfg.Warehouse.Tables, cfg.Relationships,
		logger,
	)
	rag := raguc.New(fragments, completer, cfg.Completion.AnswerModels, logger)

	return &pipeline{
		store:     store,
		warehouse: wh,
		ask:       askuc.New(router, synth, rag, logger),
	}, nil
}

func (p *pipeline) Close() {
	_ = p.warehouse.Close()
	p.store.Close()
}
