// Command finrag ingests financial annual-report PDFs and answers
// filtered similarity queries over the indexed content.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/finsight-labs/finrag/internal/adapters/driven/embedding"
	ollamaembed "github.com/finsight-labs/finrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/finsight-labs/finrag/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/finsight-labs/finrag/internal/adapters/driven/llm/ollama"
	"github.com/finsight-labs/finrag/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/finsight-labs/finrag/internal/adapters/driven/vectorindex/memory"
	"github.com/finsight-labs/finrag/internal/adapters/driving/cli"
	"github.com/finsight-labs/finrag/internal/chunkers"
	"github.com/finsight-labs/finrag/internal/config"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/core/services"
	"github.com/finsight-labs/finrag/internal/extractors/table"
	"github.com/finsight-labs/finrag/internal/loaders/pdf"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; secrets may come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FINRAG_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	index := vectormem.New(embedder.Dimensions())
	defer index.Close()

	// The index lives in memory; hydrate it from the persisted
	// embeddings of previous runs.
	if err := services.RebuildIndex(context.Background(), store, index); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	pipeline := chunkers.NewPipeline(
		chunkers.NewNarrative(
			chunkers.WithMaxSize(cfg.Chunking.MaxSize),
			chunkers.WithOverlap(cfg.Chunking.Overlap),
		),
		chunkers.NewTable(
			chunkers.WithMaxSize(cfg.Chunking.MaxSize),
		),
	)

	ingestor := services.NewIngestService(
		pdf.New(),
		table.New(),
		pipeline,
		embedder,
		index,
		store,
		services.WithBatchSize(cfg.Embedding.BatchSize),
	)
	retriever := services.NewRetrieverService(embedder, index, store)

	var llm driven.LLMService
	if cfg.LLM.Enabled {
		llm = ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
		defer llm.Close()
	}
	answerer := services.NewAnswerService(retriever, llm)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingestor:   ingestor,
		Retriever:  retriever,
		Answerer:   answerer,
		ChunkStore: store,
		Config:     cfg,
	})

	return cli.Execute()
}

// buildEmbedder constructs the configured embedding provider, wrapped
// with retry-on-timeout behaviour.
func buildEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	var base driven.EmbeddingService

	switch cfg.Embedding.Provider {
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring openai embedder: %w", err)
		}
		base = svc
	default:
		base = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	}

	return embedding.NewRetrying(base), nil
}
