// Package embed produces fixed-dimension normalized embeddings, using a
// local Ollama model when available and a deterministic hash-based
// fallback when it is not.
package embed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/types"
)

type EmbedderConfig struct {
	Model     string
	BaseURL   string // Ollama server URL
	VectorDim int
}

// Embedder holds the shared embedding model handle. The model is
// expensive to initialize and read-only afterwards, so the first call
// initializes it exactly once and every later call reuses it.
type Embedder struct {
	config EmbedderConfig
	log    *zap.Logger

	initOnce sync.Once
	client   *ollama.LLM
	initErr  error
	ready    atomic.Bool
}

func NewWithConfig(config EmbedderConfig, log *zap.Logger) *Embedder {
	if config.Model == "" {
		config.Model = "all-minilm"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 384
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Embedder{config: config, log: log}
}

func (e *Embedder) Dimension() int {
	return e.config.VectorDim
}

// Embed returns a normalized vector of exactly Dimension() floats. The
// error is always nil: any model load or inference failure is recovered
// via the deterministic fallback, so one bad call never aborts a batch.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, err := e.embedModel(ctx, text); err == nil {
		return vec, nil
	} else {
		e.log.Debug("embedding model unavailable, using fallback", zap.Error(err))
	}
	return Fallback(text, e.config.VectorDim), nil
}

// Ready reports whether the model path has produced an embedding.
func (e *Embedder) Ready() bool {
	return e.ready.Load()
}

func (e *Embedder) embedModel(ctx context.Context, text string) ([]float32, error) {
	e.initOnce.Do(func() {
		client, err := ollama.New(
			ollama.WithModel(e.config.Model),
			ollama.WithServerURL(e.config.BaseURL),
		)
		if err != nil {
			e.initErr = fmt.Errorf("initializing embedding model: %w", err)
			return
		}
		e.client = client
		e.log.Info("embedding model initialized",
			zap.String("model", e.config.Model),
			zap.Int("dimension", e.config.VectorDim),
		)
	})
	if e.initErr != nil {
		return nil, e.initErr
	}

	vecs, err := e.client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("creating embedding: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) != e.config.VectorDim {
		return nil, fmt.Errorf("embedding model returned unexpected shape")
	}

	e.ready.Store(true)
	return normalize(vecs[0]), nil
}

var _ types.Embedder = (*Embedder)(nil)
