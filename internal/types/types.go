package types

import (
	"context"

	"github.com/iamswethaa/chatbot/internal/models"
)

// Core interfaces

// Chunker splits raw document text into overlapping bounded-size chunks.
type Chunker interface {
	Chunk(text, sourceName string) []models.DocumentChunk
}

// Embedder converts text into a fixed-dimension normalized vector.
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// VectorIndex stores embeddings and answers nearest-neighbor queries
// filtered by record type and score threshold.
type VectorIndex interface {
	Store(ctx context.Context, rec models.IndexedRecord) error
	Search(ctx context.Context, vector []float32, topK int, minScore float32, typeFilter models.RecordType) ([]models.SearchResult, error)
	Stats(ctx context.Context) (int, error)
	DeleteMany(ctx context.Context, ids []string) error
	ClearAll(ctx context.Context) error
	Close()
}

// ChatModel generates a completion from an ordered prompt.
type ChatModel interface {
	Generate(ctx context.Context, system, user string, opts GenerateOptions) (string, error)
	Model() string
}

// Loader reads raw documents from a corpus source.
type Loader interface {
	Load(ctx context.Context, path string) ([]models.Document, error)
}

// GenerateOptions are the pass-through LLM generation parameters.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	StreamFunc  func(chunk string)
}
