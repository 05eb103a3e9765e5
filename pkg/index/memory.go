package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/internal/types"
)

// MemoryIndex is a brute-force cosine-similarity index held in memory.
// It backs the service when no database is configured and the tests.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]models.IndexedRecord
}

func NewMemoryIndex(dimension int) *MemoryIndex {
	if dimension <= 0 {
		dimension = 384
	}
	return &MemoryIndex{
		dimension: dimension,
		records:   make(map[string]models.IndexedRecord),
	}
}

func (m *MemoryIndex) Store(_ context.Context, rec models.IndexedRecord) error {
	if len(rec.Vector) != m.dimension {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(rec.Vector), m.dimension)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, topK int, minScore float32, typeFilter models.RecordType) ([]models.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Vectors are L2-normalized, so the dot product is the cosine score.
	var results []models.SearchResult
	for _, rec := range m.records {
		if rec.Type != typeFilter {
			continue
		}
		score := dot(rec.Vector, vector)
		if score < minScore {
			continue
		}
		results = append(results, models.SearchResult{
			ID:       rec.ID,
			Score:    score,
			Content:  rec.Content,
			Metadata: rec.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

func (m *MemoryIndex) Stats(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *MemoryIndex) DeleteMany(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.records, id)
	}
	return nil
}

func (m *MemoryIndex) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]models.IndexedRecord)
	return nil
}

func (m *MemoryIndex) Close() {}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

var _ types.VectorIndex = (*MemoryIndex)(nil)
