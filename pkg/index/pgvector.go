package index

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/internal/types"
)

type PgVectorConfig struct {
	ConnString   string
	TableName    string
	VectorDim    int
	ReadyTimeout time.Duration // maximum wait for the index to become query-able
	PollInterval time.Duration
}

// PgVectorIndex stores embeddings in Postgres with the pgvector
// extension, using cosine similarity.
type PgVectorIndex struct {
	config PgVectorConfig
	pool   *pgxpool.Pool
	log    *zap.Logger
}

func NewPgVectorIndex(config PgVectorConfig, log *zap.Logger) (*PgVectorIndex, error) {
	if config.TableName == "" {
		config.TableName = "chatbot_records"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 384
	}
	if config.ReadyTimeout == 0 {
		config.ReadyTimeout = 5 * time.Minute
	}
	if config.PollInterval == 0 {
		config.PollInterval = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	idx := &PgVectorIndex{
		config: config,
		pool:   pool,
		log:    log,
	}

	if err := idx.ensureSchema(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	if err := waitReady(context.Background(), idx.probe, config.PollInterval, config.ReadyTimeout, log); err != nil {
		pool.Close()
		return nil, err
	}

	return idx, nil
}

// ensureSchema creates the extension, table, and cosine index. All
// statements are IF NOT EXISTS, so repeated creation is a no-op.
func (idx *PgVectorIndex) ensureSchema(ctx context.Context) error {
	_, err := idx.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT,
			record_type TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d)
		)`, idx.config.TableName, idx.config.VectorDim)

	if _, err := idx.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		idx.config.TableName, idx.config.TableName)

	if _, err := idx.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// probe reports whether the table answers a trivial query yet.
func (idx *PgVectorIndex) probe(ctx context.Context) error {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", idx.config.TableName)
	return idx.pool.QueryRow(ctx, query).Scan(&count)
}

// waitReady polls the probe until it succeeds, up to timeout. A fresh
// index that never becomes query-able surfaces ErrIndexNotReady rather
// than hanging.
func waitReady(ctx context.Context, probe func(context.Context) error, interval, timeout time.Duration, log *zap.Logger) error {
	deadline := time.Now().Add(timeout)

	for attempt := 1; ; attempt++ {
		err := probe(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: gave up after %d attempts: %v", ErrIndexNotReady, attempt, err)
		}
		log.Debug("index not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (idx *PgVectorIndex) Store(ctx context.Context, rec models.IndexedRecord) error {
	if len(rec.Vector) != idx.config.VectorDim {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(rec.Vector), idx.config.VectorDim)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, content, record_type, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			record_type = EXCLUDED.record_type,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding`,
		idx.config.TableName)

	_, err := idx.pool.Exec(ctx, stmt,
		rec.ID,
		rec.Content,
		string(rec.Type),
		rec.Metadata,
		pgvector.NewVector(rec.Vector),
	)
	if err != nil {
		return fmt.Errorf("failed to store record: %v", err)
	}

	return nil
}

func (idx *PgVectorIndex) Search(ctx context.Context, vector []float32, topK int, minScore float32, typeFilter models.RecordType) ([]models.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	// Cosine distance is 1 - similarity, so the score floor becomes a
	// distance ceiling and ascending distance is descending score.
	query := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		WHERE record_type = $2
		  AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4`,
		idx.config.TableName)

	rows, err := idx.pool.Query(ctx, query,
		pgvector.NewVector(vector),
		string(typeFilter),
		minScore,
		topK,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %v", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.Content, &r.Metadata, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

func (idx *PgVectorIndex) Stats(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", idx.config.TableName)
	if err := idx.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return count, nil
}

func (idx *PgVectorIndex) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", idx.config.TableName)
	if _, err := idx.pool.Exec(ctx, stmt, ids); err != nil {
		return fmt.Errorf("failed to delete records: %v", err)
	}
	return nil
}

func (idx *PgVectorIndex) ClearAll(ctx context.Context) error {
	stmt := fmt.Sprintf("DELETE FROM %s", idx.config.TableName)
	if _, err := idx.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to clear index: %v", err)
	}
	return nil
}

func (idx *PgVectorIndex) Close() {
	if idx.pool != nil {
		idx.pool.Close()
	}
}

var _ types.VectorIndex = (*PgVectorIndex)(nil)
