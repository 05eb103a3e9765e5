// Package assistant wires the retrieval pipeline into the service
// surface consumed by the CLI and the websocket layer: sessions,
// ingestion, and grounded question answering.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/internal/types"
	"github.com/iamswethaa/chatbot/pkg/chunker"
	"github.com/iamswethaa/chatbot/pkg/compose"
	"github.com/iamswethaa/chatbot/pkg/config"
	"github.com/iamswethaa/chatbot/pkg/embed"
	"github.com/iamswethaa/chatbot/pkg/index"
	"github.com/iamswethaa/chatbot/pkg/intent"
	"github.com/iamswethaa/chatbot/pkg/llm"
	"github.com/iamswethaa/chatbot/pkg/loader"
	"github.com/iamswethaa/chatbot/pkg/retrieval"
	"github.com/iamswethaa/chatbot/pkg/session"
)

// ErrSessionNotFound mirrors the session store sentinel at the service
// boundary.
var ErrSessionNotFound = session.ErrSessionNotFound

// Canned replies for the short-circuit intents and the failure path.
const (
	GreetingReply = "Hello! How can I help you today?"
	ThanksReply   = "You're welcome! Let me know if there's anything else I can help with."
	ApologyReply  = "I'm sorry, something went wrong while preparing a response. Please try again."
)

// ServiceStatus reports reachability of the collaborators.
type ServiceStatus struct {
	ChatbotReachable  bool `json:"chatbotReachable"`
	VectorDBReachable bool `json:"vectorDbReachable"`
	EmbeddingReady    bool `json:"embeddingReady"`
}

// IngestStats summarizes one ingestion run.
type IngestStats struct {
	Documents int
	Chunks    int
	Failed    int
}

// Service is the assistant core. All exported methods return results,
// never panic, and may be called concurrently.
type Service struct {
	chunker  types.Chunker
	embedder types.Embedder
	index    types.VectorIndex // nil in degraded mode
	model    types.ChatModel
	composer *compose.Composer
	planner  *retrieval.Planner
	sessions *session.Store
	loader   types.Loader
	log      *zap.Logger
}

// New wires the production components from configuration. A configured
// but unreachable database degrades the service (vector features
// disabled) instead of failing startup; an empty database URL selects
// the in-memory index.
func New(cfg *config.Config, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ch := chunker.NewWithConfig(chunker.ChunkerConfig{
		MaxChunkSize: cfg.Chunker.MaxChunkSize,
		Overlap:      cfg.Chunker.Overlap,
	})

	embedder := embed.NewWithConfig(embed.EmbedderConfig{
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.LLM.BaseURL,
		VectorDim: cfg.Embedding.VectorDim,
	}, log)

	var idx types.VectorIndex
	if cfg.Database.URL == "" {
		log.Info("no database configured, using in-memory index")
		idx = index.NewMemoryIndex(cfg.Embedding.VectorDim)
	} else {
		pg, err := index.NewPgVectorIndex(index.PgVectorConfig{
			ConnString: cfg.Database.URL,
			TableName:  cfg.Database.TableName,
			VectorDim:  cfg.Embedding.VectorDim,
		}, log)
		if err != nil {
			log.Error("vector database unavailable, running degraded", zap.Error(err))
		} else {
			idx = pg
		}
	}

	engine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		BaseURL:       cfg.LLM.BaseURL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	ld := loader.NewWithConfig(loader.LoaderConfig{
		AllowedExtensions: cfg.Loader.AllowedExtensions,
		RateLimit:         cfg.Loader.RateLimit,
	}, log)

	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute

	return NewFromComponents(&ch, embedder, idx, engine, ld, session.NewStore(ttl), log), nil
}

// NewFromComponents assembles a service from explicit collaborators.
// Tests use it to swap in the memory index and a stub model.
func NewFromComponents(ch types.Chunker, embedder types.Embedder, idx types.VectorIndex, model types.ChatModel, ld types.Loader, sessions *session.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		chunker:  ch,
		embedder: embedder,
		index:    idx,
		model:    model,
		composer: compose.NewComposer(model, log),
		planner:  retrieval.NewPlanner(idx, log),
		sessions: sessions,
		loader:   ld,
		log:      log,
	}
}

// Probe checks the language model at startup, switching to the fallback
// model when the preferred one is unavailable. Best effort: a probe
// failure leaves the service running.
func (s *Service) Probe(ctx context.Context) error {
	type prober interface{ Probe(context.Context) error }
	if p, ok := s.model.(prober); ok {
		return p.Probe(ctx)
	}
	return nil
}

// CreateSession starts a new conversation thread.
func (s *Service) CreateSession(userID string) models.ChatSession {
	return s.sessions.Create(userID)
}

// GetSession returns a snapshot of the session history.
func (s *Service) GetSession(id string) (models.ChatSession, error) {
	return s.sessions.Get(id)
}

// DeleteSession removes the session and any message records it indexed.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}

	if s.index != nil && len(sess.Messages) > 0 {
		ids := make([]string, 0, len(sess.Messages))
		for _, m := range sess.Messages {
			ids = append(ids, m.ID)
		}
		if err := s.index.DeleteMany(ctx, ids); err != nil {
			s.log.Warn("failed to delete message records", zap.Error(err))
		}
	}

	return s.sessions.Delete(id)
}

// SendMessage answers one user message. Every path appends exactly one
// user and one assistant message to the session, in a single store call
// so no partial exchange is ever visible.
func (s *Service) SendMessage(ctx context.Context, text, sessionID string, opts types.GenerateOptions) (models.ChatMessage, error) {
	if _, err := s.sessions.Get(sessionID); err != nil {
		return models.ChatMessage{}, err
	}

	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}

	reply := s.answer(ctx, text, opts)

	if err := s.sessions.Append(sessionID, userMsg, reply); err != nil {
		return models.ChatMessage{}, err
	}

	s.indexExchange(ctx, sessionID, userMsg, reply)

	return reply, nil
}

// answer runs the per-message state machine: classify, short-circuit or
// retrieve, refuse or compose. Failures degrade to the apology reply so
// the session stream always gets an assistant turn.
func (s *Service) answer(ctx context.Context, text string, opts types.GenerateOptions) models.ChatMessage {
	switch intent.Classify(text) {
	case models.IntentGreeting:
		return compose.NewAssistantMessage(GreetingReply)
	case models.IntentThanks:
		return compose.NewAssistantMessage(ThanksReply)
	}

	if s.index == nil {
		// Degraded mode: nothing retrievable, so nothing answerable.
		return compose.NewAssistantMessage(compose.RefusalMessage)
	}

	queryVector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.log.Error("query embedding failed", zap.Error(err))
		return compose.NewAssistantMessage(ApologyReply)
	}

	plan := retrieval.PlanFor(text)
	passages, err := s.planner.Retrieve(ctx, queryVector, plan)
	if err != nil {
		s.log.Error("retrieval failed", zap.Error(err))
		return compose.NewAssistantMessage(ApologyReply)
	}
	if len(passages) == 0 {
		return compose.NewAssistantMessage(compose.RefusalMessage)
	}

	reply, err := s.composer.Compose(ctx, text, passages, opts)
	if err != nil {
		s.log.Error("model call failed", zap.Error(err))
		return compose.NewAssistantMessage(ApologyReply)
	}
	return reply
}

// indexExchange stores the exchange as message records so they share
// the index without ever matching document searches. Best effort.
func (s *Service) indexExchange(ctx context.Context, sessionID string, msgs ...models.ChatMessage) {
	if s.index == nil {
		return
	}
	for _, m := range msgs {
		vec, err := s.embedder.Embed(ctx, m.Content)
		if err != nil {
			continue
		}
		rec := models.IndexedRecord{
			ID:      m.ID,
			Vector:  vec,
			Content: m.Content,
			Type:    models.RecordTypeMessage,
			Metadata: map[string]interface{}{
				"sessionId": sessionID,
				"role":      string(m.Role),
			},
		}
		if err := s.index.Store(ctx, rec); err != nil {
			s.log.Debug("failed to index message", zap.Error(err))
		}
	}
}

// IngestFolder loads, chunks, embeds, and indexes every supported file
// in the folder. One bad file is logged and skipped, never aborting the
// run.
func (s *Service) IngestFolder(ctx context.Context, path string) (IngestStats, error) {
	var stats IngestStats

	if s.index == nil {
		return stats, fmt.Errorf("vector features disabled: no index available")
	}

	docs, err := s.loader.Load(ctx, path)
	if err != nil {
		return stats, err
	}

	for _, doc := range docs {
		n, err := s.ingestDocument(ctx, doc)
		if err != nil {
			s.log.Warn("failed to ingest document",
				zap.String("source", doc.Name),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Documents++
		stats.Chunks += n
	}

	s.log.Info("ingestion complete",
		zap.Int("documents", stats.Documents),
		zap.Int("chunks", stats.Chunks),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

func (s *Service) ingestDocument(ctx context.Context, doc models.Document) (int, error) {
	chunks := s.chunker.Chunk(doc.Content, doc.Name)
	for _, ch := range chunks {
		vec, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return 0, fmt.Errorf("embedding chunk %s: %w", ch.ID, err)
		}
		rec := models.IndexedRecord{
			ID:      ch.ID,
			Vector:  vec,
			Content: ch.Text,
			Type:    models.RecordTypeDocument,
			Metadata: map[string]interface{}{
				"source":      ch.SourceName,
				"chunkIndex":  ch.ChunkIndex,
				"totalChunks": ch.TotalChunks,
			},
		}
		if err := s.index.Store(ctx, rec); err != nil {
			return 0, fmt.Errorf("storing chunk %s: %w", ch.ID, err)
		}
	}
	return len(chunks), nil
}

// ClearIndex drops every indexed record.
func (s *Service) ClearIndex(ctx context.Context) error {
	if s.index == nil {
		return fmt.Errorf("vector features disabled: no index available")
	}
	return s.index.ClearAll(ctx)
}

// Status reports collaborator reachability for the UI layer.
func (s *Service) Status(ctx context.Context) ServiceStatus {
	st := ServiceStatus{}

	type reachable interface{ Reachable(context.Context) bool }
	if r, ok := s.model.(reachable); ok {
		st.ChatbotReachable = r.Reachable(ctx)
	} else {
		st.ChatbotReachable = s.model != nil
	}

	if s.index != nil {
		if _, err := s.index.Stats(ctx); err == nil {
			st.VectorDBReachable = true
		}
	}

	type ready interface{ Ready() bool }
	if r, ok := s.embedder.(ready); ok {
		st.EmbeddingReady = r.Ready()
	} else {
		st.EmbeddingReady = s.embedder != nil
	}

	return st
}

// IndexedRecords returns the number of records currently indexed.
func (s *Service) IndexedRecords(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("vector features disabled: no index available")
	}
	return s.index.Stats(ctx)
}
