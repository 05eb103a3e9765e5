package models

import "time"

// Document is a raw source file loaded from the corpus folder.
type Document struct {
	ID       string
	Name     string
	Path     string
	Content  string
	Metadata map[string]interface{}
}

// DocumentChunk is a bounded slice of a document's text, the unit of
// embedding and retrieval. Identity is SourceName plus ChunkIndex.
type DocumentChunk struct {
	ID          string
	Text        string
	SourceName  string
	ChunkIndex  int
	TotalChunks int
}

// RecordType partitions the search space so document chunks and
// conversational messages are never cross-matched.
type RecordType string

const (
	RecordTypeDocument RecordType = "document"
	RecordTypeMessage  RecordType = "message"
)

// IndexedRecord is what the vector index stores: one embedding plus the
// metadata needed to reconstruct a passage.
type IndexedRecord struct {
	ID       string
	Vector   []float32
	Content  string
	Type     RecordType
	Metadata map[string]interface{}
}

// SearchResult is a ranked match from the vector index. Ephemeral.
type SearchResult struct {
	ID       string
	Score    float32
	Content  string
	Metadata map[string]interface{}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is immutable after creation; ordering is append order.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession owns its messages exclusively and lives only for the
// process lifetime.
type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Intent is the result of pre-classifying an incoming message before
// any retrieval work is attempted.
type Intent int

const (
	IntentSubstantive Intent = iota
	IntentGreeting
	IntentThanks
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentThanks:
		return "thanks"
	default:
		return "substantive"
	}
}
