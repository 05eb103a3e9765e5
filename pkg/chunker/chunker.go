package chunker

import (
	"fmt"
	"strings"

	"github.com/iamswethaa/chatbot/internal/models"
)

type ChunkerConfig struct {
	MaxChunkSize int // character budget per chunk
	Overlap      int // character budget carried across chunk boundaries; negative disables
}

type Chunker struct {
	config ChunkerConfig
}

func NewWithConfig(config ChunkerConfig) Chunker {
	if config.MaxChunkSize == 0 {
		config.MaxChunkSize = 1000
	}
	if config.Overlap == 0 {
		config.Overlap = 100
	}
	if config.Overlap < 0 {
		config.Overlap = 0
	}

	return Chunker{config: config}
}

// Chunk splits text into overlapping chunks of at most MaxChunkSize
// characters, breaking on sentence boundaries. Empty or whitespace-only
// input yields no chunks. The boundary strategy is heuristic, not
// sentence-accurate; a single oversized sentence becomes its own chunk.
func (c *Chunker) Chunk(text, sourceName string) []models.DocumentChunk {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []models.DocumentChunk
	current := strings.Builder{}

	flush := func() {
		body := strings.TrimSpace(current.String())
		if body == "" {
			return
		}
		idx := len(chunks)
		chunks = append(chunks, models.DocumentChunk{
			ID:         fmt.Sprintf("%s_%d", sourceName, idx),
			Text:       body,
			SourceName: sourceName,
			ChunkIndex: idx,
		})
	}

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > c.config.MaxChunkSize {
			closed := strings.TrimSpace(current.String())
			flush()
			current.Reset()
			// Seed the overlap only when it still leaves room for the
			// sentence; the context carry-over never bursts the budget.
			tail := overlapTail(closed, c.config.Overlap)
			if tail != "" && len(tail)+len(sentence)+1 <= c.config.MaxChunkSize {
				current.WriteString(tail)
				current.WriteString(" ")
			}
		}
		current.WriteString(sentence)
		current.WriteString(" ")
	}
	flush()

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks
}

// splitSentences breaks text on sentence-ending punctuation or newlines
// into trimmed non-empty candidates.
func splitSentences(text string) []string {
	var sentences []string
	current := strings.Builder{}

	for _, r := range text {
		switch r {
		case '.', '!', '?', '\n':
			if r != '\n' {
				current.WriteRune(r)
			}
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// overlapTail returns the last overlap/6 words of the closed chunk,
// approximating a word-level overlap from the character budget.
func overlapTail(closed string, overlap int) string {
	wordCount := overlap / 6
	if wordCount <= 0 || closed == "" {
		return ""
	}
	words := strings.Fields(closed)
	if len(words) > wordCount {
		words = words[len(words)-wordCount:]
	}
	return strings.Join(words, " ")
}
