// Package compose merges retrieved passages into a single constrained
// system instruction and invokes the language model.
package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/internal/types"
	"github.com/iamswethaa/chatbot/pkg/retrieval"
)

// RefusalMessage is the exact sentence returned when no retrieved
// content supports an answer. Callers and tests rely on it verbatim.
const RefusalMessage = "I don't have enough information to answer that question."

const instructionHeader = `You are a helpful assistant. Answer the question using ONLY the information provided below.

INFORMATION:
%s

RULES:
- Answer only from the information above. Do not use any outside knowledge.
- If the information above is not sufficient to answer the question, reply with exactly this sentence and nothing else: "%s"
- Never mention documents, sources, files, or training data. Present the answer as something you simply know.
- Use structured lists for multiple items.
- Use tables with header separator rows for tabular data.
- Put technical values, identifiers, and commands in code blocks.`

const listInstruction = `
- The question asks for a list: merge items that appear in more than one place, remove duplicates, and state the number of unique items found.`

type Composer struct {
	model types.ChatModel
	log   *zap.Logger
}

func NewComposer(model types.ChatModel, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{model: model, log: log}
}

// BuildInstruction assembles the system instruction for a message and
// its retrieved passages, in retrieval rank order.
func BuildInstruction(message string, passages []models.SearchResult) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Content)
	}
	contextBlock := strings.Join(texts, "\n\n")

	instruction := fmt.Sprintf(instructionHeader, contextBlock, RefusalMessage)
	if retrieval.IsListQuery(message) {
		instruction += listInstruction
	}
	return instruction
}

// Compose sends the instruction plus the raw user message to the model
// and wraps the completion as the assistant turn. Prior session history
// is deliberately not attached: conversational memory must not blur into
// retrieved facts.
func (c *Composer) Compose(ctx context.Context, message string, passages []models.SearchResult, opts types.GenerateOptions) (models.ChatMessage, error) {
	instruction := BuildInstruction(message, passages)

	c.log.Debug("composing answer",
		zap.Int("passages", len(passages)),
		zap.String("model", c.model.Model()),
	)

	answer, err := c.model.Generate(ctx, instruction, message, opts)
	if err != nil {
		return models.ChatMessage{}, err
	}

	return NewAssistantMessage(strings.TrimSpace(answer)), nil
}

// NewAssistantMessage wraps text as an assistant chat message.
func NewAssistantMessage(text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   text,
		Timestamp: time.Now(),
	}
}
