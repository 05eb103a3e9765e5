package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/types"
)

// ErrUnreachable is returned when the language model cannot be reached.
var ErrUnreachable = errors.New("language model unreachable")

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
	BaseURL       string // Ollama server URL
}

// ChatEngine generates completions with a small instruction-tuned model,
// switching to the fallback model when the preferred one is unavailable.
type ChatEngine struct {
	config ChatConfig
	client *ollama.LLM
	model  string
	log    *zap.Logger
}

func NewWithConfig(config ChatConfig, log *zap.Logger) (*ChatEngine, error) {
	if config.Model == "" {
		config.Model = "llama3.2"
	}
	if config.FallbackModel == "" {
		config.FallbackModel = "mistral"
	}
	if config.Temperature <= 0 || config.Temperature > 2 {
		config.Temperature = 0.7
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		client: client,
		model:  config.Model,
		log:    log,
	}, nil
}

// Model returns the model currently in use.
func (ce *ChatEngine) Model() string {
	return ce.model
}

// Probe checks the preferred model with a minimal completion and swaps
// to the fallback model when the preferred one does not respond. Called
// once at startup; a failure of both models is a connectivity error.
func (ce *ChatEngine) Probe(ctx context.Context) error {
	if err := ce.ping(ctx); err == nil {
		return nil
	} else {
		ce.log.Warn("preferred model unavailable, trying fallback",
			zap.String("model", ce.config.Model),
			zap.String("fallback", ce.config.FallbackModel),
			zap.Error(err),
		)
	}

	fallback, err := ollama.New(
		ollama.WithModel(ce.config.FallbackModel),
		ollama.WithServerURL(ce.config.BaseURL),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	ce.client = fallback
	ce.model = ce.config.FallbackModel

	if err := ce.ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}

// Reachable reports whether the model answers a minimal completion.
func (ce *ChatEngine) Reachable(ctx context.Context) bool {
	return ce.ping(ctx) == nil
}

func (ce *ChatEngine) ping(ctx context.Context) error {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "ping"),
	}
	_, err := ce.client.GenerateContent(ctx, content, llms.WithMaxTokens(1))
	return err
}

// Generate produces a completion for the composed system instruction and
// the raw user message. When opts.StreamFunc is set the completion is
// streamed chunk by chunk as well as returned whole.
func (ce *ChatEngine) Generate(ctx context.Context, system, user string, opts types.GenerateOptions) (string, error) {
	if opts.Temperature == 0 {
		opts.Temperature = ce.config.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = ce.config.MaxTokens
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
	}
	if opts.StreamFunc != nil {
		callOpts = append(callOpts, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			opts.StreamFunc(string(chunk))
			return nil
		}))
	}

	response, err := ce.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnreachable)
	}

	return response.Choices[0].Content, nil
}

var _ types.ChatModel = (*ChatEngine)(nil)
