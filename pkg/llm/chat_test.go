package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithConfig_Defaults(t *testing.T) {
	engine, err := NewWithConfig(ChatConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", engine.config.Model)
	assert.Equal(t, "mistral", engine.config.FallbackModel)
	assert.InDelta(t, 0.7, engine.config.Temperature, 1e-9)
	assert.Equal(t, 1024, engine.config.MaxTokens)
	assert.Equal(t, "http://localhost:11434", engine.config.BaseURL)
	assert.Equal(t, "llama3.2", engine.Model())
}

func TestNewWithConfig_KeepsExplicitValues(t *testing.T) {
	engine, err := NewWithConfig(ChatConfig{
		Model:         "phi3",
		FallbackModel: "gemma",
		Temperature:   0.2,
		MaxTokens:     256,
		BaseURL:       "http://ollama.internal:11434",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "phi3", engine.Model())
	assert.Equal(t, "gemma", engine.config.FallbackModel)
	assert.InDelta(t, 0.2, engine.config.Temperature, 1e-9)
	assert.Equal(t, 256, engine.config.MaxTokens)
}

func TestNewWithConfig_TemperatureOutOfRange(t *testing.T) {
	engine, err := NewWithConfig(ChatConfig{Temperature: 5.0}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, engine.config.Temperature, 1e-9)
}

func TestNewWithConfig_NegativeMaxTokensClamped(t *testing.T) {
	engine, err := NewWithConfig(ChatConfig{MaxTokens: -1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1024, engine.config.MaxTokens)
}
