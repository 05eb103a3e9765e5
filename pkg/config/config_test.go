package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CHATBOT_MODEL", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)

	cfg, err = getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "mistral", cfg.LLM.FallbackModel)
	assert.Equal(t, 1024, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, 384, cfg.Embedding.VectorDim)
	assert.Equal(t, 1000, cfg.Chunker.MaxChunkSize)
	assert.Equal(t, 100, cfg.Chunker.Overlap)
	assert.Equal(t, 120, cfg.Session.TTLMinutes)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("CHATBOT_MODEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  model: phi3
  temperature: 0.2
chunker:
  max_chunk_size: 500
  overlap: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "phi3", cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.Chunker.MaxChunkSize)
	assert.Equal(t, 50, cfg.Chunker.Overlap)
	// Unset values still get defaults.
	assert.Equal(t, "mistral", cfg.LLM.FallbackModel)
	assert.Equal(t, 384, cfg.Embedding.VectorDim)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")
	t.Setenv("DATABASE_URL", "postgres://env@localhost/db")

	cfg, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://ollama.internal:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "postgres://env@localhost/db", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	cfg, err := getDefaultConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())

	cfg.LLM.MaxTokens = 100000
	cfg.Chunker.Overlap = cfg.Chunker.MaxChunkSize
	cfg.Loader.AllowedExtensions = []string{"txt"}

	errs := cfg.Validate()
	require.Len(t, errs, 3)

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
		assert.NotEmpty(t, e.Error())
	}
	assert.True(t, fields["llm.max_tokens"])
	assert.True(t, fields["chunker.overlap"])
	assert.True(t, fields["loader.allowed_extensions"])
}
