package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig_Defaults(t *testing.T) {
	c := NewWithConfig(ChunkerConfig{})

	assert.Equal(t, 1000, c.config.MaxChunkSize)
	assert.Equal(t, 100, c.config.Overlap)
}

func TestNewWithConfig_NegativeOverlapDisabled(t *testing.T) {
	c := NewWithConfig(ChunkerConfig{MaxChunkSize: 200, Overlap: -1})

	assert.Equal(t, 200, c.config.MaxChunkSize)
	assert.Equal(t, 0, c.config.Overlap)
}
