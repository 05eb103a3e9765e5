package chunker_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamswethaa/chatbot/pkg/chunker"
)

func TestChunk_EmptyInput(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{})

	assert.Empty(t, c.Chunk("", "manual.txt"))
	assert.Empty(t, c.Chunk("   \n\t  ", "manual.txt"))
}

func TestChunk_SingleSmallInput(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 1000, Overlap: 100})

	chunks := c.Chunk("The output voltage is 5V. The input range is 7 to 12V.", "specs.txt")

	require.Len(t, chunks, 1)
	assert.Equal(t, "specs.txt_0", chunks[0].ID)
	assert.Equal(t, "specs.txt", chunks[0].SourceName)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[0].TotalChunks)
	assert.Contains(t, chunks[0].Text, "5V")
}

func TestChunk_RespectsSizeBudget(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 120, Overlap: 30})

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "Sentence number %d has a handful of words in it. ", i)
	}

	chunks := c.Chunk(sb.String(), "long.txt")
	require.Greater(t, len(chunks), 1)

	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Text), 120, "chunk %d over budget", ch.ChunkIndex)
	}
}

func TestChunk_CoversAllSentences(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 80, Overlap: 24})

	sentences := []string{
		"Alpha is the first marker",
		"Bravo is the second marker",
		"Charlie is the third marker",
		"Delta is the fourth marker",
		"Echo is the fifth marker",
	}
	text := strings.Join(sentences, ". ") + "."

	chunks := c.Chunk(text, "markers.txt")
	joined := ""
	for _, ch := range chunks {
		joined += ch.Text + " "
	}

	// No sentence may be dropped, whatever the boundaries.
	for _, s := range sentences {
		assert.Contains(t, joined, s)
	}
}

func TestChunk_OverlapSeedsNextChunk(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 100, Overlap: 30})

	chunks := c.Chunk(
		"The first sentence carries some unique trailing words here. The second sentence continues the thought cleanly.",
		"overlap.txt",
	)
	require.Len(t, chunks, 2)

	// overlap/6 = 5 words from the end of chunk 0 seed chunk 1.
	words := strings.Fields(chunks[0].Text)
	tail := strings.Join(words[len(words)-5:], " ")
	assert.True(t, strings.HasPrefix(chunks[1].Text, tail),
		"chunk 1 %q does not start with tail %q", chunks[1].Text, tail)
	assert.LessOrEqual(t, len(chunks[1].Text), 100)
}

func TestChunk_OversizedSentenceBecomesOwnChunk(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 40})

	long := "this single sentence is far longer than the configured chunk budget and has no break"
	chunks := c.Chunk(long+". Short one.", "big.txt")

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Contains(t, chunks[0].Text, "far longer")
	assert.Greater(t, len(chunks[0].Text), 40)
}

func TestChunk_TotalChunksBackfilled(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 50, Overlap: 12})

	chunks := c.Chunk(
		"One thing here. Another thing there. Yet another thing follows. And one more to finish.",
		"notes.md",
	)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
		assert.Equal(t, len(chunks), ch.TotalChunks)
		assert.Equal(t, fmt.Sprintf("notes.md_%d", i), ch.ID)
	}
}

func TestChunk_SplitsOnNewlines(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{MaxChunkSize: 1000})

	chunks := c.Chunk("line one without punctuation\nline two without punctuation", "plain.txt")

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "line one")
	assert.Contains(t, chunks[0].Text, "line two")
}
