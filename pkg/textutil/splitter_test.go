package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello world", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitTextEmptyInput(t *testing.T) {
	assert.Nil(t, SplitText("", 1000, 200))
	assert.Nil(t, SplitText("   \n\t  ", 1000, 200))
}

func TestSplitTextChunkSizeRespected(t *testing.T) {
	text := strings.Repeat("word ", 500)
	chunks := SplitText(text, 100, 20)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100)
		assert.NotEmpty(t, c)
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 100)
	chunks := SplitText(text, 120, 30)

	// Every word of the input must land in at least one chunk.
	joined := strings.Join(chunks, " ")
	for _, word := range []string{"alpha", "beta", "gamma", "delta"} {
		assert.Contains(t, joined, word)
	}

	assert.Greater(t, len(chunks), 1)
}

func TestSplitTextOverlapRepeatsTail(t *testing.T) {
	// No whitespace or sentence marks, so the splitter takes hard cuts and
	// the overlap window is exact.
	text := strings.Repeat("abcdefghij", 30)
	chunks := SplitText(text, 100, 20)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-20:]
		assert.True(t, strings.HasPrefix(chunks[i], prevTail),
			"chunk %d should start with the previous chunk's tail", i)
	}
}

func TestSplitTextPrefersSentenceBoundary(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one ends it."
	chunks := SplitText(text, 30, 5)

	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "first chunk should end on a sentence: %q", chunks[0])
}

func TestSplitTextInvalidParams(t *testing.T) {
	assert.Nil(t, SplitText("some text", 0, 0))

	// Overlap >= chunkSize is ignored rather than looping forever.
	chunks := SplitText(strings.Repeat("x ", 200), 50, 50)
	assert.NotEmpty(t, chunks)
}
