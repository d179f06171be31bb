package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContextBlock(t *testing.T) {
	sources := []Source{
		{DocumentName: "handbook.pdf", ChunkIndex: 0, Content: "Vacation policy is 20 days.", Similarity: 0.91},
		{DocumentName: "faq.md", ChunkIndex: 3, Content: "Remote work is allowed.", Similarity: 0.84},
	}

	block := BuildContextBlock(sources)

	assert.Contains(t, block, "--- SOURCE 1: handbook.pdf ---")
	assert.Contains(t, block, "--- SOURCE 2: faq.md ---")
	assert.Contains(t, block, "Vacation policy is 20 days.")
	assert.Contains(t, block, "Remote work is allowed.")
	assert.Less(t, strings.Index(block, "handbook.pdf"), strings.Index(block, "faq.md"))
}

func TestBuildContextBlockEmpty(t *testing.T) {
	assert.Empty(t, BuildContextBlock(nil))
	assert.Empty(t, BuildContextBlock([]Source{}))
}

func TestBuildSystemPrompt(t *testing.T) {
	header := "Use the context below.\n"

	withSources := BuildSystemPrompt(header, []Source{
		{DocumentName: "notes.txt", Content: "some fact"},
	})
	assert.True(t, strings.HasPrefix(withSources, header))
	assert.Contains(t, withSources, "some fact")

	// No sources means the header alone, no dangling context section.
	assert.Equal(t, header, BuildSystemPrompt(header, nil))
}
