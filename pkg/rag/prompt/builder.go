package prompt

import (
	"fmt"
	"strings"
)

// Source is one retrieved chunk with the metadata the prompt and the API
// response both need.
type Source struct {
	DocumentID   string
	DocumentName string
	ChunkIndex   int
	Content      string
	Similarity   float64
}

// BuildContextBlock renders retrieved chunks into the context section of the
// chat system prompt. Sources are expected in descending similarity order.
func BuildContextBlock(sources []Source) string {
	if len(sources) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, src := range sources {
		sb.WriteString(fmt.Sprintf("--- SOURCE %d: %s ---\n", i+1, src.DocumentName))
		sb.WriteString(strings.TrimSpace(src.Content))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BuildSystemPrompt joins the instruction header with the context block.
func BuildSystemPrompt(header string, sources []Source) string {
	block := BuildContextBlock(sources)
	if block == "" {
		return header
	}
	return header + block
}
