package history

import (
	"ai-chat-be/pkg/llm"
)

// TailWindow returns the most recent limit messages in chronological order.
// A limit <= 0 returns the whole slice.
func TailWindow(messages []llm.Message, limit int) []llm.Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}

// Reverse flips a message slice in place and returns it. Repositories load
// history newest-first for the limit clause; the model wants oldest-first.
func Reverse(messages []llm.Message) []llm.Message {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}
