package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatSessionRequest struct {
	SessionName string `json:"session_name"`
}

type ChatSessionResponse struct {
	Id           uuid.UUID `json:"id"`
	SessionName  string    `json:"session_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type ChatMessagesResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}

type ChatMessageRequest struct {
	Message   string     `json:"message" validate:"required"`
	SessionId *uuid.UUID `json:"session_id"`
}

// ChatSource describes one retrieved chunk that backed the assistant's answer.
type ChatSource struct {
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	ChunkIndex int       `json:"chunk_index"`
	Similarity float64   `json:"similarity"`
}

type ChatResponse struct {
	Message   ChatMessageResponse `json:"message"`
	SessionId uuid.UUID           `json:"session_id"`
	Sources   []ChatSource        `json:"sources,omitempty"`
}
