package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Metadata      map[string]interface{}
	CreatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
