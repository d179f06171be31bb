package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id           uuid.UUID
	SessionName  string
	IsActive     bool
	LastActivity time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
