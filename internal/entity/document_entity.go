package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id         uuid.UUID
	Filename   string
	Content    string
	FileType   string
	FileSize   int64
	Processed  bool
	Metadata   map[string]interface{}
	UploadDate time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
