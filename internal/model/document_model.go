package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename   string         `gorm:"type:varchar(255);not null"`
	Content    string         `gorm:"type:text;not null"`
	FileType   string         `gorm:"type:varchar(10);not null"`
	FileSize   int64          `gorm:"not null"`
	Processed  bool           `gorm:"default:false"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	UploadDate time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
