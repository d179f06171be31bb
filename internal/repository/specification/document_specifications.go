package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type ProcessedOnly struct{}

func (s ProcessedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("processed = ?", true)
}
