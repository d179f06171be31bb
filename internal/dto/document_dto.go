package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id         uuid.UUID              `json:"id"`
	Filename   string                 `json:"filename"`
	FileType   string                 `json:"file_type"`
	FileSize   int64                  `json:"file_size"`
	UploadDate time.Time              `json:"upload_date"`
	Processed  bool                   `json:"processed"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int64              `json:"total"`
}

type DocumentUploadResponse struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Status   string    `json:"status"`
}

type DocumentChunkResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
}

type DocumentChunksResponse struct {
	DocumentId uuid.UUID               `json:"document_id"`
	Chunks     []DocumentChunkResponse `json:"chunks"`
	Total      int64                   `json:"total"`
}

// ProcessDocumentMessage is the payload queued for the chunking worker.
type ProcessDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type ListDocumentsRequest struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}
