package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/fileextract"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, filename string, data []byte) (*dto.DocumentUploadResponse, error)
	List(ctx context.Context, skip, limit int) (*dto.DocumentListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Reprocess(ctx context.Context, id uuid.UUID) (bool, error)
	GetChunks(ctx context.Context, id uuid.UUID) (*dto.DocumentChunksResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *documentService) Upload(ctx context.Context, filename string, data []byte) (*dto.DocumentUploadResponse, error) {
	if !fileextract.IsSupported(filename) {
		return nil, fmt.Errorf("unsupported file type: %s (supported: %s)",
			filepath.Ext(filename), strings.Join(fileextract.SupportedExtensions, ", "))
	}

	content, err := fileextract.Extract(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document %s contains no extractable text", filename)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc := entity.Document{
		Id:       uuid.New(),
		Filename: filename,
		Content:  content,
		FileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		FileSize: int64(len(data)),
		Metadata: map[string]interface{}{
			"content_length": len(content),
		},
		Processed:  false,
		UploadDate: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	msgJson, err := json.Marshal(dto.ProcessDocumentMessage{DocumentId: doc.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentUploaded(doc.Id.String(), doc.Filename, doc.FileSize)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("document", "failed to publish DOCUMENT_UPLOADED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.DocumentUploadResponse{
		Id:       doc.Id,
		Filename: doc.Filename,
		Status:   "processing",
	}, nil
}

func (s *documentService) List(ctx context.Context, skip, limit int) (*dto.DocumentListResponse, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "upload_date", Desc: true},
		specification.Pagination{Limit: limit, Offset: skip},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.DocumentListResponse{
		Documents: make([]dto.DocumentResponse, 0, len(docs)),
		Total:     total,
	}
	for _, doc := range docs {
		res.Documents = append(res.Documents, toDocumentResponse(doc))
	}
	return res, nil
}

func (s *documentService) Get(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	res := toDocumentResponse(doc)
	return &res, nil
}

// Delete soft-deletes the document together with its chunks, so retrieval
// stops surfacing them immediately.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return false, err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentDeleted(id.String())
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("document", "failed to publish DOCUMENT_DELETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return true, nil
}

// Reprocess re-queues an existing document through the chunking pipeline.
func (s *documentService) Reprocess(ctx context.Context, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}

	if err := uow.DocumentRepository().MarkProcessed(ctx, id, false); err != nil {
		return false, err
	}

	msgJson, err := json.Marshal(dto.ProcessDocumentMessage{DocumentId: id})
	if err != nil {
		return false, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return false, err
	}

	return true, nil
}

func (s *documentService) GetChunks(ctx context.Context, id uuid.UUID) (*dto.DocumentChunksResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	chunks, err := uow.DocumentChunkRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: id},
		specification.OrderBy{Field: "chunk_index", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.DocumentChunksResponse{
		DocumentId: id,
		Chunks:     make([]dto.DocumentChunkResponse, 0, len(chunks)),
		Total:      int64(len(chunks)),
	}
	for _, chunk := range chunks {
		res.Chunks = append(res.Chunks, dto.DocumentChunkResponse{
			Id:         chunk.Id,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
		})
	}
	return res, nil
}

func toDocumentResponse(doc *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:         doc.Id,
		Filename:   doc.Filename,
		FileType:   doc.FileType,
		FileSize:   doc.FileSize,
		UploadDate: doc.UploadDate,
		Processed:  doc.Processed,
		Metadata:   doc.Metadata,
	}
}
