package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/embedding"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"
	"ai-chat-be/pkg/textutil"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	chunkSize         int
	chunkOverlap      int
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	aiCfg config.AIConfig,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         aiCfg.ChunkSize,
		chunkOverlap:      aiCfg.ChunkOverlap,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer", "processing document", map[string]interface{}{"document_id": payload.DocumentId})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.log.Error("consumer", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId, "error": err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		cs.log.Warn("consumer", "document no longer exists", map[string]interface{}{"document_id": payload.DocumentId})
		msg.Ack() // Document deleted meanwhile? Ack.
		return
	}

	chunks := textutil.SplitText(doc.Content, cs.chunkSize, cs.chunkOverlap)
	cs.log.Info("consumer", "content split into chunks", map[string]interface{}{
		"document_id": doc.Id, "chunk_count": len(chunks),
	})

	var newChunks []*entity.DocumentChunk
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskTypeDocument)
		if err != nil {
			cs.log.Error("consumer", "failed to generate embedding", map[string]interface{}{
				"document_id": doc.Id, "chunk_index": i, "error": err.Error(),
			})
			cs.publishFailed(ctx, doc.Id, err)
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: doc.Id,
			ChunkIndex: i,
			Content:    chunk,
			Embedding:  res.Embedding.Values,
			Metadata: map[string]interface{}{
				"chunk_length": len(chunk),
			},
			CreatedAt: time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.log.Error("consumer", "failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Old chunks go first so reprocessing replaces instead of appending.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		cs.log.Error("consumer", "failed to delete old chunks", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			cs.log.Error("consumer", "failed to create chunks", map[string]interface{}{"error": err.Error()})
			msg.Nack()
			return
		}
	}

	if err := uow.DocumentRepository().MarkProcessed(ctx, doc.Id, true); err != nil {
		cs.log.Error("consumer", "failed to mark document processed", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.log.Error("consumer", "failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentProcessed(doc.Id.String(), len(newChunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.log.Warn("consumer", "failed to publish DOCUMENT_PROCESSED event", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.log.Info("consumer", "document processed", map[string]interface{}{
		"document_id": doc.Id, "chunk_count": len(newChunks),
	})
	msg.Ack()
}

func (cs *consumerService) publishFailed(ctx context.Context, documentId uuid.UUID, cause error) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.NewDocumentFailed(documentId.String(), cause.Error())
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.log.Warn("consumer", "failed to publish DOCUMENT_PROCESSING_FAILED event", map[string]interface{}{"error": err.Error()})
	}
}
