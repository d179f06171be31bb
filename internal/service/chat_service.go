package service

import (
	"context"
	"fmt"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/embedding"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
	pktNats "ai-chat-be/pkg/nats"
	"ai-chat-be/pkg/rag/history"
	"ai-chat-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

var ErrSessionNotFound = fmt.Errorf("session not found")

type IChatService interface {
	CreateSession(ctx context.Context, sessionName string) (*dto.ChatSessionResponse, error)
	GetSessions(ctx context.Context, limit int) ([]dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.ChatSessionResponse, error)
	GetMessages(ctx context.Context, sessionId uuid.UUID, limit int) (*dto.ChatMessagesResponse, error)
	SendMessage(ctx context.Context, req *dto.ChatMessageRequest) (*dto.ChatResponse, error)
	DeleteSession(ctx context.Context, id uuid.UUID) (bool, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	embeddingCache    *memory.EmbeddingCache
	llmProvider       llm.LLMProvider
	eventPublisher    *pktNats.Publisher
	topK              int
	log               logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	embeddingCache *memory.EmbeddingCache,
	llmProvider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	aiCfg config.AIConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		embeddingCache:    embeddingCache,
		llmProvider:       llmProvider,
		eventPublisher:    eventPublisher,
		topK:              aiCfg.RetrievalTopK,
		log:               log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, sessionName string) (*dto.ChatSessionResponse, error) {
	if sessionName == "" {
		sessionName = constant.ChatDefaultSessionName
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session := entity.ChatSession{
		Id:           uuid.New(),
		SessionName:  sessionName,
		IsActive:     true,
		LastActivity: time.Now(),
		CreatedAt:    time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	res := toChatSessionResponse(&session)
	return &res, nil
}

func (s *chatService) GetSessions(ctx context.Context, limit int) ([]dto.ChatSessionResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.OrderBy{Field: "last_activity", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, toChatSessionResponse(session))
	}
	return res, nil
}

func (s *chatService) GetSession(ctx context.Context, id uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	res := toChatSessionResponse(session)
	return &res, nil
}

func (s *chatService) GetMessages(ctx context.Context, sessionId uuid.UUID, limit int) (*dto.ChatMessagesResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ChatMessagesResponse{
		Messages: make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		res.Messages = append(res.Messages, toChatMessageResponse(msg))
	}
	return res, nil
}

func (s *chatService) SendMessage(ctx context.Context, req *dto.ChatMessageRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A send appends exactly one user and one assistant message. Everything up
	// to Commit rolls back together when the model call fails.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := s.resolveSession(ctx, uow, req.SessionId)
	if err != nil {
		return nil, err
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatMessageRoleUser,
		Content:       req.Message,
		Metadata:      map[string]interface{}{"type": "user_message"},
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}

	sources, promptSources, err := s.retrieveSources(ctx, uow, req.Message)
	if err != nil {
		// Retrieval failing should degrade to a general answer, not kill the chat.
		s.log.Warn("chat", "retrieval failed, answering without context", map[string]interface{}{"error": err.Error()})
		sources, promptSources = nil, nil
	}

	header := constant.ChatWithoutContextSystemPrompt
	if len(promptSources) > 0 {
		header = constant.ChatWithContextSystemPrompt
	}
	systemPrompt := prompt.BuildSystemPrompt(header, promptSources)

	chatHistory, err := s.loadHistory(ctx, uow, session.Id, userMessage.Id)
	if err != nil {
		return nil, err
	}

	llmMessages := make([]llm.Message, 0, len(chatHistory)+2)
	llmMessages = append(llmMessages, llm.Message{Role: "system", Content: systemPrompt})
	llmMessages = append(llmMessages, chatHistory...)
	llmMessages = append(llmMessages, llm.Message{Role: "user", Content: req.Message})

	answer, err := s.llmProvider.Chat(ctx, llmMessages, llm.WithTemperature(0.7))
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatMessageRoleAssistant,
		Content:       answer,
		Metadata: map[string]interface{}{
			"type":          "ai_response",
			"sources_count": len(sources),
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, err
	}

	if err := uow.ChatSessionRepository().TouchLastActivity(ctx, session.Id); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewChatMessageSent(session.Id.String(), assistantMessage.Id.String(), len(sources))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("chat", "failed to publish CHAT_MESSAGE_SENT event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.ChatResponse{
		Message:   toChatMessageResponse(&assistantMessage),
		SessionId: session.Id,
		Sources:   sources,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, id); err != nil {
		return false, err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, id); err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

// resolveSession loads the requested session, or creates a fresh one when the
// request carries no session id.
func (s *chatService) resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId *uuid.UUID) (*entity.ChatSession, error) {
	if sessionId != nil {
		session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *sessionId})
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		return session, nil
	}

	session := &entity.ChatSession{
		Id:           uuid.New(),
		SessionName:  constant.ChatDefaultSessionName,
		IsActive:     true,
		LastActivity: time.Now(),
		CreatedAt:    time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// retrieveSources embeds the query and pulls the nearest chunks, with their
// parent documents resolved for source attribution.
func (s *chatService) retrieveSources(ctx context.Context, uow unitofwork.UnitOfWork, query string) ([]dto.ChatSource, []prompt.Source, error) {
	queryEmbedding, found := s.embeddingCache.Get(query)
	if !found {
		res, err := s.embeddingProvider.Generate(query, embedding.TaskTypeQuery)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to embed query: %w", err)
		}
		queryEmbedding = res.Embedding.Values
		s.embeddingCache.Save(query, queryEmbedding)
	}

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, queryEmbedding, s.topK, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(scored) == 0 {
		return nil, nil, nil
	}

	// Resolve document filenames once per distinct document.
	filenames := make(map[uuid.UUID]string)
	for _, sc := range scored {
		if _, ok := filenames[sc.Chunk.DocumentId]; ok {
			continue
		}
		doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: sc.Chunk.DocumentId})
		if err != nil {
			return nil, nil, err
		}
		name := "unknown"
		if doc != nil {
			name = doc.Filename
		}
		filenames[sc.Chunk.DocumentId] = name
	}

	sources := make([]dto.ChatSource, 0, len(scored))
	promptSources := make([]prompt.Source, 0, len(scored))
	for _, sc := range scored {
		sources = append(sources, dto.ChatSource{
			DocumentId: sc.Chunk.DocumentId,
			Filename:   filenames[sc.Chunk.DocumentId],
			ChunkIndex: sc.Chunk.ChunkIndex,
			Similarity: sc.Similarity,
		})
		promptSources = append(promptSources, prompt.Source{
			DocumentID:   sc.Chunk.DocumentId.String(),
			DocumentName: filenames[sc.Chunk.DocumentId],
			ChunkIndex:   sc.Chunk.ChunkIndex,
			Content:      sc.Chunk.Content,
			Similarity:   sc.Similarity,
		})
	}
	return sources, promptSources, nil
}

// loadHistory returns the last messages of the session as LLM messages in
// chronological order, excluding the message being answered.
func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId, excludeId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.ChatHistoryLimit + 1},
	)
	if err != nil {
		return nil, err
	}

	out := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Id == excludeId {
			continue
		}
		out = append(out, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history.TailWindow(history.Reverse(out), constant.ChatHistoryLimit), nil
}

func toChatSessionResponse(session *entity.ChatSession) dto.ChatSessionResponse {
	return dto.ChatSessionResponse{
		Id:           session.Id,
		SessionName:  session.SessionName,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
		IsActive:     session.IsActive,
	}
}

func toChatMessageResponse(msg *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Id:        msg.Id,
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.CreatedAt,
		Metadata:  msg.Metadata,
	}
}
