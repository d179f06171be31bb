package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/embedding"
)

// chatStore is the durable state behind the fake unit of work. Writes land in
// a staged copy while a transaction is open and only merge in on Commit.
type chatStore struct {
	sessions map[uuid.UUID]*entity.ChatSession
	messages []*entity.ChatMessage
	touches  int
}

func newChatStore() *chatStore {
	return &chatStore{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

type fakeChatUow struct {
	store  *chatStore
	staged *chatStore
}

func (u *fakeChatUow) writeTarget() *chatStore {
	if u.staged != nil {
		return u.staged
	}
	return u.store
}

func (u *fakeChatUow) Begin(ctx context.Context) error {
	if u.staged != nil {
		return assert.AnError
	}
	u.staged = newChatStore()
	return nil
}

func (u *fakeChatUow) Commit() error {
	if u.staged == nil {
		return assert.AnError
	}
	for id, session := range u.staged.sessions {
		u.store.sessions[id] = session
	}
	u.store.messages = append(u.store.messages, u.staged.messages...)
	u.store.touches += u.staged.touches
	u.staged = nil
	return nil
}

func (u *fakeChatUow) Rollback() error {
	if u.staged == nil {
		return assert.AnError
	}
	u.staged = nil
	return nil
}

func (u *fakeChatUow) DocumentRepository() contract.DocumentRepository {
	return &fakeDocumentRepo{}
}

func (u *fakeChatUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return &fakeChunkRepo{}
}

func (u *fakeChatUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{u: u}
}

func (u *fakeChatUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{u: u}
}

type fakeChatFactory struct {
	uow *fakeChatUow
}

func (f *fakeChatFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeSessionRepo struct {
	u *fakeChatUow
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.u.writeTarget().sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if r.u.staged != nil {
				if session, ok := r.u.staged.sessions[byID.ID]; ok {
					return session, nil
				}
			}
			if session, ok := r.u.store.sessions[byID.ID]; ok {
				return session, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return nil, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeSessionRepo) TouchLastActivity(ctx context.Context, id uuid.UUID) error {
	r.u.writeTarget().touches++
	return nil
}

type fakeMessageRepo struct {
	u *fakeChatUow
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	target := r.u.writeTarget()
	target.messages = append(target.messages, message)
	return nil
}

func (r *fakeMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var sessionId uuid.UUID
	for _, spec := range specs {
		if bySession, ok := spec.(specification.ByChatSessionID); ok {
			sessionId = bySession.ChatSessionID
		}
	}

	all := append([]*entity.ChatMessage{}, r.u.store.messages...)
	if r.u.staged != nil {
		all = append(all, r.u.staged.messages...)
	}

	out := make([]*entity.ChatMessage, 0, len(all))
	for _, msg := range all {
		if msg.ChatSessionId == sessionId {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeChunkRepo struct{}

func (fakeChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error { return nil }
func (fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}
func (fakeChunkRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}
func (fakeChunkRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error) {
	return nil, nil
}
func (fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}
func (fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (fakeChunkRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.DocumentChunk, error) {
	return nil, nil
}
func (fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredDocumentChunk, error) {
	return nil, nil
}

type fakeDocumentRepo struct{}

func (fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error { return nil }
func (fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error { return nil }
func (fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }
func (fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return nil, nil
}
func (fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return nil, nil
}
func (fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (fakeDocumentRepo) MarkProcessed(ctx context.Context, id uuid.UUID, processed bool) error {
	return nil
}

type fakeEmbeddingProvider struct{}

func (fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

func (fakeEmbeddingProvider) Dimension() int { return 3 }

func newTestChatService(provider *fakeLLMProvider) (IChatService, *chatStore) {
	store := newChatStore()
	factory := &fakeChatFactory{uow: &fakeChatUow{store: store}}
	svc := NewChatService(
		factory,
		fakeEmbeddingProvider{},
		memory.NewEmbeddingCache(),
		provider,
		nil,
		config.AIConfig{RetrievalTopK: 3},
		nopLogger{},
	)
	return svc, store
}

func TestSendMessagePersistsFullTurn(t *testing.T) {
	svc, store := newTestChatService(&fakeLLMProvider{response: "hello back"})

	res, err := svc.SendMessage(context.Background(), &dto.ChatMessageRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello back", res.Message.Content)

	// Exactly one user and one assistant message committed.
	require.Len(t, store.messages, 2)
	assert.Equal(t, entity.ChatMessageRoleUser, store.messages[0].Role)
	assert.Equal(t, entity.ChatMessageRoleAssistant, store.messages[1].Role)

	session, ok := store.sessions[res.SessionId]
	require.True(t, ok)
	assert.Equal(t, "New Chat", session.SessionName)
	assert.Equal(t, 1, store.touches)
}

func TestSendMessageRollsBackOnModelFailure(t *testing.T) {
	svc, store := newTestChatService(&fakeLLMProvider{err: assert.AnError})

	_, err := svc.SendMessage(context.Background(), &dto.ChatMessageRequest{Message: "hi"})
	require.Error(t, err)

	// Neither the auto-created session nor the user message survives the failure.
	assert.Empty(t, store.messages)
	assert.Empty(t, store.sessions)
	assert.Zero(t, store.touches)
}

func TestSendMessageUnknownSession(t *testing.T) {
	svc, store := newTestChatService(&fakeLLMProvider{response: "unused"})

	missing := uuid.New()
	_, err := svc.SendMessage(context.Background(), &dto.ChatMessageRequest{
		Message:   "hi",
		SessionId: &missing,
	})
	require.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, store.messages)
}

func TestSendMessageReusesExistingSession(t *testing.T) {
	svc, store := newTestChatService(&fakeLLMProvider{response: "again"})

	existing := &entity.ChatSession{Id: uuid.New(), SessionName: "ongoing", IsActive: true}
	store.sessions[existing.Id] = existing

	res, err := svc.SendMessage(context.Background(), &dto.ChatMessageRequest{
		Message:   "hi",
		SessionId: &existing.Id,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, res.SessionId)
	assert.Len(t, store.sessions, 1)
	assert.Len(t, store.messages, 2)
}
