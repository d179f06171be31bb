package events

const (
	EventDocumentUploaded  = "DOCUMENT_UPLOADED"
	EventDocumentProcessed = "DOCUMENT_PROCESSED"
	EventDocumentFailed    = "DOCUMENT_PROCESSING_FAILED"
	EventDocumentDeleted   = "DOCUMENT_DELETED"
	EventChatMessageSent   = "CHAT_MESSAGE_SENT"
)

func NewDocumentUploaded(documentId, filename string, fileSize int64) Event {
	return New(EventDocumentUploaded, map[string]interface{}{
		"document_id": documentId,
		"filename":    filename,
		"file_size":   fileSize,
	})
}

func NewDocumentProcessed(documentId string, chunkCount int) Event {
	return New(EventDocumentProcessed, map[string]interface{}{
		"document_id": documentId,
		"chunk_count": chunkCount,
	})
}

func NewDocumentFailed(documentId, reason string) Event {
	return New(EventDocumentFailed, map[string]interface{}{
		"document_id": documentId,
		"reason":      reason,
	})
}

func NewDocumentDeleted(documentId string) Event {
	return New(EventDocumentDeleted, map[string]interface{}{
		"document_id": documentId,
	})
}

func NewChatMessageSent(sessionId, messageId string, sourceCount int) Event {
	return New(EventChatMessageSent, map[string]interface{}{
		"session_id":   sessionId,
		"message_id":   messageId,
		"source_count": sourceCount,
	})
}
