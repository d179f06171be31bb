package constant

const (
	// System prompt used when retrieval found relevant chunks. The document
	// context block is appended after this header by the prompt builder.
	ChatWithContextSystemPrompt = `You are a helpful AI assistant. Use the following context to answer the user's question.
If the context doesn't contain relevant information, say so and provide a general helpful response.

=== DOCUMENT CONTEXT ===
`

	// System prompt used when no document matched the query.
	ChatWithoutContextSystemPrompt = `You are a helpful AI assistant. Answer the user's question clearly and concisely.`

	// SummarizePromptTemplate takes max words, min words, then the text.
	SummarizePromptTemplate = `Please summarize the following text in %d words or less, but at least %d words.
Focus on the main points and key information:

%s`

	// SentimentPromptTemplate asks for strict JSON so the response can be
	// unmarshalled directly. The text is the single argument.
	SentimentPromptTemplate = `Analyze the sentiment of the following text. Respond with ONLY a JSON object containing:
- sentiment: "positive", "negative", or "neutral"
- confidence: a float between 0 and 1
- scores: an object with "positive", "negative", "neutral" scores

Do not include any text outside the JSON object.

Text: %s`

	ChatDefaultSessionName = "New Chat"

	ChatHistoryLimit = 10
)
