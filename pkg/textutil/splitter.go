package textutil

import (
	"strings"
	"unicode"
)

// SplitText slices text into overlapping chunks of at most chunkSize runes.
// Chunk boundaries prefer sentence ends, then whitespace, so a chunk rarely
// cuts a word in half. Overlap runes from the end of one chunk are repeated
// at the start of the next to keep context across boundaries.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{string(runes)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = adjustBoundary(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// adjustBoundary walks back from end looking for a sentence terminator in the
// last half of the chunk, then any whitespace in the last quarter. Falls back
// to the hard cut when the chunk has no usable break point.
func adjustBoundary(runes []rune, start, end int) int {
	sentenceLimit := end - (end-start)/2
	for i := end - 1; i >= sentenceLimit; i-- {
		if isSentenceEnd(runes[i]) {
			return i + 1
		}
	}

	limit := end - (end-start)/4
	for i := end - 1; i >= limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}
