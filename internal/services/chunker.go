package services

import (
	"strings"
)

// Default chunking parameters, tuned for embedding-sized excerpts.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkText splits text into overlapping windows of windowSize
// whitespace-delimited words, advancing by windowSize-overlap words per step.
// The tail of the text is always emitted even when shorter than a full
// window, and there is never a trailing empty chunk.
//
// Pure function: no storage, no embedding, independently testable.
func ChunkText(text string, windowSize, overlap int) []string {
	if windowSize <= 0 {
		windowSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= windowSize {
		overlap = windowSize / 10
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := windowSize - overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + windowSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))

		// The window that reaches the end of the text is the last one.
		if start+windowSize >= len(words) {
			break
		}
	}

	return chunks
}
