package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/index"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// NoRelevantInformation is the sentinel returned by FormatForContext for an
// empty result list. Callers pattern-match it to tell "found nothing" apart
// from "found something".
const NoRelevantInformation = "No relevant information found in the knowledge base."

// DefaultTopK is how many chunks a query pulls in when the caller doesn't say.
const DefaultTopK = 3

// RetrievalServiceImpl answers similarity queries: embed the query, search
// the index, join hits back to stored metadata.
type RetrievalServiceImpl struct {
	embedder Embedder
	index    *index.Index
	repo     ChunkRepository
	topK     int
}

// NewRetrievalService creates a retrieval service whose default result count
// is topK; non-positive values fall back to DefaultTopK.
func NewRetrievalService(embedder Embedder, ix *index.Index, repo ChunkRepository, topK int) *RetrievalServiceImpl {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalServiceImpl{
		embedder: embedder,
		index:    ix,
		repo:     repo,
		topK:     topK,
	}
}

// Retrieve returns the topK most similar chunks for the query, descending by
// relevance. A hit whose position or chunk id no longer resolves is dropped
// silently - index/store divergence must not crash a query. An empty or
// absent index surfaces as index.ErrEmptyIndex.
func (s *RetrievalServiceImpl) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error) {
	ctx, span := middleware.StartSpan(ctx, "Retrieval.Retrieve",
		attribute.String("query", query),
		attribute.Int("top_k", topK),
	)
	defer span.End()

	if topK <= 0 {
		topK = s.topK
	}

	vectors, err := s.embedder.Encode(ctx, []string{query})
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := vectors[0]
	index.Normalize(queryVec)

	hits, err := s.index.Search(queryVec, topK)
	if err != nil {
		return nil, err
	}

	results := make([]models.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		entry, ok := s.index.EntryAt(hit.Position)
		if !ok {
			continue
		}
		title, source, err := s.repo.ResolveMeta(ctx, entry.ChunkID)
		if err != nil {
			// Chunk disappeared from the store since the snapshot was built
			continue
		}
		results = append(results, models.RetrievalResult{
			Content:        entry.Content,
			Title:          title,
			Source:         source,
			RelevanceScore: hit.Score,
		})
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

// FormatForContext renders results as a deterministic text block for
// injection into a generation prompt. Empty input yields the
// NoRelevantInformation sentinel.
func FormatForContext(results []models.RetrievalResult) string {
	if len(results) == 0 {
		return NoRelevantInformation
	}

	var b strings.Builder
	b.WriteString("Found relevant information:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "Document %d: %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "Content: %s\n", r.Content)
		fmt.Fprintf(&b, "Source: %s\n", r.Source)
		fmt.Fprintf(&b, "Relevance: %.3f\n\n", r.RelevanceScore)
	}
	return b.String()
}
