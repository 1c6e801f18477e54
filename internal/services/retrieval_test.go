package services

import (
	"context"
	"errors"
	"testing"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/index"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIndexedCorpus ingests documents and synchronously rebuilds the index
// over them, returning the shared pieces a retrieval test needs.
func buildIndexedCorpus(t *testing.T, docs map[string]string) (*RetrievalServiceImpl, *memoryChunkRepo, *index.Index) {
	t.Helper()

	repo := newMemoryChunkRepo()
	for title, content := range docs {
		_, err := repo.CreateChunks(context.Background(), title, "test", []string{content})
		require.NoError(t, err)
	}

	ix := index.New()
	indexer := NewIndexer(bagOfWordsEmbedder{}, repo, ix)
	require.NoError(t, indexer.RebuildNow(context.Background()))

	return NewRetrievalService(bagOfWordsEmbedder{}, ix, repo, 0), repo, ix
}

func TestRetrieveEmptyIndex(t *testing.T) {
	ix := index.New()
	svc := NewRetrievalService(bagOfWordsEmbedder{}, ix, newMemoryChunkRepo(), 0)

	_, err := svc.Retrieve(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, index.ErrEmptyIndex)
}

func TestRetrieveRanksByVocabularyOverlap(t *testing.T) {
	svc, _, _ := buildIndexedCorpus(t, map[string]string{
		"Leave Policy":  "All employees receive 25 vacation days per year and vacation requests need advance notice",
		"Tech Stack":    "The backend uses Go with PostgreSQL and Redis for caching infrastructure",
		"Sales Process": "Leads are qualified with discovery calls and closed after a technical demo",
	})

	results, err := svc.Retrieve(context.Background(), "how many vacation days do employees get?", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Leave Policy", results[0].Title)
	assert.Contains(t, results[0].Content, "25 vacation days")
	assert.Equal(t, "test", results[0].Source)

	// Scores come back descending
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].RelevanceScore, results[i].RelevanceScore)
	}
}

func TestRetrieveHonorsTopK(t *testing.T) {
	svc, _, _ := buildIndexedCorpus(t, map[string]string{
		"A": "alpha words here",
		"B": "beta words here",
		"C": "gamma words here",
	})

	results, err := svc.Retrieve(context.Background(), "words", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Non-positive topK falls back to the default
	results, err = svc.Retrieve(context.Background(), "words", 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRetrieveEmbedderFailure(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Swap(
		[]index.Entry{{ChunkID: 1, Content: "x"}},
		[][]float32{{1}},
	))

	svc := NewRetrievalService(failingEmbedder{err: errors.New("model offline")}, ix, newMemoryChunkRepo(), 0)

	_, err := svc.Retrieve(context.Background(), "query", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestRetrieveDropsUnresolvableHits(t *testing.T) {
	svc, repo, _ := buildIndexedCorpus(t, map[string]string{
		"Doc": "some indexed content about widgets",
	})

	// Chunk vanishes from the store after the snapshot was built
	repo.chunks = nil

	results, err := svc.Retrieve(context.Background(), "widgets", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFormatForContext(t *testing.T) {
	results := []models.RetrievalResult{
		{Content: "25 vacation days per year", Title: "Leave Policy", Source: "HR", RelevanceScore: 0.9127},
		{Content: "remote work up to 3 days", Title: "Remote Work", Source: "HR", RelevanceScore: 0.5},
	}

	formatted := FormatForContext(results)

	assert.True(t, len(formatted) > 0)
	assert.Contains(t, formatted, "Found relevant information:\n\n")
	assert.Contains(t, formatted, "Document 1: Leave Policy\n")
	assert.Contains(t, formatted, "Content: 25 vacation days per year\n")
	assert.Contains(t, formatted, "Source: HR\n")
	assert.Contains(t, formatted, "Relevance: 0.913\n")
	assert.Contains(t, formatted, "Document 2: Remote Work\n")
}

func TestFormatForContextEmpty(t *testing.T) {
	assert.Equal(t, NoRelevantInformation, FormatForContext(nil))
	assert.Equal(t, NoRelevantInformation, FormatForContext([]models.RetrievalResult{}))
}
