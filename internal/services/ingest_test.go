package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDocument(t *testing.T) {
	repo := newMemoryChunkRepo()
	indexer := &noopIndexer{}
	svc := NewIngestService(repo, indexer, 10, 3)

	count, err := svc.AddDocument(context.Background(), "Doc", words(23), "wiki")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, repo.chunks, 3)
	assert.Equal(t, 1, indexer.rebuilds, "ingestion schedules a rebuild")

	// Chunk metadata and ordering
	for i, c := range repo.chunks {
		assert.Equal(t, "Doc", c.Title)
		assert.Equal(t, "wiki", c.Source)
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestAddDocumentDefaultSource(t *testing.T) {
	repo := newMemoryChunkRepo()
	svc := NewIngestService(repo, &noopIndexer{}, 10, 3)

	_, err := svc.AddDocument(context.Background(), "Doc", "some words", "")
	require.NoError(t, err)
	assert.Equal(t, "manual", repo.chunks[0].Source)
}

func TestAddDocumentEmptyContent(t *testing.T) {
	repo := newMemoryChunkRepo()
	indexer := &noopIndexer{}
	svc := NewIngestService(repo, indexer, 10, 3)

	_, err := svc.AddDocument(context.Background(), "Empty", "   \n  ", "wiki")
	require.Error(t, err)
	assert.Empty(t, repo.chunks)
	assert.Zero(t, indexer.rebuilds, "no rebuild when nothing was stored")
}

func TestAddDocumentStorageFailure(t *testing.T) {
	repo := newMemoryChunkRepo()
	repo.createErr = errors.New("connection reset")
	indexer := &noopIndexer{}
	svc := NewIngestService(repo, indexer, 10, 3)

	_, err := svc.AddDocument(context.Background(), "Doc", "some words", "wiki")
	require.Error(t, err)
	assert.Zero(t, indexer.rebuilds)
}

func TestListDocumentsNewestIngestionFirst(t *testing.T) {
	repo := newMemoryChunkRepo()
	base := time.Now()
	repo.chunks = []models.Chunk{
		{ID: 1, Title: "Old Doc", Source: "wiki", ChunkIndex: 0, Content: "a", CreatedAt: base},
		{ID: 2, Title: "New Doc", Source: "wiki", ChunkIndex: 0, Content: "b", CreatedAt: base.Add(time.Minute)},
		// Re-ingesting the older title adds rows with a later timestamp
		{ID: 3, Title: "Old Doc", Source: "wiki", ChunkIndex: 0, Content: "c", CreatedAt: base.Add(2 * time.Minute)},
	}

	summaries, err := repo.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// The re-ingested title moves back to the top and keeps the combined
	// chunk count for its group
	assert.Equal(t, "Old Doc", summaries[0].Title)
	assert.Equal(t, 2, summaries[0].ChunkCount)
	assert.Equal(t, "New Doc", summaries[1].Title)
}

func TestSeedSampleDocuments(t *testing.T) {
	repo := newMemoryChunkRepo()
	svc := NewIngestService(repo, &noopIndexer{}, 500, 50)

	added, err := svc.SeedSampleDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	summaries, err := repo.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	titles := make([]string, len(summaries))
	for i, s := range summaries {
		titles[i] = s.Title
	}
	assert.Contains(t, titles, "Employee Handbook - HR Policies")
	assert.Contains(t, titles, "Engineering Guidelines")
	assert.Contains(t, titles, "Sales Playbook")
}
