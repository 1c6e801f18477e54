package models

import (
	"time"
)

// Chunk is the atomic retrieval unit: a bounded excerpt of an ingested
// document. Chunks are written once at ingestion time and never updated;
// re-ingesting a title simply creates a new set of rows alongside the old one.
// The auto-increment integer ID doubles as the chunk's identity inside the
// vector index.
type Chunk struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"type:text;not null;index"`
	Source     string    `json:"source" gorm:"type:text;not null"`
	ChunkIndex int       `json:"chunk_index" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName override
func (Chunk) TableName() string {
	return "chunks"
}

// DocumentSummary is a display grouping of chunks sharing (title, source).
// There is no documents table: the original document only exists as its chunks.
type DocumentSummary struct {
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// RetrievalResult is a scored chunk joined back to its document metadata.
// Produced per query, never persisted.
type RetrievalResult struct {
	Content        string  `json:"content"`
	Title          string  `json:"title"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}

// KnowledgeStats summarizes the size of the knowledge base.
type KnowledgeStats struct {
	Documents int64 `json:"documents"`
	Chunks    int64 `json:"chunks"`
}
