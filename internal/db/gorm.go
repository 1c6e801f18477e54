package db

import (
	"fmt"
	"log"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/config"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB wraps the GORM database instance
type GormDB struct {
	*gorm.DB
}

// NewGorm initializes a new GORM database connection and migrates the chunk
// schema. Embedding vectors are deliberately NOT stored here: they are
// recomputed from chunk content on every index rebuild, so the database only
// holds text and metadata.
func NewGorm(cfg *config.Config) (*GormDB, error) {
	dsn := cfg.DatabaseURL()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate schema
	if err := db.AutoMigrate(&models.Chunk{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Composite index for the (title, source) display grouping
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_chunks_title_source
		ON chunks (title, source)
	`).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create grouping index: %w", err)
	}

	log.Println("✓ Database connected and migrated successfully")

	return &GormDB{db}, nil
}

// Close closes the database connection
func (db *GormDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
