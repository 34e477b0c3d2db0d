package db

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
// embeddingDims sets the dimensionality of the vector column and must
// match the configured embedding provider.
func runMigrations(db *gorm.DB, embeddingDims int) error {
	if embeddingDims <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", embeddingDims)
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: pgvector extension
		{
			ID: "001_vector_extension",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return nil // shared extension, never dropped
			},
		},

		// Migration 002: vocabulary and synonym cache tables
		{
			ID: "002_tag_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&CanonicalTag{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&TagSynonym{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("tag_synonyms", "canonical_tags")
			},
		},

		// Migration 003: embedding column with configured dimensionality.
		// Kept out of AutoMigrate so the dimension is not baked into a
		// struct tag.
		{
			ID: "003_canonical_tag_embedding",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(fmt.Sprintf(
					"ALTER TABLE canonical_tags ADD COLUMN IF NOT EXISTS embedding vector(%d)",
					embeddingDims,
				)).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("ALTER TABLE canonical_tags DROP COLUMN IF EXISTS embedding").Error
			},
		},
	})

	return m.Migrate()
}
