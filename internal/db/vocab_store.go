package db

import (
	"context"
	"errors"
	"fmt"

	pgvec "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamgrow/studymatch/internal/tags"
	"github.com/teamgrow/studymatch/pkg/models"
)

// VocabStore provides canonical tag vocabulary operations.
type VocabStore struct {
	db *gorm.DB
}

// NewVocabStore creates a vocabulary store.
func NewVocabStore(store *Store) *VocabStore {
	return &VocabStore{db: store.DB}
}

// Compile-time check that VocabStore satisfies the resolver contract.
var _ tags.Vocabulary = (*VocabStore)(nil)

// FindByLabel returns the canonical tag with the exact label.
func (s *VocabStore) FindByLabel(ctx context.Context, label string) (*models.CanonicalTag, error) {
	var tag CanonicalTag
	err := s.db.WithContext(ctx).Where("label = ?", label).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("canonical tag %q: %w", label, models.ErrNotFound)
		}
		return nil, err
	}
	return toModelTag(tag), nil
}

// CreateIfAbsent inserts a canonical tag unless its label already exists.
// Used by the administrative backfill path; the unique label index makes
// concurrent creation converge to one row.
func (s *VocabStore) CreateIfAbsent(ctx context.Context, label, description string) (*models.CanonicalTag, error) {
	tag := CanonicalTag{Label: label}
	if description != "" {
		tag.Description.String = description
		tag.Description.Valid = true
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "label"}},
			DoNothing: true,
		}).
		Create(&tag)
	if result.Error != nil {
		return nil, result.Error
	}

	// Insert was ignored: return the existing row.
	if result.RowsAffected == 0 {
		return s.FindByLabel(ctx, label)
	}
	return toModelTag(tag), nil
}

// List returns the whole vocabulary ordered by label.
func (s *VocabStore) List(ctx context.Context) ([]models.CanonicalTag, error) {
	var rows []CanonicalTag
	if err := s.db.WithContext(ctx).Order("label").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.CanonicalTag, len(rows))
	for i, row := range rows {
		out[i] = *toModelTag(row)
	}
	return out, nil
}

// MissingEmbeddings lists up to limit tags whose embedding is NULL.
func (s *VocabStore) MissingEmbeddings(ctx context.Context, limit int) ([]models.CanonicalTag, error) {
	if limit <= 0 {
		limit = tags.DefaultBackfillBatch
	}

	var rows []CanonicalTag
	err := s.db.WithContext(ctx).
		Where("embedding IS NULL").
		Order("created_at_epoch").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.CanonicalTag, len(rows))
	for i, row := range rows {
		out[i] = *toModelTag(row)
	}
	return out, nil
}

// SaveEmbeddings persists vectors for the given tag UIDs in one
// transaction. uids and vectors must be index-aligned.
func (s *VocabStore) SaveEmbeddings(ctx context.Context, uids []string, vectors [][]float32) error {
	if len(uids) != len(vectors) {
		return fmt.Errorf("got %d uids and %d vectors", len(uids), len(vectors))
	}
	if len(uids) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, uid := range uids {
			vec := pgvec.NewVector(vectors[i])
			err := tx.Model(&CanonicalTag{}).
				Where("uid = ?", uid).
				Update("embedding", vec).Error
			if err != nil {
				return fmt.Errorf("update embedding for %s: %w", uid, err)
			}
		}
		return nil
	})
}

// NearestNeighbor returns the top-1 vocabulary match for a query vector
// by cosine distance. Returns nil when no tag has an embedding yet.
func (s *VocabStore) NearestNeighbor(ctx context.Context, vector []float32) (*tags.Neighbor, error) {
	queryVec := pgvec.NewVector(vector)

	var row struct {
		UID        string
		Label      string
		Similarity float64
	}

	err := s.db.WithContext(ctx).Raw(`
		SELECT uid, label, 1 - (embedding <=> ?) AS similarity
		FROM canonical_tags
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> ?
		LIMIT 1`, queryVec, queryVec).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("nearest neighbor query: %w", err)
	}
	if row.UID == "" {
		return nil, nil
	}

	return &tags.Neighbor{UID: row.UID, Label: row.Label, Similarity: row.Similarity}, nil
}

func toModelTag(tag CanonicalTag) *models.CanonicalTag {
	return &models.CanonicalTag{
		UID:          tag.UID,
		Label:        tag.Label,
		Description:  tag.Description.String,
		HasEmbedding: tag.Embedding != nil,
	}
}
