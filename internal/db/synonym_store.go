package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamgrow/studymatch/internal/tags"
	"github.com/teamgrow/studymatch/pkg/models"
)

// SynonymStore is the tag_synonyms-backed synonym cache.
type SynonymStore struct {
	db *gorm.DB
}

// NewSynonymStore creates a synonym cache store.
func NewSynonymStore(store *Store) *SynonymStore {
	return &SynonymStore{db: store.DB}
}

// Compile-time check that SynonymStore satisfies the resolver contract.
var _ tags.SynonymCache = (*SynonymStore)(nil)

// Lookup returns the cached resolution for a normalized key, joined with
// the vocabulary for the canonical label. models.ErrNotFound on a miss.
func (s *SynonymStore) Lookup(ctx context.Context, key string) (*tags.CachedSynonym, error) {
	var row struct {
		CanonicalUID string
		Confidence   float64
		Label        string
	}

	err := s.db.WithContext(ctx).
		Table("tag_synonyms s").
		Select("s.canonical_uid, s.confidence, c.label").
		Joins("JOIN canonical_tags c ON c.uid = s.canonical_uid").
		Where("s.normalized_key = ?", key).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("synonym %q: %w", key, models.ErrNotFound)
		}
		return nil, err
	}

	return &tags.CachedSynonym{
		UID:        row.CanonicalUID,
		Label:      row.Label,
		Confidence: row.Confidence,
	}, nil
}

// InsertIfAbsent records a resolution once per distinct key.
// INSERT ... ON CONFLICT DO NOTHING on the unique key index, so
// concurrent duplicate inserts no-op instead of failing. The label is
// not stored; lookups join the vocabulary for it.
func (s *SynonymStore) InsertIfAbsent(ctx context.Context, key, canonicalUID, _ string, confidence float64) error {
	entry := &TagSynonym{
		NormalizedKey: key,
		CanonicalUID:  canonicalUID,
		Confidence:    confidence,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "normalized_key"}},
			DoNothing: true,
		}).
		Create(entry).Error
}
