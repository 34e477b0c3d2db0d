package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	pgvec "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// CanonicalTag is one entry of the fixed tag vocabulary. The embedding
// column is created by migrations with the configured dimensionality and
// stays NULL until the resolver's lazy backfill fills it.
type CanonicalTag struct {
	UID            string         `gorm:"primaryKey;type:uuid"`
	Label          string         `gorm:"uniqueIndex;not null"`
	Description    sql.NullString `gorm:"type:text"`
	Embedding      *pgvec.Vector  `gorm:"column:embedding;-:migration"`
	CreatedAtEpoch int64          `gorm:"not null"`
}

func (CanonicalTag) TableName() string { return "canonical_tags" }

// BeforeCreate hook to ensure a UID and timestamp are set.
func (t *CanonicalTag) BeforeCreate(tx *gorm.DB) error {
	if t.UID == "" {
		t.UID = uuid.NewString()
	}
	if t.CreatedAtEpoch == 0 {
		t.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}

// TagSynonym memoizes one resolved key -> canonical tag mapping. Rows are
// written once per distinct normalized key; the unique index is what
// makes concurrent resolution race-safe.
type TagSynonym struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	NormalizedKey  string  `gorm:"uniqueIndex;not null"`
	CanonicalUID   string  `gorm:"index;not null;type:uuid"`
	Confidence     float64 `gorm:"type:real;not null"`
	CreatedAtEpoch int64   `gorm:"not null"`
}

func (TagSynonym) TableName() string { return "tag_synonyms" }

// BeforeCreate hook to ensure the timestamp is set.
func (s *TagSynonym) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAtEpoch == 0 {
		s.CreatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}
