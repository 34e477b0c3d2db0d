package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamgrow/studymatch/pkg/models"
)

func resolved(raw, uid, canonical string) models.TagResolution {
	return models.TagResolution{Raw: raw, Key: NormalizeKey(raw), CanonicalUID: uid, Canonical: canonical, Confidence: 0.9}
}

func unresolved(raw string) models.TagResolution {
	return models.TagResolution{Raw: raw, Key: NormalizeKey(raw), Canonical: raw}
}

func TestDeduplicate(t *testing.T) {
	got := Deduplicate([]models.TagResolution{
		resolved("React", "uid-fe", "프론트엔드"),
		resolved("react.js", "uid-fe", "프론트엔드"),
		resolved("백엔드", "uid-be", "백엔드"),
	})
	assert.Equal(t, []string{"프론트엔드", "백엔드"}, got)
}

func TestDeduplicate_FirstOccurrenceOrder(t *testing.T) {
	got := Deduplicate([]models.TagResolution{
		resolved("백엔드", "uid-be", "백엔드"),
		resolved("react", "uid-fe", "프론트엔드"),
		resolved("nest", "uid-be", "백엔드"),
	})
	assert.Equal(t, []string{"백엔드", "프론트엔드"}, got)
}

func TestDeduplicate_FallbacksCollapseByKey(t *testing.T) {
	// Two spellings of the same unresolved tag share one slot; an
	// unresolved tag never merges with a resolved one.
	got := Deduplicate([]models.TagResolution{
		unresolved("Quantum Computing"),
		unresolved("quantum-computing"),
		resolved("react", "uid-fe", "프론트엔드"),
	})
	assert.Equal(t, []string{"Quantum Computing", "프론트엔드"}, got)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
}
