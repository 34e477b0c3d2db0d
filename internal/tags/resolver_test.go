package tags

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrow/studymatch/pkg/models"
)

// memVocab is an in-memory Vocabulary with a scripted nearest-neighbor
// answer. Similarity is injected as-is, so threshold boundaries can be
// tested with exact values.
type memVocab struct {
	byLabel     map[string]models.CanonicalTag
	missing     []models.CanonicalTag
	neighbor    *Neighbor
	neighborErr error

	mu        sync.Mutex
	savedUIDs []string
}

func (v *memVocab) FindByLabel(_ context.Context, label string) (*models.CanonicalTag, error) {
	tag, ok := v.byLabel[label]
	if !ok {
		return nil, fmt.Errorf("tag %q: %w", label, models.ErrNotFound)
	}
	return &tag, nil
}

func (v *memVocab) MissingEmbeddings(_ context.Context, limit int) ([]models.CanonicalTag, error) {
	if limit < len(v.missing) {
		return v.missing[:limit], nil
	}
	return v.missing, nil
}

func (v *memVocab) SaveEmbeddings(_ context.Context, uids []string, vectors [][]float32) error {
	if len(uids) != len(vectors) {
		return fmt.Errorf("uids/vectors length mismatch")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.savedUIDs = append(v.savedUIDs, uids...)
	v.missing = nil
	return nil
}

func (v *memVocab) NearestNeighbor(_ context.Context, _ []float32) (*Neighbor, error) {
	return v.neighbor, v.neighborErr
}

// memCache is an in-memory SynonymCache with write-once semantics.
type memCache struct {
	mu      sync.Mutex
	entries map[string]CachedSynonym
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]CachedSynonym)}
}

func (c *memCache) Lookup(_ context.Context, key string) (*CachedSynonym, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("synonym %q: %w", key, models.ErrNotFound)
	}
	return &entry, nil
}

func (c *memCache) InsertIfAbsent(_ context.Context, key, uid, label string, confidence float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return nil
	}
	c.entries[key] = CachedSynonym{UID: uid, Label: label, Confidence: confidence}
	return nil
}

// fakeEmbedder returns a fixed vector per input, or fails outright.
type fakeEmbedder struct {
	err   error
	calls int
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func testHardmap(t *testing.T) *HardSynonymTable {
	t.Helper()
	table, err := LoadHardSynonyms("")
	require.NoError(t, err)
	return table
}

func TestResolveOne_HardmapHit(t *testing.T) {
	vocab := &memVocab{byLabel: map[string]models.CanonicalTag{
		"프론트엔드": {UID: "uid-fe", Label: "프론트엔드"},
	}}
	cache := newMemCache()
	embedder := &fakeEmbedder{}
	resolver := NewResolver(testHardmap(t), vocab, cache, embedder)

	got := resolver.ResolveOne(context.Background(), "React.JS")

	assert.Equal(t, "uid-fe", got.CanonicalUID)
	assert.Equal(t, "프론트엔드", got.Canonical)
	assert.Equal(t, HardMapConfidence, got.Confidence)
	assert.True(t, got.Resolved())

	// The embedding path is never touched and the hit is memoized.
	assert.Zero(t, embedder.calls)
	cached, err := cache.Lookup(context.Background(), NormalizeKey("React.JS"))
	require.NoError(t, err)
	assert.Equal(t, "uid-fe", cached.UID)
	assert.Equal(t, HardMapConfidence, cached.Confidence)
}

func TestResolveOne_HardmapLabelMissingFromVocabulary(t *testing.T) {
	// A curated label that has no vocabulary row falls through to the
	// embedding path instead of resolving to a dangling id.
	vocab := &memVocab{
		byLabel:  map[string]models.CanonicalTag{},
		neighbor: &Neighbor{UID: "uid-be", Label: "백엔드", Similarity: 0.9},
	}
	resolver := NewResolver(testHardmap(t), vocab, newMemCache(), &fakeEmbedder{})

	got := resolver.ResolveOne(context.Background(), "react")
	assert.Equal(t, "uid-be", got.CanonicalUID)
	assert.Equal(t, 0.9, got.Confidence)
}

func TestResolveOne_CacheHit(t *testing.T) {
	cache := newMemCache()
	require.NoError(t, cache.InsertIfAbsent(context.Background(), "러스트", "uid-rust", "러스트", 0.91))

	// A failing embedder proves the cached path never re-resolves.
	vocab := &memVocab{byLabel: map[string]models.CanonicalTag{}}
	resolver := NewResolver(testHardmap(t), vocab, cache, &fakeEmbedder{err: errors.New("down")})

	got := resolver.ResolveOne(context.Background(), "러스트")
	assert.Equal(t, "uid-rust", got.CanonicalUID)
	assert.Equal(t, "러스트", got.Canonical)
	assert.Equal(t, 0.91, got.Confidence)
}

func TestResolveOne_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		resolved   bool
	}{
		{"exactly at threshold accepts", 0.83, true},
		{"just below threshold rejects", 0.829999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vocab := &memVocab{
				byLabel:  map[string]models.CanonicalTag{},
				neighbor: &Neighbor{UID: "uid-be", Label: "백엔드", Similarity: tt.similarity},
			}
			cache := newMemCache()
			resolver := NewResolver(testHardmap(t), vocab, cache, &fakeEmbedder{})

			got := resolver.ResolveOne(context.Background(), "server side dev")
			assert.Equal(t, tt.resolved, got.Resolved())
			assert.Equal(t, tt.similarity, got.Confidence)

			_, err := cache.Lookup(context.Background(), NormalizeKey("server side dev"))
			if tt.resolved {
				assert.Equal(t, "백엔드", got.Canonical)
				assert.NoError(t, err)
			} else {
				// A rejected match keeps the raw label and leaves no
				// cache entry behind.
				assert.Equal(t, "server side dev", got.Canonical)
				assert.True(t, errors.Is(err, models.ErrNotFound))
			}
		})
	}
}

func TestResolveOne_EmbedderDown(t *testing.T) {
	vocab := &memVocab{byLabel: map[string]models.CanonicalTag{}}
	resolver := NewResolver(testHardmap(t), vocab, newMemCache(), &fakeEmbedder{err: errors.New("connection refused")})

	got := resolver.ResolveOne(context.Background(), "양자컴퓨팅")
	assert.False(t, got.Resolved())
	assert.Equal(t, "양자컴퓨팅", got.Canonical)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestResolveOne_EmptyVocabulary(t *testing.T) {
	vocab := &memVocab{byLabel: map[string]models.CanonicalTag{}, neighbor: nil}
	resolver := NewResolver(testHardmap(t), vocab, newMemCache(), &fakeEmbedder{})

	got := resolver.ResolveOne(context.Background(), "양자컴퓨팅")
	assert.False(t, got.Resolved())
	assert.Equal(t, "양자컴퓨팅", got.Canonical)
}

func TestResolveOne_BackfillsMissingEmbeddings(t *testing.T) {
	vocab := &memVocab{
		byLabel: map[string]models.CanonicalTag{},
		missing: []models.CanonicalTag{
			{UID: "uid-1", Label: "백엔드"},
			{UID: "uid-2", Label: "프론트엔드", Description: "웹 UI 개발"},
		},
		neighbor: &Neighbor{UID: "uid-1", Label: "백엔드", Similarity: 0.95},
	}
	resolver := NewResolver(testHardmap(t), vocab, newMemCache(), &fakeEmbedder{})

	got := resolver.ResolveOne(context.Background(), "server side dev")
	assert.True(t, got.Resolved())
	assert.Equal(t, []string{"uid-1", "uid-2"}, vocab.savedUIDs)
}

func TestResolveMany(t *testing.T) {
	vocab := &memVocab{byLabel: map[string]models.CanonicalTag{
		"프론트엔드": {UID: "uid-fe", Label: "프론트엔드"},
		"백엔드":   {UID: "uid-be", Label: "백엔드"},
	}}
	resolver := NewResolver(testHardmap(t), vocab, newMemCache(), &fakeEmbedder{err: errors.New("down")})

	result, err := resolver.ResolveMany(context.Background(), []string{"React", "react.js", "백엔드"})
	require.NoError(t, err)

	assert.Equal(t, []string{"프론트엔드", "백엔드"}, result.UniqueCanonical)
	require.Len(t, result.Mappings, 3)
	assert.Equal(t, "React", result.Mappings[0].Raw)
	assert.Equal(t, "uid-fe", result.Mappings[1].CanonicalUID)
}

func TestResolveMany_BatchLimits(t *testing.T) {
	resolver := NewResolver(testHardmap(t), &memVocab{}, newMemCache(), &fakeEmbedder{})

	_, err := resolver.ResolveMany(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	over := make([]string, MaxResolveBatch+1)
	for i := range over {
		over[i] = fmt.Sprintf("tag-%d", i)
	}
	_, err = resolver.ResolveMany(context.Background(), over)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestResolveOne_IdempotentViaCache(t *testing.T) {
	vocab := &memVocab{
		byLabel:  map[string]models.CanonicalTag{},
		neighbor: &Neighbor{UID: "uid-be", Label: "백엔드", Similarity: 0.9},
	}
	embedder := &fakeEmbedder{}
	resolver := NewResolver(testHardmap(t), vocab, newMemCache(), embedder)

	first := resolver.ResolveOne(context.Background(), "Server Side Dev")
	callsAfterFirst := embedder.calls

	// A different spelling of the same key is served from the cache.
	second := resolver.ResolveOne(context.Background(), "server-side-dev")
	assert.Equal(t, first.CanonicalUID, second.CanonicalUID)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, callsAfterFirst, embedder.calls)
}
