package tags

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/teamgrow/studymatch/pkg/models"
)

// Batch limits for the resolve endpoint.
const (
	MaxResolveBatch = 20

	// DefaultBackfillBatch caps how many missing embeddings are computed
	// per lazy backfill pass.
	DefaultBackfillBatch = 50
)

// Neighbor is the single best vocabulary match for a query vector.
type Neighbor struct {
	UID        string
	Label      string
	Similarity float64 // 1 - cosine distance
}

// CachedSynonym is a synonym cache hit, joined with the vocabulary so the
// canonical label comes back alongside the stored id and confidence.
type CachedSynonym struct {
	UID        string
	Label      string
	Confidence float64
}

// Vocabulary is the canonical tag store the resolver searches against.
type Vocabulary interface {
	// FindByLabel returns the canonical tag with the exact label, or
	// models.ErrNotFound.
	FindByLabel(ctx context.Context, label string) (*models.CanonicalTag, error)
	// MissingEmbeddings lists up to limit tags whose embedding is null.
	MissingEmbeddings(ctx context.Context, limit int) ([]models.CanonicalTag, error)
	// SaveEmbeddings persists vectors for the given tag UIDs, same order.
	SaveEmbeddings(ctx context.Context, uids []string, vectors [][]float32) error
	// NearestNeighbor returns the top-1 match among embedded tags by
	// cosine distance, or nil when the vocabulary has no embedded tags.
	NearestNeighbor(ctx context.Context, vector []float32) (*Neighbor, error)
}

// SynonymCache is the persistent key -> (canonical id, confidence) memo.
// InsertIfAbsent must be atomic: concurrent duplicate inserts no-op
// instead of failing, so resolution races converge to one row.
type SynonymCache interface {
	Lookup(ctx context.Context, key string) (*CachedSynonym, error)
	InsertIfAbsent(ctx context.Context, key, canonicalUID, label string, confidence float64) error
}

// Embedder is the external batch text -> vector capability.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Resolver orchestrates the four-stage resolution: hard map, cache,
// lazy embedding backfill + nearest-neighbor search, threshold decision.
type Resolver struct {
	hardmap   *HardSynonymTable
	vocab     Vocabulary
	cache     SynonymCache
	embedder  Embedder
	threshold float64
	batchSize int

	// Coalesces concurrent backfill passes into one batch call.
	backfill singleflight.Group
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithThreshold overrides the similarity threshold (default 0.83).
func WithThreshold(threshold float64) ResolverOption {
	return func(r *Resolver) { r.threshold = threshold }
}

// WithBackfillBatch overrides the lazy backfill batch size.
func WithBackfillBatch(size int) ResolverOption {
	return func(r *Resolver) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

// NewResolver creates a tag resolver.
func NewResolver(hardmap *HardSynonymTable, vocab Vocabulary, cache SynonymCache, embedder Embedder, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		hardmap:   hardmap,
		vocab:     vocab,
		cache:     cache,
		embedder:  embedder,
		threshold: 0.83,
		batchSize: DefaultBackfillBatch,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveOne resolves a single raw tag. All outcomes are represented in
// the return value: a below-threshold or failed search degrades to the
// raw input as its own label rather than surfacing an error, so the
// resolve path stays responsive when the embedding capability is down.
func (r *Resolver) ResolveOne(ctx context.Context, raw string) models.TagResolution {
	key := NormalizeKey(raw)

	// 1. Hard map. A curated hit is pinned at fixed confidence, but only
	// when the canonical label actually exists in the vocabulary;
	// otherwise fall through to the embedding path.
	if label, ok := r.hardmap.Resolve(raw); ok {
		canon, err := r.vocab.FindByLabel(ctx, label)
		if err == nil {
			r.writeBack(ctx, key, canon.UID, canon.Label, HardMapConfidence)
			return models.TagResolution{
				Raw:          raw,
				Key:          key,
				CanonicalUID: canon.UID,
				Canonical:    canon.Label,
				Confidence:   HardMapConfidence,
			}
		}
		if !errors.Is(err, models.ErrNotFound) {
			log.Warn().Err(err).Str("label", label).Msg("Hard-map vocabulary lookup failed")
		}
	}

	// 2. Cache. Stored resolutions are returned verbatim.
	if cached, err := r.cache.Lookup(ctx, key); err == nil {
		return models.TagResolution{
			Raw:          raw,
			Key:          key,
			CanonicalUID: cached.UID,
			Canonical:    cached.Label,
			Confidence:   cached.Confidence,
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		log.Warn().Err(err).Str("key", key).Msg("Synonym cache lookup failed")
	}

	// 3+4. Lazy backfill, then nearest-neighbor search.
	neighbor, err := r.searchNearest(ctx, raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Embedding search failed, falling back to raw tag")
		return fallbackResolution(raw, key, 0)
	}
	if neighbor == nil {
		// No embedded vocabulary at all.
		return fallbackResolution(raw, key, 0)
	}

	// 5. Threshold decision. The write-back happens only after the
	// decision is fully reached, so a failed search never leaves a
	// partial cache entry behind.
	if neighbor.Similarity >= r.threshold {
		r.writeBack(ctx, key, neighbor.UID, neighbor.Label, neighbor.Similarity)
		return models.TagResolution{
			Raw:          raw,
			Key:          key,
			CanonicalUID: neighbor.UID,
			Canonical:    neighbor.Label,
			Confidence:   neighbor.Similarity,
		}
	}

	return fallbackResolution(raw, key, neighbor.Similarity)
}

// ResolveMany resolves a batch of raw tags and deduplicates inputs that
// landed on the same concept. Rejects empty batches and batches larger
// than MaxResolveBatch.
func (r *Resolver) ResolveMany(ctx context.Context, raws []string) (*models.ResolveResult, error) {
	if len(raws) == 0 {
		return nil, models.InvalidInputf("tags are empty")
	}
	if len(raws) > MaxResolveBatch {
		return nil, models.InvalidInputf("at most %d tags per request, got %d", MaxResolveBatch, len(raws))
	}

	mappings := make([]models.TagResolution, 0, len(raws))
	for _, raw := range raws {
		mappings = append(mappings, r.ResolveOne(ctx, raw))
	}

	return &models.ResolveResult{
		UniqueCanonical: Deduplicate(mappings),
		Mappings:        mappings,
	}, nil
}

// searchNearest ensures missing vocabulary embeddings are backfilled,
// embeds the raw tag and returns its top-1 neighbor.
func (r *Resolver) searchNearest(ctx context.Context, raw string) (*Neighbor, error) {
	if err := r.ensureEmbeddings(ctx); err != nil {
		// The search can still succeed against already-embedded tags.
		log.Warn().Err(err).Msg("Embedding backfill failed")
	}

	vectors, err := r.embedder.EmbedBatch(ctx, []string{raw})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 input", len(vectors))
	}

	return r.vocab.NearestNeighbor(ctx, vectors[0])
}

// ensureEmbeddings computes embeddings for up to batchSize vocabulary
// tags that are missing one, in a single batch call. Concurrent callers
// share one pass; duplicate passes are harmless since the save targets
// specific UIDs.
func (r *Resolver) ensureEmbeddings(ctx context.Context) error {
	_, err, _ := r.backfill.Do("backfill", func() (any, error) {
		missing, err := r.vocab.MissingEmbeddings(ctx, r.batchSize)
		if err != nil {
			return nil, fmt.Errorf("list missing embeddings: %w", err)
		}
		if len(missing) == 0 {
			return nil, nil
		}

		texts := make([]string, len(missing))
		uids := make([]string, len(missing))
		for i, tag := range missing {
			texts[i] = embeddingInput(tag)
			uids[i] = tag.UID
		}

		vectors, err := r.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed vocabulary batch: %w", err)
		}
		if len(vectors) != len(missing) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(vectors), len(missing))
		}

		if err := r.vocab.SaveEmbeddings(ctx, uids, vectors); err != nil {
			return nil, fmt.Errorf("save embeddings: %w", err)
		}

		log.Debug().Int("count", len(missing)).Msg("Backfilled vocabulary embeddings")
		return nil, nil
	})
	return err
}

// embeddingInput is the text embedded for a canonical tag: the label,
// joined with the description when one exists.
func embeddingInput(tag models.CanonicalTag) string {
	if tag.Description != "" {
		return tag.Label + " / " + tag.Description
	}
	return tag.Label
}

// writeBack inserts a cache entry once per distinct key. Conflicts are
// expected under concurrency and must not fail the resolution.
func (r *Resolver) writeBack(ctx context.Context, key, uid, label string, confidence float64) {
	if err := r.cache.InsertIfAbsent(ctx, key, uid, label, confidence); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Synonym cache write-back failed")
	}
}

func fallbackResolution(raw, key string, confidence float64) models.TagResolution {
	return models.TagResolution{
		Raw:        raw,
		Key:        key,
		Canonical:  raw,
		Confidence: confidence,
	}
}
