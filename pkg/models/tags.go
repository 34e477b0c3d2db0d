// Package models contains the shared domain types for the studymatch core.
package models

// CanonicalTag is one entry of the fixed target vocabulary that free-text
// tags are mapped onto. The embedding is filled lazily by the resolver's
// backfill step; HasEmbedding reports whether it is present.
type CanonicalTag struct {
	UID          string `json:"uid"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	HasEmbedding bool   `json:"has_embedding"`
}

// TagResolution is the per-input outcome of resolving one raw tag.
// CanonicalUID is empty when no match cleared the similarity threshold;
// in that case Canonical falls back to the raw input.
type TagResolution struct {
	Raw          string  `json:"raw"`
	Key          string  `json:"key"`
	CanonicalUID string  `json:"canonical_uid,omitempty"`
	Canonical    string  `json:"canonical"`
	Confidence   float64 `json:"confidence"`
}

// Resolved reports whether the resolution mapped onto the vocabulary.
func (r TagResolution) Resolved() bool {
	return r.CanonicalUID != ""
}

// ResolveResult is the batch resolution output: the deduplicated canonical
// labels in first-occurrence order, plus the full per-input mapping list.
type ResolveResult struct {
	UniqueCanonical []string        `json:"unique_canonical"`
	Mappings        []TagResolution `json:"mappings"`
}
