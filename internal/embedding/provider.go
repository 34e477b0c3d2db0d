// Package embedding provides the external text embedding capability used
// by the tag resolver. Embedding generation is treated as an opaque
// contract: batch text in, fixed-length float vectors out, same order.
package embedding

import "context"

// Provider is the batch text -> vector contract.
type Provider interface {
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the fixed vector length this provider produces.
	Dimensions() int
}
