// Package scoring implements the normalized match-scoring primitives:
// time-window and commitment-period normalization, lifestyle combination,
// survey proficiency grading, and the final match score.
package scoring

import "math"

// Round2 rounds to two decimal places. Every externally visible score in
// this package is rounded this way.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
