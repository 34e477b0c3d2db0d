package scoring

// MatchWeights controls the lifestyle/study mix of the final match score.
type MatchWeights struct {
	Lifestyle float64 `json:"lifestyle"`
	Study     float64 `json:"study"`
}

// DefaultMatchWeights favors study proficiency over lifestyle fit.
func DefaultMatchWeights() MatchWeights {
	return MatchWeights{Lifestyle: 0.4, Study: 0.6}
}

// NormalizeProficiency rescales a 1..5 proficiency average to [0,1] via
// (x-1)/4, clamped to the unit interval.
func NormalizeProficiency(x float64) float64 {
	score := (x - 1) / 4
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// FinalMatchScore combines a lifestyle score and a study/tag score into
// one ranking score. Weights are normalized to sum to 1 (with the same
// zero-weight fail-open policy as the lifestyle scorer); the result is
// rounded to two decimals.
func FinalMatchScore(lifestyleScore, studyScore float64, weights MatchWeights) float64 {
	weightSum := weights.Lifestyle + weights.Study
	if weightSum < weightEpsilon {
		weightSum = weightEpsilon
	}

	final := (weights.Lifestyle/weightSum)*lifestyleScore + (weights.Study/weightSum)*studyScore
	return Round2(final)
}
