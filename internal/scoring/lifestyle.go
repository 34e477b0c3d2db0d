package scoring

import "github.com/teamgrow/studymatch/pkg/models"

// DefaultMaxHours is the window length that maps to a full time score.
const DefaultMaxHours = 13.0

// weightEpsilon guards the weight normalization against division by zero.
// When both weights are exactly zero the normalized weights stay zero and
// the combined score is zero; that degenerate input is deliberately not
// an error.
const weightEpsilon = 1e-9

// LifestyleWeights controls the time/period mix of the lifestyle score.
type LifestyleWeights struct {
	Time   float64 `json:"time"`
	Period float64 `json:"period"`
}

// DefaultLifestyleWeights splits time and period evenly.
func DefaultLifestyleWeights() LifestyleWeights {
	return LifestyleWeights{Time: 0.5, Period: 0.5}
}

// LifestyleScore is the weighted combination of the time-availability and
// commitment-period scores.
type LifestyleScore struct {
	Time01   float64          `json:"time01"`
	Period01 float64          `json:"period01"`
	Weights  LifestyleWeights `json:"weights"`
	Score    float64          `json:"score"`
}

// Lifestyle computes the combined lifestyle score for a participation
// window. Weights are normalized to sum to 1 before combining.
func Lifestyle(window models.ParticipationWindow, weights LifestyleWeights) (LifestyleScore, error) {
	timeScore, err := AvailableTime(window.StartTime, window.EndTime, DefaultMaxHours)
	if err != nil {
		return LifestyleScore{}, err
	}

	periodScore, err := PeriodScoreLinear(window.PeriodLength)
	if err != nil {
		return LifestyleScore{}, err
	}

	weightSum := weights.Time + weights.Period
	if weightSum < weightEpsilon {
		weightSum = weightEpsilon
	}
	normalized := LifestyleWeights{
		Time:   weights.Time / weightSum,
		Period: weights.Period / weightSum,
	}

	combined := normalized.Time*timeScore.Score + normalized.Period*periodScore.Score

	return LifestyleScore{
		Time01:   timeScore.Score,
		Period01: periodScore.Score,
		Weights:  normalized,
		Score:    Round2(combined),
	}, nil
}
