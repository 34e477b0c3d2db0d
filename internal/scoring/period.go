package scoring

import "github.com/teamgrow/studymatch/pkg/models"

// PeriodScore is the normalized commitment-period length.
type PeriodScore struct {
	Class int     `json:"class"`
	Score float64 `json:"score"`
}

// periodClass maps a commitment-period label onto its class code.
// The Korean labels from the legacy profile data are accepted as aliases.
func periodClass(periodLength string) (int, error) {
	switch periodLength {
	case "short", "단기":
		return 1, nil
	case "medium", "중기":
		return 2, nil
	case "long", "장기":
		return 3, nil
	}
	return 0, models.InvalidInputf("unknown period length %q", periodLength)
}

// PeriodScoreLinear computes the linear-normalized commitment score:
// class/3 capped at 1 and rounded to two decimals.
//
//	short  -> 0.33
//	medium -> 0.67
//	long   -> 1.00
func PeriodScoreLinear(periodLength string) (PeriodScore, error) {
	class, err := periodClass(periodLength)
	if err != nil {
		return PeriodScore{}, err
	}

	score := float64(class) / 3
	if score > 1 {
		score = 1
	}

	return PeriodScore{Class: class, Score: Round2(score)}, nil
}
