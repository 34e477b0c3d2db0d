package scoring

import (
	"strconv"
	"strings"

	"github.com/teamgrow/studymatch/pkg/models"
)

// TimeScore is the normalized availability of a daily time window.
type TimeScore struct {
	Hours float64 `json:"hours"`
	Score float64 `json:"score"`
}

// parseClock converts an "HH:MM" 24-hour string to fractional hours
// (e.g. "14:30" -> 14.5).
func parseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, models.InvalidInputf("time %q is not in HH:MM format", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, models.InvalidInputf("time %q is not in HH:MM format", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, models.InvalidInputf("time %q is not in HH:MM format", s)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, models.InvalidInputf("time %q is out of range", s)
	}
	return float64(hours) + float64(minutes)/60, nil
}

// AvailableTime computes the linear-normalized availability score for a
// [start, end) window. Hours beyond maxHours are clamped; the score is
// hours/maxHours capped at 1 and rounded to two decimals.
func AvailableTime(startTime, endTime string, maxHours float64) (TimeScore, error) {
	if maxHours <= 0 {
		return TimeScore{}, models.InvalidInputf("max hours must be positive, got %v", maxHours)
	}

	start, err := parseClock(startTime)
	if err != nil {
		return TimeScore{}, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return TimeScore{}, err
	}
	if start >= end {
		return TimeScore{}, models.InvalidInputf("start time %q must be before end time %q", startTime, endTime)
	}

	hours := end - start
	if hours > maxHours {
		hours = maxHours
	}

	score := hours / maxHours
	if score > 1 {
		score = 1
	}

	return TimeScore{Hours: hours, Score: Round2(score)}, nil
}
