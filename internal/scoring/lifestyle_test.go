package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrow/studymatch/pkg/models"
)

func TestLifestyle(t *testing.T) {
	// 09:00-18:00 is nine hours (0.69) and medium is 0.67; an even split
	// lands on 0.68.
	got, err := Lifestyle(models.ParticipationWindow{
		StartTime:    "09:00",
		EndTime:      "18:00",
		PeriodLength: "medium",
	}, DefaultLifestyleWeights())
	require.NoError(t, err)

	assert.Equal(t, 0.69, got.Time01)
	assert.Equal(t, 0.67, got.Period01)
	assert.Equal(t, 0.68, got.Score)
}

func TestLifestyle_WeightsNormalized(t *testing.T) {
	window := models.ParticipationWindow{
		StartTime:    "09:00",
		EndTime:      "22:00",
		PeriodLength: "short",
	}

	// 2:2 behaves like 0.5:0.5.
	got, err := Lifestyle(window, LifestyleWeights{Time: 2, Period: 2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Weights.Time)
	assert.Equal(t, 0.5, got.Weights.Period)
	assert.Equal(t, 0.67, got.Score) // (1.0 + 0.33) / 2

	// All weight on time ignores the period score.
	got, err = Lifestyle(window, LifestyleWeights{Time: 1, Period: 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Score)
}

func TestLifestyle_ZeroWeights(t *testing.T) {
	got, err := Lifestyle(models.ParticipationWindow{
		StartTime:    "09:00",
		EndTime:      "18:00",
		PeriodLength: "long",
	}, LifestyleWeights{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Score)
}

func TestLifestyle_PropagatesInvalidWindow(t *testing.T) {
	_, err := Lifestyle(models.ParticipationWindow{
		StartTime:    "18:00",
		EndTime:      "09:00",
		PeriodLength: "short",
	}, DefaultLifestyleWeights())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = Lifestyle(models.ParticipationWindow{
		StartTime:    "09:00",
		EndTime:      "18:00",
		PeriodLength: "sometimes",
	}, DefaultLifestyleWeights())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}
