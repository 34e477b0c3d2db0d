package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrow/studymatch/pkg/models"
)

func TestAvailableTime(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantHours float64
		wantScore float64
	}{
		{"four hour window", "09:00", "13:00", 4, 0.31},
		{"full window", "09:00", "22:00", 13, 1.0},
		{"half hour window", "09:00", "09:30", 0.5, 0.04},
		{"window longer than max clamps", "06:00", "23:30", 13, 1.0},
		{"fractional minutes", "10:15", "12:45", 2.5, 0.19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AvailableTime(tt.start, tt.end, DefaultMaxHours)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantHours, got.Hours, 1e-9)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}

func TestAvailableTime_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"missing colon", "0900", "13:00"},
		{"non numeric", "ab:cd", "13:00"},
		{"hour out of range", "25:00", "26:00"},
		{"minute out of range", "09:75", "13:00"},
		{"start equals end", "09:00", "09:00"},
		{"start after end", "14:00", "13:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AvailableTime(tt.start, tt.end, DefaultMaxHours)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidInput))
		})
	}
}

func TestAvailableTime_MaxHoursMustBePositive(t *testing.T) {
	_, err := AvailableTime("09:00", "13:00", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = AvailableTime("09:00", "13:00", -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}
