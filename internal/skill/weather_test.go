package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherSkill_CanHandle(t *testing.T) {
	s := NewWeatherSkill(nil)

	tests := []struct {
		message string
		want    bool
	}{
		{"what's the weather in Mumbai?", true},
		{"temperature at Delhi", true},
		{"forecast for London please", true},
		{"climate in Norway", true},
		{"I like weather", false}, // keyword without a location marker
		{"what is 2 + 2", false},  // no weather keyword
		{"tell me about Paris", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CanHandle(tt.message))
		})
	}
}

func TestWeatherSkill_Execute_MockTable(t *testing.T) {
	s := NewWeatherSkill(nil)
	ctx := context.Background()

	tests := []struct {
		message     string
		location    string
		temperature string
		humidity    string
	}{
		{"weather in Mumbai", "Mumbai", "28°C", "78%"},
		{"weather in bangalore", "bangalore", "24°C", "65%"},
		{"weather in Delhi", "Delhi", "22°C", "45%"},
		{"weather in Reykjavik", "Reykjavik", "25°C", "60%"}, // default entry
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			data, err := s.Execute(ctx, tt.message)
			require.NoError(t, err)

			assert.Equal(t, tt.location, data["location"])
			assert.Equal(t, tt.temperature, data["temperature"])
			assert.Equal(t, tt.humidity, data["humidity"])
			assert.Equal(t, "3.2 m/s", data["windSpeed"])
			assert.Contains(t, data, "note", "mock results must be marked")
		})
	}
}

func TestWeatherSkill_Execute_NoLocation(t *testing.T) {
	s := NewWeatherSkill(nil)

	// Passes CanHandle ("weather" + "in" inside "raining") but no
	// extractable location.
	data, err := s.Execute(context.Background(), "weather raining?")
	require.NoError(t, err)

	assert.Contains(t, data, "error")
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"what's the weather in Mumbai?", "Mumbai"},
		{"weather at New Delhi today", "New Delhi today"},
		{"in Tokyo weather", "Tokyo"},
		{"temperature for Oslo, right now", "Oslo"},
		{"no location here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, extractLocation(tt.message))
		})
	}
}

// stubForecaster returns fixed conditions or a fixed error.
type stubForecaster struct {
	cond Conditions
	err  error
}

func (s stubForecaster) Current(context.Context, string) (Conditions, error) {
	return s.cond, s.err
}

func TestWeatherSkill_Execute_LiveForecaster(t *testing.T) {
	s := NewWeatherSkill(stubForecaster{
		cond: Conditions{
			Location:    "Mumbai",
			TempC:       31,
			Description: "haze",
			Humidity:    70,
			WindSpeed:   4.6,
		},
	})

	data, err := s.Execute(context.Background(), "weather in Mumbai")
	require.NoError(t, err)

	assert.Equal(t, "31°C", data["temperature"])
	assert.Equal(t, "haze", data["conditions"])
	assert.Equal(t, "70%", data["humidity"])
	assert.Equal(t, "4.6 m/s", data["windSpeed"])
	assert.NotContains(t, data, "note", "live results are not marked as mocked")
}

func TestWeatherSkill_Execute_LiveFailureFallsBackToMock(t *testing.T) {
	s := NewWeatherSkill(stubForecaster{err: errors.New("quota exceeded")})

	data, err := s.Execute(context.Background(), "weather in Mumbai")
	require.NoError(t, err)

	assert.Equal(t, "28°C", data["temperature"], "mock table entry for mumbai")
	assert.Contains(t, data, "note")
}
