package skill

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Forecaster provides live weather conditions. Defined here on the
// consumer side; internal/weather supplies the production implementation.
type Forecaster interface {
	Current(ctx context.Context, location string) (Conditions, error)
}

// Conditions is a normalized weather observation.
type Conditions struct {
	Location    string
	TempC       float64
	Description string
	Humidity    int     // percent
	WindSpeed   float64 // m/s
}

var (
	weatherKeywords  = []string{"weather", "temperature", "forecast", "climate"}
	locationMarkers  = []string{"in", "at", "for"}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)weather (?:in|at|for) ([^?.,!]+)`),
		regexp.MustCompile(`(?i)(?:in|at|for) ([^?.,!]+) weather`),
		regexp.MustCompile(`(?i)temperature (?:in|at|for) ([^?.,!]+)`),
	}
)

// mockConditions is the canned lookup table used when no live client is
// configured or the live lookup fails.
var mockConditions = map[string]struct {
	temp       int
	conditions string
	humidity   int
}{
	"bangalore": {24, "partly cloudy", 65},
	"mumbai":    {28, "humid and warm", 78},
	"delhi":     {22, "clear sky", 45},
}

// WeatherSkill answers weather questions. It tries the live forecaster
// first when one is configured; any failure falls back to the mock table
// so the skill always produces a usable result.
type WeatherSkill struct {
	live Forecaster // nil = mock only
}

// NewWeatherSkill creates the weather skill. Pass nil to run mock-only.
func NewWeatherSkill(live Forecaster) *WeatherSkill {
	return &WeatherSkill{live: live}
}

// Name implements Skill.
func (*WeatherSkill) Name() string { return "weather" }

// Description implements Skill.
func (*WeatherSkill) Description() string {
	return "Looks up current weather conditions for a location"
}

// CanHandle implements Skill. Requires both a weather keyword and a
// location marker so that bare mentions of weather do not trigger a
// lookup.
func (*WeatherSkill) CanHandle(message string) bool {
	lower := strings.ToLower(message)

	var hasKeyword bool
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}

	for _, marker := range locationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Execute implements Skill.
func (s *WeatherSkill) Execute(ctx context.Context, message string) (map[string]any, error) {
	location := extractLocation(message)
	if location == "" {
		return map[string]any{
			"error": "Could not extract location from message",
		}, nil
	}

	if s.live != nil {
		if cond, err := s.live.Current(ctx, location); err == nil {
			return map[string]any{
				"location":    cond.Location,
				"temperature": fmt.Sprintf("%.0f°C", cond.TempC),
				"conditions":  cond.Description,
				"humidity":    fmt.Sprintf("%d%%", cond.Humidity),
				"windSpeed":   fmt.Sprintf("%.1f m/s", cond.WindSpeed),
			}, nil
		}
		// Live lookup failed: fall through to the mock table.
	}

	return s.mockLookup(location), nil
}

// mockLookup returns canned conditions for the location, with a default
// for unknown places. The note marks the data as mocked so the model does
// not present it as live.
func (*WeatherSkill) mockLookup(location string) map[string]any {
	temp, conditions, humidity := 25, "pleasant weather", 60
	if m, ok := mockConditions[strings.ToLower(location)]; ok {
		temp, conditions, humidity = m.temp, m.conditions, m.humidity
	}

	return map[string]any{
		"location":    location,
		"temperature": fmt.Sprintf("%d°C", temp),
		"conditions":  conditions,
		"humidity":    fmt.Sprintf("%d%%", humidity),
		"windSpeed":   "3.2 m/s",
		"note":        "Simulated weather data (live lookup unavailable)",
	}
}

// extractLocation finds the location phrase in the message.
func extractLocation(message string) string {
	for _, pattern := range locationPatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
