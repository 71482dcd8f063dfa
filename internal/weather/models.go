package weather

import (
	"strings"

	"github.com/i474232898/weather-history/internal/common"
)

// Condition is the coarse weather theme used by the views.
type Condition string

const (
	ConditionDefault Condition = "default"
	ConditionClear   Condition = "clear"
	ConditionClouds  Condition = "clouds"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionMist    Condition = "mist"
)

// Record is the normalized current weather for a city. It is persisted only
// as an opaque JSON snapshot.
type Record struct {
	City         string    `json:"city"`
	Country      string    `json:"country"`
	TemperatureC float64   `json:"temp"`
	HumidityPct  float64   `json:"humidity"`
	WindSpeed    float64   `json:"wind"` // metres per second
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Condition    Condition `json:"condition"`
}

// IconURL points at the provider's rendering of Icon.
func (r Record) IconURL() string {
	if r.Icon == "" {
		return ""
	}
	return "https://openweathermap.org/img/wn/" + r.Icon + "@2x.png"
}

// ConditionFor derives a Condition from the provider's main group, falling
// back to keywords in the free-text description.
func ConditionFor(main, description string) Condition {
	switch main {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionClouds
	case "Rain", "Drizzle", "Thunderstorm":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Mist", "Haze", "Fog", "Smoke", "Dust", "Sand":
		return ConditionMist
	}

	s := strings.ToLower(description)
	switch {
	case s == "":
		return ConditionDefault
	case common.HasAny(s, "clear", "sun"):
		return ConditionClear
	case common.HasAny(s, "cloud"):
		return ConditionClouds
	case common.HasAny(s, "rain", "drizzle", "thunder"):
		return ConditionRain
	case common.HasAny(s, "snow", "sleet"):
		return ConditionSnow
	case common.HasAny(s, "mist", "haze", "fog"):
		return ConditionMist
	default:
		return ConditionDefault
	}
}
