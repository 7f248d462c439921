// Package weather defines the live-weather input contract and the
// post-adjustment applied to computed daylight targets. Fetching weather
// is an external concern; this package only consumes the resulting state.
package weather

import "math"

// Precipitation is the observed precipitation kind
type Precipitation string

const (
	None    Precipitation = "none"
	Rain    Precipitation = "rain"
	Snow    Precipitation = "snow"
	Drizzle Precipitation = "drizzle"
)

// ParsePrecipitation maps a reported precipitation label to a known kind.
// Unknown labels read as none so a misbehaving feed cannot dim the lights.
func ParsePrecipitation(s string) Precipitation {
	switch Precipitation(s) {
	case Rain, Snow, Drizzle:
		return Precipitation(s)
	default:
		return None
	}
}

// State is the current weather relevant to daylight adjustment
type State struct {
	CloudCover    float64       `json:"cloud_cover"`
	Precipitation Precipitation `json:"precipitation"`
}

// Adjust applies cloud cover and precipitation to a computed CCT,
// intensity and light-output triple. Cloud adjustment comes first, then
// precipitation; the two compose multiplicatively on intensity and
// sequentially on CCT blending. Values are rounded to integers after
// each sub-step to match schedules produced by earlier versions.
func Adjust(cct, intensity, lightOutput int, s State) (int, int, int) {
	cover := clamp01(s.CloudCover)

	// Step 1: cloud scale factor, clear sky 1.0 down to 0.2 at full overcast
	cloudFactor := 1 - cover*0.8
	intensity = round(float64(intensity) * cloudFactor)
	lightOutput = round(float64(lightOutput) * cloudFactor)

	// Step 2: neutralize CCT toward 6500K proportional to cloud cover
	cct = round(float64(cct)*(1-cover) + 6500*cover)

	// Step 3: precipitation, each kind with its own multiplier and blend target
	switch s.Precipitation {
	case Rain:
		intensity = round(float64(intensity) * 0.8)
		lightOutput = round(float64(lightOutput) * 0.8)
		cct = round(float64(cct)*0.9 + 7000*0.1)
	case Snow:
		intensity = round(float64(intensity) * 0.9)
		lightOutput = round(float64(lightOutput) * 0.9)
		cct = round(float64(cct)*0.8 + 8000*0.2)
	case Drizzle:
		intensity = round(float64(intensity) * 0.9)
		lightOutput = round(float64(lightOutput) * 0.9)
	}

	return cct, intensity, lightOutput
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func round(x float64) int {
	return int(math.Round(x))
}
