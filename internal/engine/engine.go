// Package engine computes a target color temperature, intensity and
// estimated light output for a location and instant, shaped by a selected
// daylight curve and optionally adjusted for live weather. The engine
// never fails on astronomically unusual input: whenever sun data is
// partial or degenerate it degrades toward the configured minimum bounds,
// because the visible failure mode of a lighting controller must be the
// safe default, never a crash.
package engine

import (
	"math"
	"time"

	"github.com/aleksivirta/daylight-platform/internal/curve"
	"github.com/aleksivirta/daylight-platform/internal/sun"
	"github.com/aleksivirta/daylight-platform/internal/weather"
)

// LuxScale converts a raw intensity factor into estimated lux. It is the
// bright-daylight illuminance the factor 1.0 corresponds to, commensurate
// with typical rig max-lux calibration values.
const LuxScale = 10000

// synthNightPad pads sunrise/sunset into a synthetic night window when
// astronomical twilight data is missing at high latitude
const synthNightPad = 30 * time.Minute

// Result is one computed daylight target. CCT is integer Kelvin,
// Intensity is tenths of a percent in [0,1000], LightOutput is estimated
// lux. Results are immutable values and never persisted by the engine.
type Result struct {
	CCT         int `json:"cct"`
	Intensity   int `json:"intensity"`
	LightOutput int `json:"light_output"`
}

// Bounds constrains computed CCT and intensity
type Bounds struct {
	MinK   int
	MaxK   int
	MinPct int
	MaxPct int
}

// Normalized returns bounds clamped to the supported ranges with
// min <= max enforced by swapping
func (b Bounds) Normalized() Bounds {
	b.MinK = clampInt(b.MinK, 1000, 20000)
	b.MaxK = clampInt(b.MaxK, 1000, 20000)
	if b.MinK > b.MaxK {
		b.MinK, b.MaxK = b.MaxK, b.MinK
	}
	b.MinPct = clampInt(b.MinPct, 0, 100)
	b.MaxPct = clampInt(b.MaxPct, 0, 100)
	if b.MinPct > b.MaxPct {
		b.MinPct, b.MaxPct = b.MaxPct, b.MinPct
	}
	return b
}

// MinIntensity returns the lower intensity bound on the 0-1000 scale
func (b Bounds) MinIntensity() int { return b.MinPct * 10 }

// MaxIntensity returns the upper intensity bound on the 0-1000 scale
func (b Bounds) MaxIntensity() int { return b.MaxPct * 10 }

// Engine computes daylight targets using a sun position provider
type Engine struct {
	sun sun.Provider
}

// New creates an engine backed by the given sun provider
func New(provider sun.Provider) *Engine {
	return &Engine{sun: provider}
}

// Compute evaluates the daylight target for a location at an instant.
// Scientific-family curves are anchored to the solar-altitude ratio,
// empirical curves to the elapsed fraction of the light window. When
// weather is non-nil the result is passed through the weather adjustment.
func (e *Engine) Compute(lat, lon float64, ts time.Time, bounds Bounds, c curve.Type, w *weather.State) Result {
	b := bounds.Normalized()
	times := e.sun.Times(ts, lat, lon)

	var res Result
	if c.Family() == curve.Scientific {
		res = e.computeScientific(lat, lon, ts, b, c, times)
	} else {
		res = e.computeEmpirical(lat, lon, ts, b, c, times)
	}

	if w != nil {
		res.CCT, res.Intensity, res.LightOutput = weather.Adjust(res.CCT, res.Intensity, res.LightOutput, *w)
	}
	return res
}

// minResult is the safe default: warmest allowed color, dimmest allowed
// intensity, no estimated daylight.
func minResult(b Bounds) Result {
	return Result{CCT: b.MinK, Intensity: b.MinIntensity(), LightOutput: 0}
}

func (e *Engine) computeScientific(lat, lon float64, ts time.Time, b Bounds, c curve.Type, times sun.Times) Result {
	// No daily altitude extremum to normalize against (deep polar night)
	if times.SolarNoon == nil {
		return minResult(b)
	}

	if times.Sunrise != nil && times.Sunset != nil {
		start, end := nightWindow(times)
		if !ts.After(start) || !ts.Before(end) {
			return minResult(b)
		}
	}

	alt := e.sun.Position(ts, lat, lon).Altitude
	noonAlt := e.sun.Position(*times.SolarNoon, lat, lon).Altitude
	if alt <= 0 || noonAlt <= 0 {
		return minResult(b)
	}

	f := curve.AltitudeFactors(c, alt/noonAlt)
	return Result{
		CCT:         lerpRound(b.MinK, b.MaxK, f.CCT),
		Intensity:   lerpRound(b.MinIntensity(), b.MaxIntensity(), f.Intensity),
		LightOutput: round(f.Raw * LuxScale),
	}
}

// nightWindow returns the bounds of the dark period. Astronomical twilight
// is preferred; when it is unavailable a window is synthesized around
// sunrise and sunset.
func nightWindow(times sun.Times) (time.Time, time.Time) {
	if times.NightEnd != nil && times.Night != nil {
		return *times.NightEnd, *times.Night
	}
	return times.Sunrise.Add(-synthNightPad), times.Sunset.Add(synthNightPad)
}

func (e *Engine) computeEmpirical(lat, lon float64, ts time.Time, b Bounds, c curve.Type, times sun.Times) Result {
	if !empiricalDataComplete(times) {
		// Fall back to a pure altitude heuristic when sun-time data is
		// incomplete; essential for high-latitude correctness.
		alt := e.sun.Position(ts, lat, lon).Altitude
		if alt <= 0 {
			return minResult(b)
		}
		f := math.Sin(alt)
		return Result{
			CCT:         lerpRound(b.MinK, b.MaxK, f),
			Intensity:   lerpRound(b.MinIntensity(), b.MaxIntensity(), f),
			LightOutput: round(f * LuxScale),
		}
	}

	if !ts.After(*times.NightEnd) || !ts.Before(*times.Night) {
		return minResult(b)
	}

	// Map the timestamp onto day progress: morning half covers astronomical
	// dawn to solar noon, afternoon half covers solar noon to dusk.
	var x float64
	if !ts.After(*times.SolarNoon) {
		span := times.SolarNoon.Sub(*times.NightEnd)
		x = 0.5 * float64(ts.Sub(*times.NightEnd)) / float64(span)
	} else {
		span := times.Night.Sub(*times.SolarNoon)
		x = 0.5 + 0.5*float64(ts.Sub(*times.SolarNoon))/float64(span)
	}

	f := curve.Evaluate(c, x)
	daylight := math.Max(0, math.Sin(e.sun.Position(ts, lat, lon).Altitude))
	return Result{
		CCT:         lerpRound(b.MinK, b.MaxK, f),
		Intensity:   lerpRound(b.MinIntensity(), b.MaxIntensity(), f),
		LightOutput: round(f * LuxScale * daylight),
	}
}

// empiricalDataComplete reports whether the day has the full, consistent
// set of sun times the day-progress mapping needs
func empiricalDataComplete(times sun.Times) bool {
	if times.Sunrise == nil || times.Sunset == nil || times.SolarNoon == nil ||
		times.NightEnd == nil || times.Night == nil {
		return false
	}
	return times.Sunset.After(*times.Sunrise) &&
		times.Sunrise.Before(*times.SolarNoon) &&
		times.SolarNoon.Before(*times.Sunset)
}

func lerpRound(min, max int, f float64) int {
	return round(float64(min) + float64(max-min)*f)
}

func round(x float64) int {
	return int(math.Round(x))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
