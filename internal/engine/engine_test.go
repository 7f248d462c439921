package engine

import (
	"math"
	"testing"
	"time"

	"github.com/aleksivirta/daylight-platform/internal/curve"
	"github.com/aleksivirta/daylight-platform/internal/sun"
	"github.com/aleksivirta/daylight-platform/internal/weather"
)

// fakeSun serves fixed sun times and a triangular altitude profile peaking
// at solar noon
type fakeSun struct {
	times   sun.Times
	noon    time.Time
	maxAlt  float64
	halfDay time.Duration
}

func (f *fakeSun) Times(t time.Time, lat, lon float64) sun.Times {
	return f.times
}

func (f *fakeSun) Position(t time.Time, lat, lon float64) sun.Position {
	offset := t.Sub(f.noon)
	if offset < 0 {
		offset = -offset
	}
	alt := f.maxAlt * (1 - float64(offset)/float64(f.halfDay))
	return sun.Position{Altitude: alt}
}

func tp(t time.Time) *time.Time { return &t }

// newFakeDay builds a well-formed day: nightEnd 04:00, sunrise 06:00,
// solar noon 12:00, sunset 18:00, night 20:00 UTC
func newFakeDay() *fakeSun {
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	noon := day.Add(12 * time.Hour)
	return &fakeSun{
		times: sun.Times{
			NightEnd:  tp(day.Add(4 * time.Hour)),
			Sunrise:   tp(day.Add(6 * time.Hour)),
			SolarNoon: tp(noon),
			Sunset:    tp(day.Add(18 * time.Hour)),
			Night:     tp(day.Add(20 * time.Hour)),
		},
		noon:    noon,
		maxAlt:  math.Pi / 2,
		halfDay: 8 * time.Hour,
	}
}

var testBounds = Bounds{MinK: 2000, MaxK: 6500, MinPct: 5, MaxPct: 100}

func TestComputeEmpiricalSolarNoon(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)

	res := e.Compute(60, 25, fake.noon, testBounds, curve.Hann, nil)

	if res.CCT != 6500 {
		t.Errorf("CCT at solar noon = %d, want 6500", res.CCT)
	}
	if res.Intensity != 1000 {
		t.Errorf("Intensity at solar noon = %d, want 1000", res.Intensity)
	}
	if res.LightOutput != LuxScale {
		t.Errorf("LightOutput at solar noon = %d, want %d", res.LightOutput, LuxScale)
	}
}

func TestComputeEmpiricalNightWindow(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)
	want := Result{CCT: 2000, Intensity: 50, LightOutput: 0}

	tests := []struct {
		name string
		ts   time.Time
	}{
		{"at nightEnd", *fake.times.NightEnd},
		{"before nightEnd", fake.times.NightEnd.Add(-2 * time.Hour)},
		{"at night", *fake.times.Night},
		{"after night", fake.times.Night.Add(3 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Compute(60, 25, tt.ts, testBounds, curve.Hann, nil)
			if res != want {
				t.Errorf("Compute = %+v, want minimum-bound result %+v", res, want)
			}
		})
	}
}

func TestComputeEmpiricalMorningProgress(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)

	// Halfway between nightEnd (04:00) and solar noon (12:00) is x=0.25,
	// where hann evaluates to 0.5
	ts := fake.times.NightEnd.Add(4 * time.Hour)
	res := e.Compute(60, 25, ts, testBounds, curve.Hann, nil)

	wantCCT := 2000 + (6500-2000)/2
	if res.CCT != wantCCT {
		t.Errorf("CCT at x=0.25 = %d, want %d", res.CCT, wantCCT)
	}
	wantIntensity := 50 + (1000-50)/2
	if res.Intensity != wantIntensity {
		t.Errorf("Intensity at x=0.25 = %d, want %d", res.Intensity, wantIntensity)
	}
}

func TestComputeEmpiricalFallbackHeuristic(t *testing.T) {
	fake := newFakeDay()
	// Drop twilight data so the day-progress mapping is unavailable
	fake.times.NightEnd = nil
	fake.times.Night = nil
	e := New(fake)

	// Altitude at noon is pi/2, so the heuristic factor is sin(pi/2)=1
	res := e.Compute(60, 25, fake.noon, testBounds, curve.Hann, nil)
	if res.CCT != 6500 || res.Intensity != 1000 {
		t.Errorf("fallback at noon = %+v, want max bounds", res)
	}

	// Below the horizon the fallback goes to the safe minimum
	nightTime := fake.noon.Add(10 * time.Hour)
	res = e.Compute(60, 25, nightTime, testBounds, curve.Hann, nil)
	want := Result{CCT: 2000, Intensity: 50, LightOutput: 0}
	if res != want {
		t.Errorf("fallback below horizon = %+v, want %+v", res, want)
	}
}

func TestComputeScientificNoSolarNoon(t *testing.T) {
	fake := newFakeDay()
	fake.times = sun.Times{} // deep polar night: no events at all
	e := New(fake)

	res := e.Compute(89, 0, fake.noon, testBounds, curve.SunAltitude, nil)
	want := Result{CCT: 2000, Intensity: 50, LightOutput: 0}
	if res != want {
		t.Errorf("Compute without solar noon = %+v, want %+v", res, want)
	}
}

func TestComputeScientificNoon(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)

	res := e.Compute(60, 25, fake.noon, testBounds, curve.SunAltitude, nil)
	if res.CCT != 6500 {
		t.Errorf("CCT at solar noon = %d, want 6500", res.CCT)
	}
	if res.Intensity != 1000 {
		t.Errorf("Intensity at solar noon = %d, want 1000", res.Intensity)
	}
	if res.LightOutput != LuxScale {
		t.Errorf("LightOutput at solar noon = %d, want %d", res.LightOutput, LuxScale)
	}
}

func TestComputeScientificNightWindow(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)
	want := Result{CCT: 2000, Intensity: 50, LightOutput: 0}

	for _, ts := range []time.Time{*fake.times.NightEnd, *fake.times.Night, fake.times.Night.Add(time.Hour)} {
		res := e.Compute(60, 25, ts, testBounds, curve.SunAltitude, nil)
		if res != want {
			t.Errorf("Compute at %s = %+v, want %+v", ts, res, want)
		}
	}
}

func TestComputeScientificSynthesizedWindow(t *testing.T) {
	fake := newFakeDay()
	// Missing twilight forces the synthetic sunrise-30m/sunset+30m window
	fake.times.NightEnd = nil
	fake.times.Night = nil
	e := New(fake)

	want := Result{CCT: 2000, Intensity: 50, LightOutput: 0}
	res := e.Compute(60, 25, fake.times.Sunrise.Add(-30*time.Minute), testBounds, curve.SunAltitude, nil)
	if res != want {
		t.Errorf("Compute at synthetic window start = %+v, want %+v", res, want)
	}

	res = e.Compute(60, 25, fake.noon, testBounds, curve.SunAltitude, nil)
	if res.CCT != 6500 {
		t.Errorf("CCT at noon inside synthetic window = %d, want 6500", res.CCT)
	}
}

func TestComputeBoundsInvariant(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)
	allCurves := []curve.Type{
		curve.Hann, curve.WiderMiddleSmall, curve.WiderMiddleMed, curve.WiderMiddleLarge,
		curve.CIEDaylight, curve.SunAltitude, curve.PerezDaylight,
		curve.Physics, curve.Blackbody, curve.Hazy,
	}

	day := fake.noon.Add(-12 * time.Hour)
	for _, c := range allCurves {
		for minute := 0; minute < 24*60; minute += 17 {
			ts := day.Add(time.Duration(minute) * time.Minute)
			res := e.Compute(60, 25, ts, testBounds, c, nil)

			if res.CCT < 2000 || res.CCT > 6500 {
				t.Fatalf("curve %s at %s: CCT %d out of bounds", c, ts, res.CCT)
			}
			if res.Intensity < 50 || res.Intensity > 1000 {
				t.Fatalf("curve %s at %s: intensity %d out of bounds", c, ts, res.Intensity)
			}
			if res.LightOutput < 0 {
				t.Fatalf("curve %s at %s: negative light output %d", c, ts, res.LightOutput)
			}
		}
	}
}

func TestComputeWeatherApplied(t *testing.T) {
	fake := newFakeDay()
	e := New(fake)
	overcast := &weather.State{CloudCover: 1, Precipitation: weather.None}

	res := e.Compute(60, 25, fake.noon, testBounds, curve.Hann, overcast)

	if res.CCT != 6500 {
		t.Errorf("overcast CCT = %d, want 6500", res.CCT)
	}
	if res.Intensity != 200 {
		t.Errorf("overcast intensity = %d, want 200 (1000 scaled by 0.2)", res.Intensity)
	}
	if res.LightOutput != LuxScale/5 {
		t.Errorf("overcast light output = %d, want %d", res.LightOutput, LuxScale/5)
	}
}

func TestBoundsNormalized(t *testing.T) {
	tests := []struct {
		name     string
		in       Bounds
		expected Bounds
	}{
		{
			name:     "swap inverted kelvin and percent",
			in:       Bounds{MinK: 6500, MaxK: 2000, MinPct: 90, MaxPct: 10},
			expected: Bounds{MinK: 2000, MaxK: 6500, MinPct: 10, MaxPct: 90},
		},
		{
			name:     "clamp out of range",
			in:       Bounds{MinK: 100, MaxK: 50000, MinPct: -5, MaxPct: 150},
			expected: Bounds{MinK: 1000, MaxK: 20000, MinPct: 0, MaxPct: 100},
		},
		{
			name:     "already normal",
			in:       Bounds{MinK: 2700, MaxK: 5600, MinPct: 5, MaxPct: 100},
			expected: Bounds{MinK: 2700, MaxK: 5600, MinPct: 5, MaxPct: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); got != tt.expected {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestBoundsIntensityScale(t *testing.T) {
	b := Bounds{MinK: 2000, MaxK: 6500, MinPct: 5, MaxPct: 100}
	if b.MinIntensity() != 50 {
		t.Errorf("MinIntensity = %d, want 50", b.MinIntensity())
	}
	if b.MaxIntensity() != 1000 {
		t.Errorf("MaxIntensity = %d, want 1000", b.MaxIntensity())
	}
}
