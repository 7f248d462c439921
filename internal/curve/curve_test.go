package curve

import (
	"math"
	"strings"
	"testing"
)

func TestHannShape(t *testing.T) {
	tests := []struct {
		x        float64
		expected float64
	}{
		{0, 0},
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 0.5},
		{1, 0},
	}

	for _, tt := range tests {
		result := Evaluate(Hann, tt.x)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("Evaluate(Hann, %.2f) = %f, want %f", tt.x, result, tt.expected)
		}
	}
}

func TestWiderMiddlePlateaus(t *testing.T) {
	tests := []struct {
		name    string
		curve   Type
		plateau float64
	}{
		{"small", WiderMiddleSmall, 0.30},
		{"medium", WiderMiddleMed, 0.60},
		{"large", WiderMiddleLarge, 0.80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo := 0.5 - tt.plateau/2
			hi := 0.5 + tt.plateau/2

			// Flat at 1 across the plateau
			for _, x := range []float64{lo, 0.5, hi} {
				if f := Evaluate(tt.curve, x); f != 1 {
					t.Errorf("Evaluate(%s, %.3f) = %f, want 1 (plateau)", tt.curve, x, f)
				}
			}

			// Zero at the ends, partial on the ramps
			if f := Evaluate(tt.curve, 0); f != 0 {
				t.Errorf("Evaluate(%s, 0) = %f, want 0", tt.curve, f)
			}
			if f := Evaluate(tt.curve, 1); f != 0 {
				t.Errorf("Evaluate(%s, 1) = %f, want 0", tt.curve, f)
			}
			mid := lo / 2
			if f := Evaluate(tt.curve, mid); f <= 0 || f >= 1 {
				t.Errorf("Evaluate(%s, %.3f) = %f, want ramp value in (0,1)", tt.curve, mid, f)
			}
		})
	}
}

func TestWiderMiddleRampValue(t *testing.T) {
	// Medium plateau starts at 0.2, so x=0.1 is halfway up the quarter-sine ramp
	expected := math.Sin(math.Pi / 4)
	if f := Evaluate(WiderMiddleMed, 0.1); math.Abs(f-expected) > 1e-9 {
		t.Errorf("Evaluate(widerMiddleMedium, 0.1) = %f, want %f", f, expected)
	}
}

func TestEvaluateRange(t *testing.T) {
	for curveType := range empiricalCurves {
		for x := 0.0; x <= 1.0; x += 0.01 {
			f := Evaluate(curveType, x)
			if f < 0 || f > 1 {
				t.Fatalf("Evaluate(%s, %.2f) = %f, out of [0,1]", curveType, x, f)
			}
		}
		if f := Evaluate(curveType, 0); f != 0 {
			t.Errorf("Evaluate(%s, 0) = %f, want 0", curveType, f)
		}
		if f := Evaluate(curveType, 1); f != 0 {
			t.Errorf("Evaluate(%s, 1) = %f, want 0", curveType, f)
		}
	}
}

func TestAltitudeFactorsZeroAtHorizon(t *testing.T) {
	for curveType := range altitudeModels {
		f := AltitudeFactors(curveType, 0)
		if f.CCT != 0 || f.Intensity != 0 || f.Raw != 0 {
			t.Errorf("AltitudeFactors(%s, 0) = %+v, want zero triple", curveType, f)
		}
	}
}

func TestAltitudeFactorsMaxAtNoon(t *testing.T) {
	for curveType := range altitudeModels {
		f := AltitudeFactors(curveType, 1)
		if f.CCT < 0.99 || f.Intensity < 0.99 || f.Raw < 0.99 {
			t.Errorf("AltitudeFactors(%s, 1) = %+v, want all components near 1", curveType, f)
		}
	}
}

func TestAltitudeFactorsMonotone(t *testing.T) {
	for curveType := range altitudeModels {
		prev := AltitudeFactors(curveType, 0)
		for r := 0.05; r <= 1.0; r += 0.05 {
			f := AltitudeFactors(curveType, r)
			if f.CCT < prev.CCT || f.Intensity < prev.Intensity || f.Raw < prev.Raw {
				t.Errorf("AltitudeFactors(%s, %.2f) decreased: %+v after %+v", curveType, r, f, prev)
			}
			if f.CCT < 0 || f.CCT > 1 || f.Intensity < 0 || f.Intensity > 1 || f.Raw < 0 || f.Raw > 1 {
				t.Fatalf("AltitudeFactors(%s, %.2f) = %+v, out of [0,1]", curveType, r, f)
			}
			prev = f
		}
	}
}

func TestParseValidNames(t *testing.T) {
	for _, name := range Names() {
		parsed, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", name, err)
		}
		if string(parsed) != name {
			t.Errorf("Parse(%q) = %q", name, string(parsed))
		}
	}
}

func TestParseInvalidName(t *testing.T) {
	_, err := Parse("sine")
	if err == nil {
		t.Fatal("Parse(\"sine\") should fail")
	}
	// The error should enumerate the valid names
	for _, name := range []string{"hann", "cieDaylight", "widerMiddleLarge"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should mention %q", err.Error(), name)
		}
	}
}

func TestParseAll(t *testing.T) {
	types, err := ParseAll([]string{"hann", "sunAltitude"})
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	if len(types) != 2 || types[0] != Hann || types[1] != SunAltitude {
		t.Errorf("ParseAll = %v", types)
	}

	if _, err := ParseAll([]string{"hann", "bogus"}); err == nil {
		t.Error("ParseAll with an unknown name should fail")
	}
}

func TestFamilies(t *testing.T) {
	tests := []struct {
		curve    Type
		expected Family
	}{
		{Hann, Empirical},
		{WiderMiddleSmall, Empirical},
		{WiderMiddleMed, Empirical},
		{WiderMiddleLarge, Empirical},
		{CIEDaylight, Scientific},
		{SunAltitude, Scientific},
		{PerezDaylight, Scientific},
		{Physics, Scientific},
		{Blackbody, Scientific},
		{Hazy, Scientific},
	}

	for _, tt := range tests {
		if got := tt.curve.Family(); got != tt.expected {
			t.Errorf("%s.Family() = %v, want %v", tt.curve, got, tt.expected)
		}
	}
}
