// Package curve holds the daylight curve models used to shape color
// temperature and intensity transitions across a day. Curves come in two
// families: empirical curves map a normalized day-progress fraction to a
// daylight factor, scientific curves map a normalized solar-altitude ratio
// to a factor triple.
package curve

import (
	"fmt"
	"sort"
	"strings"
)

// Type identifies a daylight curve model
type Type string

const (
	Hann             Type = "hann"
	WiderMiddleSmall Type = "widerMiddleSmall"
	WiderMiddleMed   Type = "widerMiddleMedium"
	WiderMiddleLarge Type = "widerMiddleLarge"
	CIEDaylight      Type = "cieDaylight"
	SunAltitude      Type = "sunAltitude"
	PerezDaylight    Type = "perezDaylight"
	Physics          Type = "physics"
	Blackbody        Type = "blackbody"
	Hazy             Type = "hazy"
)

// Family partitions curve types by their input domain
type Family int

const (
	// Empirical curves are driven by the normalized time-of-day fraction
	Empirical Family = iota
	// Scientific curves are driven by the normalized solar-altitude ratio
	Scientific
)

// Family returns the family a curve type belongs to
func (t Type) Family() Family {
	if _, ok := empiricalCurves[t]; ok {
		return Empirical
	}
	return Scientific
}

// Valid reports whether t names a known curve
func (t Type) Valid() bool {
	if _, ok := empiricalCurves[t]; ok {
		return true
	}
	_, ok := altitudeModels[t]
	return ok
}

// Names returns all valid curve names, sorted
func Names() []string {
	names := make([]string, 0, len(empiricalCurves)+len(altitudeModels))
	for t := range empiricalCurves {
		names = append(names, string(t))
	}
	for t := range altitudeModels {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// Parse resolves a curve name to its Type. Unknown names fail with an
// error listing every valid name, so CLI errors are self-describing.
func Parse(name string) (Type, error) {
	t := Type(strings.TrimSpace(name))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid curve %q (valid curves: %s)", name, strings.Join(Names(), ", "))
}

// ParseAll resolves a list of curve names, failing on the first unknown one
func ParseAll(names []string) ([]Type, error) {
	types := make([]Type, 0, len(names))
	for _, name := range names {
		t, err := Parse(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
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
