// Package calibration maps CCT to the maximum illuminance a lighting rig
// can produce, and inverts a lux target into a device intensity.
package calibration

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Breakpoint is one calibration point: the rig's maximum achievable
// illuminance at a given color temperature
type Breakpoint struct {
	CCT    int
	MaxLux float64
}

// MaxLuxMap is a calibration table sorted ascending by CCT breakpoint
// with strictly increasing, unique breakpoints
type MaxLuxMap []Breakpoint

// ParseMap parses a max-lux map spec of the form
// "2700:8000,5600:10000,6500:9000". Whitespace around tokens is ignored.
// Any malformed entry, non-numeric token, non-positive lux value or
// duplicate breakpoint yields (nil, false) rather than an error, so the
// caller can try an alternate interpretation such as a bare scalar.
func ParseMap(spec string) (MaxLuxMap, bool) {
	entries := strings.Split(spec, ",")
	if len(entries) == 0 {
		return nil, false
	}

	m := make(MaxLuxMap, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, ":")
		if !found {
			return nil, false
		}
		cct, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, false
		}
		lux, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || lux <= 0 {
			return nil, false
		}
		if seen[cct] {
			return nil, false
		}
		seen[cct] = true
		m = append(m, Breakpoint{CCT: cct, MaxLux: lux})
	}

	sort.Slice(m, func(i, j int) bool { return m[i].CCT < m[j].CCT })
	return m, true
}

// ParseSpec parses a max-lux spec, accepting either a breakpoint map or a
// bare positive number as a degenerate one-entry map meaning "same cap at
// all CCTs".
func ParseSpec(spec string) (MaxLuxMap, error) {
	if m, ok := ParseMap(spec); ok {
		return m, nil
	}
	if lux, err := strconv.ParseFloat(strings.TrimSpace(spec), 64); err == nil && lux > 0 {
		return MaxLuxMap{{CCT: 6500, MaxLux: lux}}, nil
	}
	return nil, fmt.Errorf("invalid max-lux spec %q (expected \"<kelvin>:<lux>,...\" or a bare positive number)", spec)
}

// Interpolate returns the rig's maximum illuminance at the given CCT.
// Values below the lowest breakpoint clamp to it, values above the
// highest clamp to it, exact breakpoint hits return the calibrated value
// directly, and everything between is piecewise-linear.
func (m MaxLuxMap) Interpolate(cct float64) float64 {
	if len(m) == 0 {
		return 0
	}
	if cct <= float64(m[0].CCT) {
		return m[0].MaxLux
	}
	if cct >= float64(m[len(m)-1].CCT) {
		return m[len(m)-1].MaxLux
	}
	for i := 1; i < len(m); i++ {
		lo, hi := m[i-1], m[i]
		if cct > float64(hi.CCT) {
			continue
		}
		if cct == float64(hi.CCT) {
			return hi.MaxLux
		}
		frac := (cct - float64(lo.CCT)) / float64(hi.CCT-lo.CCT)
		return lo.MaxLux + (hi.MaxLux-lo.MaxLux)*frac
	}
	return m[len(m)-1].MaxLux
}

// IntensityForLux inverts a desired illuminance into a device intensity
// on the 0-1000 scale, given the current CCT. The derived fraction is
// clamped to [0,1] so an unreachable lux target saturates the rig instead
// of overdriving it.
func (m MaxLuxMap) IntensityForLux(targetLux float64, cct int) int {
	maxLux := m.Interpolate(float64(cct))
	if maxLux <= 0 || targetLux <= 0 {
		return 0
	}
	frac := targetLux / maxLux
	if frac > 1 {
		frac = 1
	}
	return int(math.Round(frac * 1000))
}
