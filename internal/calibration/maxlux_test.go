package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMap(t *testing.T) {
	m, ok := ParseMap("2700:8000, 5600:10000, 6500:9000")
	require.True(t, ok)
	require.Len(t, m, 3)

	assert.Equal(t, Breakpoint{CCT: 2700, MaxLux: 8000}, m[0])
	assert.Equal(t, Breakpoint{CCT: 5600, MaxLux: 10000}, m[1])
	assert.Equal(t, Breakpoint{CCT: 6500, MaxLux: 9000}, m[2])
}

func TestParseMapSortsBreakpoints(t *testing.T) {
	m, ok := ParseMap("6500:9000,2700:8000")
	require.True(t, ok)
	assert.Equal(t, 2700, m[0].CCT)
	assert.Equal(t, 6500, m[1].CCT)
}

func TestParseMapMalformed(t *testing.T) {
	tests := []string{
		"invalid",
		"2700:abc",
		"abc:8000",
		"2700:8000,5600",
		"2700:-10",
		"2700:0",
		"2700:8000,2700:9000", // duplicate breakpoint
		"",
	}

	for _, spec := range tests {
		m, ok := ParseMap(spec)
		assert.False(t, ok, "ParseMap(%q) should fail", spec)
		assert.Nil(t, m, "ParseMap(%q) should yield nil", spec)
	}
}

func TestParseSpecBareScalar(t *testing.T) {
	m, err := ParseSpec("9000")
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Equal(t, 9000.0, m[0].MaxLux)

	// The degenerate map caps every CCT the same way
	assert.Equal(t, 9000.0, m.Interpolate(2000))
	assert.Equal(t, 9000.0, m.Interpolate(10000))
}

func TestParseSpecInvalid(t *testing.T) {
	_, err := ParseSpec("not a map")
	assert.Error(t, err)

	_, err = ParseSpec("-5")
	assert.Error(t, err)
}

func TestInterpolate(t *testing.T) {
	m, ok := ParseMap("2700:8000,5600:10000,6500:9000")
	require.True(t, ok)

	tests := []struct {
		name     string
		cct      float64
		expected float64
	}{
		{"midpoint between breakpoints", 4150, 9000},
		{"clamp low", 2000, 8000},
		{"clamp high", 7000, 9000},
		{"exact breakpoint", 5600, 10000},
		{"exact lowest", 2700, 8000},
		{"descending segment", 6050, 9500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, m.Interpolate(tt.cct), 1e-9)
		})
	}
}

func TestIntensityForLux(t *testing.T) {
	m, ok := ParseMap("2700:8000,5600:10000,6500:9000")
	require.True(t, ok)

	// 4500 lux at a 9000-lux cap is half the rig's range
	assert.Equal(t, 500, m.IntensityForLux(4500, 6500))

	// Unreachable targets saturate instead of overdriving
	assert.Equal(t, 1000, m.IntensityForLux(20000, 6500))

	// No target or no calibration means no drive
	assert.Equal(t, 0, m.IntensityForLux(0, 6500))
	assert.Equal(t, 0, MaxLuxMap(nil).IntensityForLux(4500, 6500))
}
