package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustClearSkyIsIdentity(t *testing.T) {
	cct, intensity, light := Adjust(4500, 800, 6000, State{CloudCover: 0, Precipitation: None})

	assert.Equal(t, 4500, cct)
	assert.Equal(t, 800, intensity)
	assert.Equal(t, 6000, light)
}

func TestAdjustFullOvercast(t *testing.T) {
	cct, intensity, light := Adjust(4000, 1000, 10000, State{CloudCover: 1, Precipitation: None})

	// Full overcast scales output to 0.2 and neutralizes CCT completely
	assert.Equal(t, 6500, cct)
	assert.Equal(t, 200, intensity)
	assert.Equal(t, 2000, light)
}

func TestAdjustCloudCoverClamped(t *testing.T) {
	cct, intensity, light := Adjust(4000, 1000, 10000, State{CloudCover: 1.7, Precipitation: None})

	assert.Equal(t, 6500, cct)
	assert.Equal(t, 200, intensity)
	assert.Equal(t, 2000, light)
}

func TestAdjustRainAfterClouds(t *testing.T) {
	// Half cover: factor 0.6, CCT blended halfway toward 6500.
	// Then rain: x0.8 on output, 90/10 blend toward 7000.
	cct, intensity, light := Adjust(4000, 600, 5000, State{CloudCover: 0.5, Precipitation: Rain})

	assert.Equal(t, 5425, cct)    // (4000*0.5+6500*0.5)=5250, then 5250*0.9+700
	assert.Equal(t, 288, intensity) // 600*0.6=360, then 360*0.8
	assert.Equal(t, 2400, light)    // 5000*0.6=3000, then 3000*0.8
}

func TestAdjustSnow(t *testing.T) {
	cct, intensity, light := Adjust(4000, 1000, 10000, State{CloudCover: 0, Precipitation: Snow})

	assert.Equal(t, 4800, cct) // 4000*0.8 + 8000*0.2
	assert.Equal(t, 900, intensity)
	assert.Equal(t, 9000, light)
}

func TestAdjustDrizzleKeepsCCT(t *testing.T) {
	cct, intensity, light := Adjust(3000, 500, 4000, State{CloudCover: 0, Precipitation: Drizzle})

	assert.Equal(t, 3000, cct)
	assert.Equal(t, 450, intensity)
	assert.Equal(t, 3600, light)
}

func TestParsePrecipitation(t *testing.T) {
	tests := []struct {
		input    string
		expected Precipitation
	}{
		{"rain", Rain},
		{"snow", Snow},
		{"drizzle", Drizzle},
		{"none", None},
		{"", None},
		{"hail", None},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParsePrecipitation(tt.input), "input %q", tt.input)
	}
}
