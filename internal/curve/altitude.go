package curve

import "math"

// Factors is the output triple of a scientific altitude model. CCT shapes
// the color temperature ramp, Intensity the device brightness ramp, and
// Raw the unclamped illuminance estimate. All components are in [0,1].
type Factors struct {
	CCT       float64
	Intensity float64
	Raw       float64
}

// altitudeModels maps each scientific curve to its model. The input is the
// ratio of the current solar altitude to the solar-noon altitude, in [0,1].
// Every model is zero at ratio 0 and maximal at ratio 1; the shapes are
// stylistic approximations of daylight, not radiative-transfer physics.
var altitudeModels = map[Type]func(r float64) Factors{
	SunAltitude:   sunAltitudeModel,
	CIEDaylight:   cieDaylightModel,
	PerezDaylight: perezDaylightModel,
	Physics:       physicsModel,
	Blackbody:     blackbodyModel,
	Hazy:          hazyModel,
}

// AltitudeFactors evaluates a scientific curve at the given altitude ratio.
// Unknown or empirical curve types evaluate to the zero triple.
func AltitudeFactors(t Type, ratio float64) Factors {
	fn, ok := altitudeModels[t]
	if !ok {
		return Factors{}
	}
	r := clamp01(ratio)
	if r == 0 {
		return Factors{}
	}
	f := fn(r)
	return Factors{
		CCT:       clamp01(f.CCT),
		Intensity: clamp01(f.Intensity),
		Raw:       clamp01(f.Raw),
	}
}

// sunAltitudeModel tracks the altitude ratio directly, with a sine ease
// on intensity so brightness rises faster than color temperature.
func sunAltitudeModel(r float64) Factors {
	return Factors{
		CCT:       r,
		Intensity: math.Sin(math.Pi / 2 * r),
		Raw:       r,
	}
}

// cieDaylightModel follows the CIE overcast-sky gradation, where luminance
// near the zenith grows as (1+2·sin a)/3.
func cieDaylightModel(r float64) Factors {
	g := math.Pow(math.Sin(math.Pi/2*r), 1.2)
	return Factors{
		CCT:       g,
		Intensity: g,
		Raw:       r * (1 + 2*r) / 3,
	}
}

// perezDaylightModel uses an exponential clearness ramp in the style of
// the Perez all-weather sky model coefficients.
func perezDaylightModel(r float64) Factors {
	f := (1 - math.Exp(-3*r)) / (1 - math.Exp(-3))
	return Factors{
		CCT:       f,
		Intensity: f,
		Raw:       (1 - math.Exp(-4*r)) / (1 - math.Exp(-4)),
	}
}

// physicsModel attenuates by Rayleigh extinction over the relative air
// mass, using the Kasten-Young air mass approximation.
func physicsModel(r float64) Factors {
	alt := r * math.Pi / 2
	altDeg := alt * 180 / math.Pi
	airmass := 1 / (math.Sin(alt) + 0.50572*math.Pow(6.07995+altDeg, -1.6364))
	transmittance := math.Exp(-0.21 * (airmass - 1))
	return Factors{
		CCT:       transmittance,
		Intensity: transmittance,
		Raw:       transmittance * math.Sin(alt),
	}
}

// blackbodyModel warms slowly at low sun: color temperature lags the
// altitude ratio while output falls off faster.
func blackbodyModel(r float64) Factors {
	return Factors{
		CCT:       math.Pow(r, 0.6),
		Intensity: math.Pow(r, 0.9),
		Raw:       math.Pow(r, 1.2),
	}
}

// hazyModel applies a scattering penalty that eases off toward noon
func hazyModel(r float64) Factors {
	return Factors{
		CCT:       r * math.Exp(-0.8*(1-r)),
		Intensity: math.Sin(math.Pi/2*r) * math.Exp(-0.5*(1-r)),
		Raw:       r * math.Exp(-1.2*(1-r)),
	}
}
