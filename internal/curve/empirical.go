package curve

import "math"

// empiricalCurves maps each empirical curve to its evaluator. All
// evaluators take a day-progress fraction in [0,1] and return a daylight
// factor in [0,1] that is zero at both ends of the domain.
var empiricalCurves = map[Type]func(x float64) float64{
	Hann:             hann,
	WiderMiddleSmall: widerMiddle(0.30),
	WiderMiddleMed:   widerMiddle(0.60),
	WiderMiddleLarge: widerMiddle(0.80),
}

// Evaluate computes the daylight factor for an empirical curve at
// day-progress fraction x. Unknown or scientific curve types evaluate
// to 0, the safe minimum.
func Evaluate(t Type, x float64) float64 {
	fn, ok := empiricalCurves[t]
	if !ok {
		return 0
	}
	return clamp01(fn(clamp01(x)))
}

// hann is a smooth bell: zero at both ends, peak 1 at x=0.5
func hann(x float64) float64 {
	return 0.5 * (1 - math.Cos(2*math.Pi*x))
}

// widerMiddle builds a trapezoid with a flat plateau of the given width
// centered at 0.5 and quarter-sine ramps up to the plateau edges.
func widerMiddle(width float64) func(x float64) float64 {
	lo := 0.5 - width/2
	hi := 0.5 + width/2
	return func(x float64) float64 {
		switch {
		case x <= 0 || x >= 1:
			return 0
		case x < lo:
			return math.Sin(math.Pi / 2 * x / lo)
		case x > hi:
			return math.Sin(math.Pi / 2 * (1 - x) / (1 - hi))
		default:
			return 1
		}
	}
}
