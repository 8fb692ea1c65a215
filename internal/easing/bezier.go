package easing

import "math"

const (
	newtonIterations    = 8
	bisectionIterations = 24
	epsilon             = 1e-7
)

// CubicBezier returns a curve through (0,0), (x1,y1), (x2,y2), (1,1),
// evaluated as y for a given x. x1 and x2 must lie in [0,1].
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	if x1 == y1 && x2 == y2 {
		return func(x float64) float64 { return x }
	}
	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		return sampleCurve(y1, y2, solveCurveX(x1, x2, x))
	}
}

// solveCurveX finds the parameter u with x(u) == x.
func solveCurveX(x1, x2, x float64) float64 {
	u := x
	for i := 0; i < newtonIterations; i++ {
		d := sampleCurve(x1, x2, u) - x
		if math.Abs(d) < epsilon && u >= 0 && u <= 1 {
			return u
		}
		slope := sampleCurveDerivative(x1, x2, u)
		if math.Abs(slope) < epsilon {
			break
		}
		u -= d / slope
	}

	lo, hi := 0.0, 1.0
	u = clamp01(u)
	for i := 0; i < bisectionIterations; i++ {
		d := sampleCurve(x1, x2, u) - x
		if math.Abs(d) < epsilon {
			break
		}
		if d > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}
	return u
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
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
