package engine

import "math"

// vec2 captures a continuous 2D vector during behavior evaluation.
type vec2 struct {
	X float64
	Y float64
}

func (v vec2) length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v vec2) dot(o vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// normalize scales v to unit length. ok is false when the magnitude is too
// small for a direction to be well-defined.
func normalize(v vec2) (vec2, bool) {
	length := v.length()
	if length < magnitudeEpsilon {
		return vec2{}, false
	}
	return vec2{X: v.X / length, Y: v.Y / length}, true
}

// quantize collapses a continuous vector onto its dominant axis, producing a
// single-axis ternary value. Ties favor X: Y wins only when strictly larger.
func quantize(v vec2) Axes {
	if math.Abs(v.X) >= math.Abs(v.Y) {
		return Axes{X: sign(v.X)}
	}
	return Axes{Y: sign(v.Y)}
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}
