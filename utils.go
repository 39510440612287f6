package implicit

import "fmt"

// lenErr fails fast when a batch of positions and its result buffer disagree
// in length.
func lenErr(npos, ndst int) error {
	if npos != ndst {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", npos, ndst)
	}
	return nil
}

// Clamp x between a and b, assume a <= b.
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Mix does a linear interpolation from x to y, a = [0,1].
func Mix(x, y, a float64) float64 {
	return x + (a * (y - x))
}

// Sign returns the sign of x.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
