package formulation

import "math"

// Degrade paths for malformed numeric input. Each policy is total: it
// never fails, it picks a value.

// NumberOrZero turns an absent or non-finite cell number into zero.
func NumberOrZero(v float64, ok bool) float64 {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Thickness clamps a layer thickness to a usable non-negative value.
func Thickness(v float64, ok bool) float64 {
	v = NumberOrZero(v, ok)
	if v < 0 {
		return 0
	}
	return v
}

// ThicknessTotal is the sum of the layer thicknesses, else the declared
// total thickness, else 1.
func ThicknessTotal(inner, middle, outer, declared float64) float64 {
	if sum := inner + middle + outer; sum > 0 {
		return sum
	}
	if declared > 0 && !math.IsInf(declared, 0) {
		return declared
	}
	return 1
}

// LayerMass is the share of totalMass carried by a layer of the given
// thickness.
func LayerMass(totalMass, thickness, thicknessTotal float64) float64 {
	if thicknessTotal <= 0 {
		thicknessTotal = 1
	}
	m := totalMass * (thickness / thicknessTotal)
	return NumberOrZero(m, true)
}

// FirstText returns the first non-empty value.
func FirstText(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
