package names

import (
	"fmt"
	"math"
)

// Curve maps complexity to a sampling temperature.
type Curve string

const (
	CurveStepped Curve = "stepped"
	CurveSigmoid Curve = "sigmoid"
)

// ParseCurve accepts "stepped" or "sigmoid"; empty means stepped.
func ParseCurve(s string) (Curve, error) {
	switch Curve(s) {
	case "", CurveStepped:
		return CurveStepped, nil
	case CurveSigmoid:
		return CurveSigmoid, nil
	default:
		return "", fmt.Errorf("unknown creativity curve %q", s)
	}
}

var steppedTemperatures = []struct {
	upTo float64
	temp float64
}{
	{2, 0.3},
	{4, 0.5},
	{6, 0.7},
	{8, 0.9},
	{MaxComplexity, 1.1},
}

// Temperature returns the creativity value for complexity c.
func (cv Curve) Temperature(c float64) float64 {
	c = clampComplexity(c)
	if cv == CurveSigmoid {
		return 0.2 + 1.0/(1+math.Exp(-0.8*(c-5.5)))
	}
	for _, step := range steppedTemperatures {
		if c <= step.upTo {
			return step.temp
		}
	}
	return steppedTemperatures[len(steppedTemperatures)-1].temp
}

// TopP returns the nucleus sampling value for complexity c, 0.8 at the
// lowest complexity and 0.95 at the highest.
func TopP(c float64) float64 {
	c = clampComplexity(c)
	return 0.8 + 0.15*(c-MinComplexity)/(MaxComplexity-MinComplexity)
}

func clampComplexity(c float64) float64 {
	if math.IsNaN(c) {
		return DefaultComplexity
	}
	return math.Max(MinComplexity, math.Min(MaxComplexity, c))
}
