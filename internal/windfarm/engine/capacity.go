package engine

import (
	"fmt"
	"math"
)

// Formula selects the capacity factor model.
type Formula string

const (
	// FormulaEmpirical is the default contract: CF = max(0.087*V - TI*0.005, 0).
	FormulaEmpirical Formula = "empirical"
	// FormulaRatedSpeed normalizes to a 12 m/s rated speed:
	// CF = max(0.35 * (V/12) * (1 - (TI-10)/100), 0).
	FormulaRatedSpeed Formula = "rated-speed"
)

func ParseFormula(s string) (Formula, error) {
	switch Formula(s) {
	case "", FormulaEmpirical:
		return FormulaEmpirical, nil
	case FormulaRatedSpeed:
		return FormulaRatedSpeed, nil
	default:
		return "", &InvalidParameterError{Field: "formula", Reason: fmt.Sprintf("unknown formula %q", s)}
	}
}

// CapacityFactor returns the floored capacity factor for a wind speed (m/s) and turbulence (%).
func CapacityFactor(formula Formula, windSpeed, turbulence float64) float64 {
	var cf float64
	switch formula {
	case FormulaRatedSpeed:
		cf = 0.35 * (windSpeed / 12) * (1 - (turbulence-10)/100)
	default:
		cf = 0.087*windSpeed - turbulence*0.005
	}
	return math.Max(cf, 0)
}

type CurvePoint struct {
	WindSpeed      float64 `json:"windSpeed"`
	CapacityFactor float64 `json:"capacityFactor"`
}

// CapacityFactorCurve samples the capacity factor at evenly spaced wind speeds in [from, to].
func CapacityFactorCurve(formula Formula, turbulence, from, to float64, points int) ([]CurvePoint, error) {
	if points < 1 {
		return nil, &InvalidParameterError{Field: "points", Value: float64(points), Min: 1, Reason: "at least one point required"}
	}
	if to < from {
		return nil, &InvalidParameterError{Field: "to", Value: to, Min: from, Reason: "range end before start"}
	}
	if !finite(turbulence, from, to) {
		return nil, &InvalidParameterError{Field: "turbulence", Value: turbulence, Reason: "non-finite input"}
	}

	curve := make([]CurvePoint, points)
	for i := range curve {
		v := from
		if points > 1 {
			v = from + (to-from)*float64(i)/float64(points-1)
		}
		curve[i] = CurvePoint{WindSpeed: v, CapacityFactor: CapacityFactor(formula, v, turbulence)}
	}
	return curve, nil
}
