package engine

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParameter = errors.New("INVALID_PARAMETER")

type InvalidParameterError struct {
	Field  string
	Value  float64
	Min    float64
	Max    float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

type Bound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds are the documented input ranges enforced at the request boundary.
var Bounds = map[string]Bound{
	"lifetimeYears":        {Min: 1, Max: 25},
	"capacityMw":           {Min: 0.5, Max: 10.0},
	"avgWindSpeed":         {Min: 3.0, Max: 12.0},
	"turbulence":           {Min: 5.0, Max: 25.0},
	"turbineCostLakhPerMw": {Min: 500, Max: 1000},
	"omCostLakhPerMwYear":  {Min: 10, Max: 50},
	"tariffPerKwh":         {Min: 3.0, Max: 8.0},
}

// Validate checks every parameter against Bounds and reports the first violation
// in declaration order. It never clamps.
func Validate(p ProjectParameters) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"lifetimeYears", float64(p.LifetimeYears)},
		{"capacityMw", p.CapacityMW},
		{"avgWindSpeed", p.AvgWindSpeed},
		{"turbulence", p.Turbulence},
		{"turbineCostLakhPerMw", p.TurbineCostLakhPerMW},
		{"omCostLakhPerMwYear", p.OMCostLakhPerMWYear},
		{"tariffPerKwh", p.TariffPerKWh},
	}
	for _, f := range fields {
		b := Bounds[f.name]
		if math.IsNaN(f.value) || f.value < b.Min || f.value > b.Max {
			return &InvalidParameterError{Field: f.name, Value: f.value, Min: b.Min, Max: b.Max}
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
