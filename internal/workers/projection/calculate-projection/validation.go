package calculateprojection

import (
	"fmt"
	"math"

	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/validation"
	"wind-workers/internal/windfarm/engine"
)

// ProjectAreaBounds is the accepted project area range in sq. km.
var ProjectAreaBounds = engine.Bound{Min: 1, Max: 100}

func boundedNumber(field, description string) validation.Property {
	b := engine.Bounds[field]
	return validation.Property{
		Type:        "number",
		Description: description,
		Minimum:     validation.FloatPtr(b.Min),
		Maximum:     validation.FloatPtr(b.Max),
	}
}

// GetInputSchema returns the boundary schema. Process variables outside the
// listed properties are allowed since Zeebe passes the whole scope.
func GetInputSchema() validation.JSONSchema {
	lifetime := boundedNumber("lifetimeYears", "Project lifetime in years")
	lifetime.Type = "integer"

	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"district": {
				Type:        "string",
				Description: "District whose baseline seeds wind speed and turbulence",
			},
			"formula": {
				Type:        "string",
				Description: "Capacity factor formula",
				Enum:        []string{string(engine.FormulaEmpirical), string(engine.FormulaRatedSpeed)},
			},
			"lifetimeYears":        lifetime,
			"capacityMw":           boundedNumber("capacityMw", "Installed capacity in MW"),
			"avgWindSpeed":         boundedNumber("avgWindSpeed", "Average wind speed in m/s"),
			"turbulence":           boundedNumber("turbulence", "Turbulence intensity in percent"),
			"turbineCostLakhPerMw": boundedNumber("turbineCostLakhPerMw", "Turbine cost in lakh per MW"),
			"omCostLakhPerMwYear":  boundedNumber("omCostLakhPerMwYear", "O&M cost in lakh per MW per year"),
			"tariffPerKwh":         boundedNumber("tariffPerKwh", "Tariff per kWh"),
			"projectAreaSqKm": {
				Type:        "number",
				Description: "Project area in sq. km, echoed back only",
				Minimum:     validation.FloatPtr(ProjectAreaBounds.Min),
				Maximum:     validation.FloatPtr(ProjectAreaBounds.Max),
			},
		},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

func validateProjectArea(area *float64) error {
	if area == nil {
		return nil
	}
	if math.IsNaN(*area) || *area < ProjectAreaBounds.Min || *area > ProjectAreaBounds.Max {
		return errors.NewInvalidParameterError("projectAreaSqKm",
			fmt.Sprintf("%g outside [%g, %g]", *area, ProjectAreaBounds.Min, ProjectAreaBounds.Max))
	}
	return nil
}
