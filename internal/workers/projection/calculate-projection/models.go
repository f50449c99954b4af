package calculateprojection

import "wind-workers/internal/windfarm/engine"

// Input names a district to seed defaults from, plus optional overrides for every
// engine parameter. Numbers are decoded as float64 and checked by the schema first.
type Input struct {
	District             string   `json:"district"`
	Formula              string   `json:"formula"`
	LifetimeYears        *float64 `json:"lifetimeYears"`
	CapacityMW           *float64 `json:"capacityMw"`
	AvgWindSpeed         *float64 `json:"avgWindSpeed"`
	Turbulence           *float64 `json:"turbulence"`
	TurbineCostLakhPerMW *float64 `json:"turbineCostLakhPerMw"`
	OMCostLakhPerMWYear  *float64 `json:"omCostLakhPerMwYear"`
	TariffPerKWh         *float64 `json:"tariffPerKwh"`
	ProjectAreaSqKm      *float64 `json:"projectAreaSqKm"`
}

type Output struct {
	District              string                   `json:"district"`
	Parameters            engine.ProjectParameters `json:"parameters"`
	Projection            engine.ProjectionResult  `json:"projection"`
	Summary               engine.Summary           `json:"summary"`
	Costs                 engine.CostBreakdown     `json:"costs"`
	BreakEvenYear         int                      `json:"breakEvenYear"`
	PaybackWithinLifetime bool                     `json:"paybackWithinLifetime"`
	ProjectAreaSqKm       *float64                 `json:"projectAreaSqKm,omitempty"`
	CacheHit              bool                     `json:"cacheHit"`
}
