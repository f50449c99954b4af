// internal/workers/projection/capacity-factor-curve/models.go
package capacityfactorcurve

import "wind-workers/internal/windfarm/engine"

const (
	DefaultFromSpeed = 3.0
	DefaultToSpeed   = 12.0
	DefaultPoints    = 10
)

type Input struct {
	District   string   `json:"district"`
	Formula    string   `json:"formula"`
	Turbulence *float64 `json:"turbulence"`
	FromSpeed  *float64 `json:"fromSpeed"`
	ToSpeed    *float64 `json:"toSpeed"`
	Points     int      `json:"points"`
}

type Output struct {
	Formula    engine.Formula      `json:"formula"`
	Turbulence float64             `json:"turbulence"`
	Curve      []engine.CurvePoint `json:"curve"`
}
