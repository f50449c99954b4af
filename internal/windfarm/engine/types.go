package engine

import (
	"encoding/json"
	"fmt"
)

const (
	HoursPerYear = 8760.0
	// Lakh scales cost inputs expressed in lakhs (100,000 currency units).
	Lakh = 100000.0
	// KWhPerMWh converts generation to the unit the tariff is quoted in.
	KWhPerMWh = 1000.0
)

// ProjectParameters is the complete input of one projection. Build a fresh value per call.
type ProjectParameters struct {
	LifetimeYears        int     `json:"lifetimeYears"`
	CapacityMW           float64 `json:"capacityMw"`
	AvgWindSpeed         float64 `json:"avgWindSpeed"`         // m/s
	Turbulence           float64 `json:"turbulence"`           // percent, not a fraction
	TurbineCostLakhPerMW float64 `json:"turbineCostLakhPerMw"` // lakh per MW
	OMCostLakhPerMWYear  float64 `json:"omCostLakhPerMwYear"`  // lakh per MW per year
	TariffPerKWh         float64 `json:"tariffPerKwh"`
}

type YearPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Payback is either a finite number of years or unbounded (cash flow never offsets the investment).
type Payback struct {
	years   float64
	bounded bool
}

// Unbounded is the payback of a project whose annual cash flow is not positive.
var Unbounded = Payback{}

func PaybackYears(years float64) Payback {
	return Payback{years: years, bounded: true}
}

func (p Payback) Bounded() bool { return p.bounded }

// Years returns the payback period and false when unbounded.
func (p Payback) Years() (float64, bool) {
	return p.years, p.bounded
}

// Within reports whether the project pays back inside the given horizon.
func (p Payback) Within(lifetimeYears int) bool {
	return p.bounded && p.years <= float64(lifetimeYears)
}

func (p Payback) String() string {
	if !p.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f years", p.years)
}

type paybackJSON struct {
	Years   *float64 `json:"years"`
	Bounded bool     `json:"bounded"`
}

func (p Payback) MarshalJSON() ([]byte, error) {
	out := paybackJSON{Bounded: p.bounded}
	if p.bounded {
		y := p.years
		out.Years = &y
	}
	return json.Marshal(out)
}

func (p *Payback) UnmarshalJSON(data []byte) error {
	var in paybackJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Bounded || in.Years == nil {
		*p = Unbounded
		return nil
	}
	*p = PaybackYears(*in.Years)
	return nil
}

// ProjectionResult is the full output of Compute. It is never mutated after construction.
type ProjectionResult struct {
	Formula              Formula     `json:"formula"`
	LifetimeYears        int         `json:"lifetimeYears"`
	CapacityFactor       float64     `json:"capacityFactor"`
	AnnualGenerationMWh  float64     `json:"annualGenerationMwh"`
	AnnualRevenue        float64     `json:"annualRevenue"`
	TotalInvestment      float64     `json:"totalInvestment"`
	AnnualOMCost         float64     `json:"annualOmCost"`
	AnnualCashFlow       float64     `json:"annualCashFlow"`
	TotalRevenue         float64     `json:"totalRevenue"`
	TotalOMCost          float64     `json:"totalOmCost"`
	NetProfit            float64     `json:"netProfit"`
	ROI                  float64     `json:"roi"` // percent
	Payback              Payback     `json:"payback"`
	CumulativeGeneration []YearPoint `json:"cumulativeGeneration"`
	CumulativeRevenue    []YearPoint `json:"cumulativeRevenue"`
	CumulativeCashFlow   []YearPoint `json:"cumulativeCashFlow"`
}
