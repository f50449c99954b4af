// Package engine computes straight-line techno-economic projections for a wind project.
//
// All functions are pure: no I/O, no shared mutable state. Identical inputs give
// bit-identical outputs, so results may be computed concurrently or cached freely.
package engine

import (
	"wind-workers/internal/windfarm/catalog"
)

const (
	DefaultLifetimeYears        = 15
	DefaultCapacityMW           = 2.5
	DefaultTurbineCostLakhPerMW = 700
	DefaultOMCostLakhPerMWYear  = 30
	DefaultTariffPerKWh         = 5.2
)

// DefaultParameters seeds a parameter set from a district baseline.
func DefaultParameters(d catalog.DistrictProfile) ProjectParameters {
	return ProjectParameters{
		LifetimeYears:        DefaultLifetimeYears,
		CapacityMW:           DefaultCapacityMW,
		AvgWindSpeed:         d.AvgWindSpeed,
		Turbulence:           d.Turbulence,
		TurbineCostLakhPerMW: DefaultTurbineCostLakhPerMW,
		OMCostLakhPerMWYear:  DefaultOMCostLakhPerMWYear,
		TariffPerKWh:         DefaultTariffPerKWh,
	}
}

// Compute projects p with the empirical capacity factor formula.
func Compute(p ProjectParameters) (ProjectionResult, error) {
	return ComputeWith(FormulaEmpirical, p)
}

// ComputeWith projects p using the given capacity factor formula.
//
// Only a non-positive lifetime, a non-finite input or a result that overflows float64 is
// rejected; documented bounds are the caller's responsibility (see Validate).
func ComputeWith(formula Formula, p ProjectParameters) (ProjectionResult, error) {
	if p.LifetimeYears <= 0 {
		return ProjectionResult{}, &InvalidParameterError{
			Field: "lifetimeYears", Value: float64(p.LifetimeYears), Reason: "must be at least 1 year",
		}
	}
	if !finite(p.CapacityMW, p.AvgWindSpeed, p.Turbulence, p.TurbineCostLakhPerMW, p.OMCostLakhPerMWYear, p.TariffPerKWh) {
		return ProjectionResult{}, &InvalidParameterError{Field: "parameters", Reason: "non-finite input"}
	}
	if formula == "" {
		formula = FormulaEmpirical
	}

	cf := CapacityFactor(formula, p.AvgWindSpeed, p.Turbulence)
	generation := p.CapacityMW * HoursPerYear * cf
	revenue := generation * p.TariffPerKWh * KWhPerMWh
	investment := p.CapacityMW * p.TurbineCostLakhPerMW * Lakh
	om := p.CapacityMW * p.OMCostLakhPerMWYear * Lakh
	cashFlow := revenue - om

	years := float64(p.LifetimeYears)
	totalRevenue := revenue * years
	totalOM := om * years
	netProfit := totalRevenue - investment - totalOM

	roi := 0.0
	if investment > 0 {
		roi = (netProfit / investment) * 100
	}

	payback := Unbounded
	if cashFlow > 0 {
		payback = PaybackYears(investment / cashFlow)
	}

	if !finite(generation, revenue, investment, om, cashFlow, totalRevenue, totalOM, netProfit, roi,
		cashFlow*years-investment) {
		return ProjectionResult{}, &InvalidParameterError{Field: "parameters", Reason: "result overflows"}
	}
	if py, ok := payback.Years(); ok && !finite(py) {
		payback = Unbounded
	}

	res := ProjectionResult{
		Formula:              formula,
		LifetimeYears:        p.LifetimeYears,
		CapacityFactor:       cf,
		AnnualGenerationMWh:  generation,
		AnnualRevenue:        revenue,
		TotalInvestment:      investment,
		AnnualOMCost:         om,
		AnnualCashFlow:       cashFlow,
		TotalRevenue:         totalRevenue,
		TotalOMCost:          totalOM,
		NetProfit:            netProfit,
		ROI:                  roi,
		Payback:              payback,
		CumulativeGeneration: make([]YearPoint, p.LifetimeYears),
		CumulativeRevenue:    make([]YearPoint, p.LifetimeYears),
		CumulativeCashFlow:   make([]YearPoint, p.LifetimeYears),
	}
	for i := 0; i < p.LifetimeYears; i++ {
		y := i + 1
		fy := float64(y)
		res.CumulativeGeneration[i] = YearPoint{Year: y, Value: generation * fy}
		res.CumulativeRevenue[i] = YearPoint{Year: y, Value: revenue * fy}
		res.CumulativeCashFlow[i] = YearPoint{Year: y, Value: cashFlow*fy - investment}
	}
	return res, nil
}

// BreakEvenYear is the first year whose cumulative net cash flow is non-negative, or 0
// when the project does not break even within its lifetime.
func (r ProjectionResult) BreakEvenYear() int {
	for _, pt := range r.CumulativeCashFlow {
		if pt.Value >= 0 {
			return pt.Year
		}
	}
	return 0
}
