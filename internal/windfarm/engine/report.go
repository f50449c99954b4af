package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const paybackBeyondLifetime = "> Project Lifetime"

// PaybackLabel renders a payback period for display, never as an infinity literal.
func PaybackLabel(p Payback) string {
	years, ok := p.Years()
	if !ok {
		return paybackBeyondLifetime
	}
	return message.NewPrinter(language.English).Sprintf("%.1f years", years)
}

type CostBreakdown struct {
	Investment      float64 `json:"investment"`
	LifetimeOMCost  float64 `json:"lifetimeOmCost"`
	InvestmentShare float64 `json:"investmentShare"` // percent
	OMShare         float64 `json:"omShare"`         // percent
}

// Costs splits lifetime spending between the up-front investment and O&M.
func (r ProjectionResult) Costs() CostBreakdown {
	cb := CostBreakdown{
		Investment:     r.TotalInvestment,
		LifetimeOMCost: r.TotalOMCost,
	}
	total := r.TotalInvestment + r.TotalOMCost
	if total > 0 {
		cb.InvestmentShare = r.TotalInvestment / total * 100
		cb.OMShare = r.TotalOMCost / total * 100
	}
	return cb
}

// Summary holds display strings for KPI cards.
type Summary struct {
	CapacityFactor   string `json:"capacityFactor"`
	AnnualGeneration string `json:"annualGeneration"`
	TotalInvestment  string `json:"totalInvestment"`
	AnnualRevenue    string `json:"annualRevenue"`
	NetProfit        string `json:"netProfit"`
	ROI              string `json:"roi"`
	Payback          string `json:"payback"`
}

func (r ProjectionResult) Summary() Summary {
	p := message.NewPrinter(language.English)
	return Summary{
		CapacityFactor:   p.Sprintf("%.1f%%", r.CapacityFactor*100),
		AnnualGeneration: p.Sprintf("%.0f MWh", r.AnnualGenerationMWh),
		TotalInvestment:  p.Sprintf("₹ %.0f", r.TotalInvestment),
		AnnualRevenue:    p.Sprintf("₹ %.0f", r.AnnualRevenue),
		NetProfit:        p.Sprintf("₹ %.0f", r.NetProfit),
		ROI:              p.Sprintf("%.1f%%", r.ROI),
		Payback:          PaybackLabel(r.Payback),
	}
}
