package engine

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"wind-workers/internal/windfarm/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indoreParams() ProjectParameters {
	return ProjectParameters{
		LifetimeYears:        15,
		CapacityMW:           2.5,
		AvgWindSpeed:         5.7,
		Turbulence:           11.2,
		TurbineCostLakhPerMW: 700,
		OMCostLakhPerMWYear:  30,
		TariffPerKWh:         5.2,
	}
}

func TestCompute_IndoreScenario(t *testing.T) {
	res, err := Compute(indoreParams())
	require.NoError(t, err)

	assert.Equal(t, FormulaEmpirical, res.Formula)
	assert.InDelta(t, 0.4399, res.CapacityFactor, 1e-12)
	// 2.5 * 8760 * 0.4399
	assert.InDelta(t, 9633.81, res.AnnualGenerationMWh, 1e-6)
	assert.InDelta(t, 50095812.0, res.AnnualRevenue, 1e-3)
	assert.Equal(t, 175000000.0, res.TotalInvestment)
	assert.Equal(t, 7500000.0, res.AnnualOMCost)
	assert.InDelta(t, 42595812.0, res.AnnualCashFlow, 1e-3)
	assert.InDelta(t, 751437180.0, res.TotalRevenue, 1e-2)
	assert.InDelta(t, 112500000.0, res.TotalOMCost, 1e-6)
	assert.InDelta(t, 463937180.0, res.NetProfit, 1e-2)
	assert.InDelta(t, 265.1069, res.ROI, 1e-3)

	years, ok := res.Payback.Years()
	require.True(t, ok)
	assert.InDelta(t, 4.1084, years, 1e-3)
	assert.True(t, res.Payback.Within(15))
	assert.Equal(t, 5, res.BreakEvenYear())
}

func TestCompute_Deterministic(t *testing.T) {
	p := indoreParams()
	first, err := Compute(p)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Compute(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, math.Float64bits(first.NetProfit), math.Float64bits(again.NetProfit))
	}
}

func TestCompute_ConcurrentCallsDoNotInterfere(t *testing.T) {
	inputs := make([]ProjectParameters, 0, 20)
	for i := 0; i < 20; i++ {
		p := indoreParams()
		p.LifetimeYears = 1 + i
		p.AvgWindSpeed = 3.0 + float64(i)*0.4
		inputs = append(inputs, p)
	}

	want := make([]ProjectionResult, len(inputs))
	for i, p := range inputs {
		res, err := Compute(p)
		require.NoError(t, err)
		want[i] = res
	}

	var wg sync.WaitGroup
	for round := 0; round < 8; round++ {
		for i, p := range inputs {
			wg.Add(1)
			go func(i int, p ProjectParameters) {
				defer wg.Done()
				got, err := Compute(p)
				assert.NoError(t, err)
				assert.Equal(t, want[i], got)
			}(i, p)
		}
	}
	wg.Wait()
}

func TestCompute_GenerationIdentity(t *testing.T) {
	for _, formula := range []Formula{FormulaEmpirical, FormulaRatedSpeed} {
		for _, capacity := range []float64{0.5, 2.5, 7.25, 10} {
			for _, speed := range []float64{3.0, 5.7, 9.3, 12} {
				p := indoreParams()
				p.CapacityMW = capacity
				p.AvgWindSpeed = speed

				res, err := ComputeWith(formula, p)
				require.NoError(t, err)
				assert.Equal(t, p.CapacityMW*8760*res.CapacityFactor, res.AnnualGenerationMWh)
			}
		}
	}
}

func TestCapacityFactor_NeverNegative(t *testing.T) {
	tests := []struct {
		name       string
		formula    Formula
		speed      float64
		turbulence float64
	}{
		{"empirical within bounds low end", FormulaEmpirical, 3.0, 25.0},
		{"empirical below floor", FormulaEmpirical, 0.5, 25.0},
		{"empirical zero wind", FormulaEmpirical, 0, 5},
		{"rated speed within bounds", FormulaRatedSpeed, 3.0, 25.0},
		{"rated speed extreme turbulence", FormulaRatedSpeed, 8.0, 150.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := CapacityFactor(tt.formula, tt.speed, tt.turbulence)
			assert.GreaterOrEqual(t, cf, 0.0)
		})
	}

	assert.Equal(t, 0.0, CapacityFactor(FormulaEmpirical, 0.5, 25))
	assert.Equal(t, 0.0, CapacityFactor(FormulaRatedSpeed, 8.0, 150))
}

func TestCapacityFactor_Formulas(t *testing.T) {
	assert.InDelta(t, 0.087*5.7-11.2*0.005, CapacityFactor(FormulaEmpirical, 5.7, 11.2), 1e-15)
	assert.InDelta(t, 0.35*(5.7/12)*(1-(11.2-10)/100), CapacityFactor(FormulaRatedSpeed, 5.7, 11.2), 1e-15)
	// unknown formulas fall back to the empirical contract
	assert.Equal(t, CapacityFactor(FormulaEmpirical, 6, 10), CapacityFactor(Formula("other"), 6, 10))
}

func TestCapacityFactor_Monotonicity(t *testing.T) {
	for _, formula := range []Formula{FormulaEmpirical, FormulaRatedSpeed} {
		t.Run(string(formula)+" wind speed", func(t *testing.T) {
			prev := -1.0
			for v := 3.0; v <= 12.0; v += 0.25 {
				cf := CapacityFactor(formula, v, 11.2)
				assert.Greater(t, cf, prev, "v=%v", v)
				prev = cf
			}
		})
		t.Run(string(formula)+" turbulence", func(t *testing.T) {
			prev := math.Inf(1)
			for ti := 5.0; ti <= 25.0; ti += 0.5 {
				cf := CapacityFactor(formula, 5.7, ti)
				assert.Less(t, cf, prev, "ti=%v", ti)
				prev = cf
			}
		})
	}
}

func TestCompute_ZeroInvestment(t *testing.T) {
	p := indoreParams()
	p.TurbineCostLakhPerMW = 0

	res, err := Compute(p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.TotalInvestment)
	assert.Equal(t, 0.0, res.ROI)
	assert.False(t, math.IsNaN(res.ROI))

	years, ok := res.Payback.Years()
	require.True(t, ok)
	assert.Equal(t, 0.0, years)
}

func TestCompute_UnboundedPayback(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ProjectParameters)
	}{
		{
			name: "O&M exceeds revenue",
			mutate: func(p *ProjectParameters) {
				p.AvgWindSpeed = 3.0
				p.Turbulence = 25
				p.OMCostLakhPerMWYear = 50
				p.TariffPerKWh = 3.0
			},
		},
		{
			name: "floored capacity factor",
			mutate: func(p *ProjectParameters) {
				p.AvgWindSpeed = 0.5
				p.Turbulence = 25
			},
		},
		{
			name: "cash flow exactly zero",
			mutate: func(p *ProjectParameters) {
				p.AvgWindSpeed = 0.5
				p.Turbulence = 25
				p.OMCostLakhPerMWYear = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := indoreParams()
			tt.mutate(&p)

			res, err := Compute(p)
			require.NoError(t, err)
			assert.LessOrEqual(t, res.AnnualCashFlow, 0.0)
			assert.False(t, res.Payback.Bounded())
			assert.Equal(t, Unbounded, res.Payback)
			assert.False(t, res.Payback.Within(p.LifetimeYears))
			assert.Equal(t, "> Project Lifetime", PaybackLabel(res.Payback))
			assert.Equal(t, 0, res.BreakEvenYear())
		})
	}
}

func TestCompute_SeriesAreLinear(t *testing.T) {
	for _, lifetime := range []int{1, 2, 15, 25} {
		p := indoreParams()
		p.LifetimeYears = lifetime

		res, err := Compute(p)
		require.NoError(t, err)

		require.Len(t, res.CumulativeGeneration, lifetime)
		require.Len(t, res.CumulativeRevenue, lifetime)
		require.Len(t, res.CumulativeCashFlow, lifetime)

		for i := 0; i < lifetime; i++ {
			y := i + 1
			assert.Equal(t, y, res.CumulativeGeneration[i].Year)
			assert.Equal(t, res.AnnualGenerationMWh*float64(y), res.CumulativeGeneration[i].Value)
			assert.Equal(t, res.AnnualRevenue*float64(y), res.CumulativeRevenue[i].Value)
			assert.Equal(t, res.AnnualCashFlow*float64(y)-res.TotalInvestment, res.CumulativeCashFlow[i].Value)
		}
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ProjectParameters)
		field  string
	}{
		{"zero lifetime", func(p *ProjectParameters) { p.LifetimeYears = 0 }, "lifetimeYears"},
		{"negative lifetime", func(p *ProjectParameters) { p.LifetimeYears = -3 }, "lifetimeYears"},
		{"NaN wind speed", func(p *ProjectParameters) { p.AvgWindSpeed = math.NaN() }, "parameters"},
		{"infinite tariff", func(p *ProjectParameters) { p.TariffPerKWh = math.Inf(1) }, "parameters"},
		{"investment overflows", func(p *ProjectParameters) {
			p.CapacityMW, p.TurbineCostLakhPerMW = 1e308, 1e308
		}, "parameters"},
		{"revenue overflows", func(p *ProjectParameters) { p.TariffPerKWh = 1e305 }, "parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := indoreParams()
			tt.mutate(&p)

			_, err := Compute(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))

			var ipe *InvalidParameterError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, tt.field, ipe.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *ProjectParameters)
		wantErr string
	}{
		{"defaults are valid", func(p *ProjectParameters) {}, ""},
		{"upper bounds inclusive", func(p *ProjectParameters) {
			p.LifetimeYears, p.CapacityMW, p.AvgWindSpeed, p.Turbulence = 25, 10, 12, 25
			p.TurbineCostLakhPerMW, p.OMCostLakhPerMWYear, p.TariffPerKWh = 1000, 50, 8
		}, ""},
		{"lower bounds inclusive", func(p *ProjectParameters) {
			p.LifetimeYears, p.CapacityMW, p.AvgWindSpeed, p.Turbulence = 1, 0.5, 3, 5
			p.TurbineCostLakhPerMW, p.OMCostLakhPerMWYear, p.TariffPerKWh = 500, 10, 3
		}, ""},
		{"lifetime too long", func(p *ProjectParameters) { p.LifetimeYears = 26 }, "lifetimeYears"},
		{"negative capacity", func(p *ProjectParameters) { p.CapacityMW = -1 }, "capacityMw"},
		{"wind speed too high", func(p *ProjectParameters) { p.AvgWindSpeed = 12.1 }, "avgWindSpeed"},
		{"turbulence too low", func(p *ProjectParameters) { p.Turbulence = 4.9 }, "turbulence"},
		{"turbine cost zero", func(p *ProjectParameters) { p.TurbineCostLakhPerMW = 0 }, "turbineCostLakhPerMw"},
		{"O&M cost too high", func(p *ProjectParameters) { p.OMCostLakhPerMWYear = 51 }, "omCostLakhPerMwYear"},
		{"tariff NaN", func(p *ProjectParameters) { p.TariffPerKWh = math.NaN() }, "tariffPerKwh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := indoreParams()
			tt.mutate(&p)

			err := Validate(p)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ipe *InvalidParameterError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, tt.wantErr, ipe.Field)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFormula(t *testing.T) {
	f, err := ParseFormula("")
	require.NoError(t, err)
	assert.Equal(t, FormulaEmpirical, f)

	f, err = ParseFormula("rated-speed")
	require.NoError(t, err)
	assert.Equal(t, FormulaRatedSpeed, f)

	_, err = ParseFormula("power-curve")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestCapacityFactorCurve(t *testing.T) {
	curve, err := CapacityFactorCurve(FormulaEmpirical, 11.2, 3, 12, 10)
	require.NoError(t, err)
	require.Len(t, curve, 10)
	assert.Equal(t, 3.0, curve[0].WindSpeed)
	assert.Equal(t, 12.0, curve[9].WindSpeed)
	assert.InDelta(t, 4.0, curve[1].WindSpeed, 1e-12)
	for _, pt := range curve {
		assert.Equal(t, CapacityFactor(FormulaEmpirical, pt.WindSpeed, 11.2), pt.CapacityFactor)
	}

	single, err := CapacityFactorCurve(FormulaEmpirical, 11.2, 5, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []CurvePoint{{WindSpeed: 5, CapacityFactor: CapacityFactor(FormulaEmpirical, 5, 11.2)}}, single)

	_, err = CapacityFactorCurve(FormulaEmpirical, 11.2, 3, 12, 0)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = CapacityFactorCurve(FormulaEmpirical, 11.2, 12, 3, 5)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestDefaultParameters(t *testing.T) {
	d, err := catalog.Lookup("Indore")
	require.NoError(t, err)

	p := DefaultParameters(d)
	assert.Equal(t, indoreParams(), p)
	assert.NoError(t, Validate(p))

	for _, d := range catalog.All() {
		assert.NoError(t, Validate(DefaultParameters(d)), d.Name)
	}
}

func TestPayback_JSON(t *testing.T) {
	data, err := json.Marshal(PaybackYears(4.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"years":4.5,"bounded":true}`, string(data))

	data, err = json.Marshal(Unbounded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"years":null,"bounded":false}`, string(data))

	var p Payback
	require.NoError(t, json.Unmarshal([]byte(`{"years":null,"bounded":false}`), &p))
	assert.Equal(t, Unbounded, p)
	require.NoError(t, json.Unmarshal([]byte(`{"years":3.25,"bounded":true}`), &p))
	assert.Equal(t, PaybackYears(3.25), p)
}

func TestResult_JSONHasNoInfinity(t *testing.T) {
	p := indoreParams()
	p.AvgWindSpeed = 0.5
	p.Turbulence = 25

	res, err := Compute(p)
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Inf")
	assert.Contains(t, string(data), `"payback":{"years":null,"bounded":false}`)
}

func TestCosts(t *testing.T) {
	res, err := Compute(indoreParams())
	require.NoError(t, err)

	cb := res.Costs()
	assert.Equal(t, res.TotalInvestment, cb.Investment)
	assert.Equal(t, res.TotalOMCost, cb.LifetimeOMCost)
	assert.InDelta(t, 100.0, cb.InvestmentShare+cb.OMShare, 1e-9)
	assert.InDelta(t, 175.0/287.5*100, cb.InvestmentShare, 1e-9)

	empty := ProjectionResult{}
	assert.Equal(t, CostBreakdown{}, empty.Costs())
}

func TestSummary(t *testing.T) {
	res, err := Compute(indoreParams())
	require.NoError(t, err)

	s := res.Summary()
	assert.Equal(t, "44.0%", s.CapacityFactor)
	assert.Equal(t, "4.1 years", s.Payback)
	assert.Equal(t, "9,634 MWh", s.AnnualGeneration)
	assert.Equal(t, "₹ 175,000,000", s.TotalInvestment)
	assert.Equal(t, "₹ 50,095,812", s.AnnualRevenue)
	assert.Equal(t, "₹ 463,937,180", s.NetProfit)
	assert.Equal(t, "265.1%", s.ROI)
}

func BenchmarkCompute(b *testing.B) {
	p := indoreParams()
	p.LifetimeYears = 25
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Compute(p)
	}
}
