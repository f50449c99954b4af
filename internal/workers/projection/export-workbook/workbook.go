// internal/workers/projection/export-workbook/workbook.go
package exportworkbook

import (
	"fmt"

	"wind-workers/internal/windfarm/engine"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	ParametersSheet = "Parameters"
	SeriesSheet     = "Yearly Series"
)

// RenderWorkbook lays out a projection as an XLSX document: KPI summary, the
// inputs used and the cumulative yearly series.
func RenderWorkbook(district string, params *engine.ProjectParameters, r engine.ProjectionResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F6F8B"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, err
	}

	summary := r.Summary()
	costs := r.Costs()

	f.SetCellValue(SummarySheet, "A1", "Wind Project Projection")
	f.SetCellStyle(SummarySheet, "A1", "A1", titleStyle)
	f.SetCellValue(SummarySheet, "A2", "District")
	f.SetCellValue(SummarySheet, "B2", district)
	f.SetCellValue(SummarySheet, "A3", "Capacity Factor Formula")
	f.SetCellValue(SummarySheet, "B3", string(r.Formula))

	f.SetCellValue(SummarySheet, "A5", "Metric")
	f.SetCellValue(SummarySheet, "B5", "Value")
	f.SetCellValue(SummarySheet, "C5", "Display")
	f.SetCellStyle(SummarySheet, "A5", "C5", headerStyle)

	rows := []struct {
		label   string
		value   interface{}
		display string
	}{
		{"Capacity Factor", r.CapacityFactor, summary.CapacityFactor},
		{"Annual Generation (MWh)", r.AnnualGenerationMWh, summary.AnnualGeneration},
		{"Annual Revenue", r.AnnualRevenue, summary.AnnualRevenue},
		{"Total Investment", r.TotalInvestment, summary.TotalInvestment},
		{"Annual O&M Cost", r.AnnualOMCost, ""},
		{"Annual Cash Flow", r.AnnualCashFlow, ""},
		{"Lifetime Revenue", r.TotalRevenue, ""},
		{"Lifetime O&M Cost", r.TotalOMCost, ""},
		{"Net Profit", r.NetProfit, summary.NetProfit},
		{"ROI (%)", r.ROI, summary.ROI},
		{"Payback", paybackCell(r.Payback), summary.Payback},
		{"Break-even Year", r.BreakEvenYear(), ""},
		{"Investment Share (%)", costs.InvestmentShare, ""},
		{"O&M Share (%)", costs.OMShare, ""},
	}
	for i, row := range rows {
		n := i + 6
		f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", n), row.label)
		f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", n), row.value)
		f.SetCellValue(SummarySheet, fmt.Sprintf("C%d", n), row.display)
	}
	f.SetColWidth(SummarySheet, "A", "A", 28)
	f.SetColWidth(SummarySheet, "B", "C", 22)

	if params != nil {
		if _, err := f.NewSheet(ParametersSheet); err != nil {
			return nil, fmt.Errorf("create parameters sheet: %w", err)
		}
		f.SetSheetRow(ParametersSheet, "A1", &[]interface{}{"Parameter", "Value"})
		f.SetCellStyle(ParametersSheet, "A1", "B1", headerStyle)
		paramRows := [][]interface{}{
			{"Lifetime (years)", params.LifetimeYears},
			{"Capacity (MW)", params.CapacityMW},
			{"Average Wind Speed (m/s)", params.AvgWindSpeed},
			{"Turbulence (%)", params.Turbulence},
			{"Turbine Cost (lakh/MW)", params.TurbineCostLakhPerMW},
			{"O&M Cost (lakh/MW/year)", params.OMCostLakhPerMWYear},
			{"Tariff (per kWh)", params.TariffPerKWh},
		}
		for i, row := range paramRows {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			f.SetSheetRow(ParametersSheet, cell, &row)
		}
		f.SetColWidth(ParametersSheet, "A", "A", 28)
	}

	if _, err := f.NewSheet(SeriesSheet); err != nil {
		return nil, fmt.Errorf("create series sheet: %w", err)
	}
	f.SetSheetRow(SeriesSheet, "A1", &[]interface{}{
		"Year", "Cumulative Generation (MWh)", "Cumulative Revenue", "Cumulative Cash Flow",
	})
	f.SetCellStyle(SeriesSheet, "A1", "D1", headerStyle)
	for i := range r.CumulativeGeneration {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(SeriesSheet, cell, &[]interface{}{
			r.CumulativeGeneration[i].Year,
			r.CumulativeGeneration[i].Value,
			r.CumulativeRevenue[i].Value,
			r.CumulativeCashFlow[i].Value,
		})
	}
	if n := len(r.CumulativeGeneration); n > 0 {
		last, _ := excelize.CoordinatesToCellName(4, n+1)
		f.SetCellStyle(SeriesSheet, "B2", last, moneyStyle)
	}
	f.SetColWidth(SeriesSheet, "A", "A", 8)
	f.SetColWidth(SeriesSheet, "B", "D", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func paybackCell(p engine.Payback) interface{} {
	if years, ok := p.Years(); ok {
		return years
	}
	return engine.PaybackLabel(p)
}
