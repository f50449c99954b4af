// internal/workers/catalog/compare-districts/models.go
package comparedistricts

import "wind-workers/internal/windfarm/catalog"

const (
	SortCatalog          = ""
	SortWindSpeed        = "windSpeed"
	SortWindPowerDensity = "windPowerDensity"
)

type Input struct {
	SortBy     string `json:"sortBy,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// Row is one line of the district comparison table.
type Row struct {
	Name             string            `json:"name"`
	AvgWindSpeed     float64           `json:"avgWindSpeed"`
	Turbulence       float64           `json:"turbulence"`
	Elevation        float64           `json:"elevation"`
	Potential        catalog.Potential `json:"potential"`
	WindPowerDensity float64           `json:"windPowerDensity"`
}

type Output struct {
	Districts       []Row    `json:"districts"`
	DistrictNames   []string `json:"districtNames"`
	DefaultDistrict string   `json:"defaultDistrict"`
}
