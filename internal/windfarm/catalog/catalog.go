// Package catalog holds the fixed district baselines used to seed projections.
package catalog

import (
	"errors"
	"fmt"
)

type Potential string

const (
	PotentialLow        Potential = "Low"
	PotentialLowMedium  Potential = "Low-Medium"
	PotentialMedium     Potential = "Medium"
	PotentialMediumHigh Potential = "Medium-High"
	PotentialHigh       Potential = "High"
)

type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DistrictProfile is immutable reference data for one district.
type DistrictProfile struct {
	Name             string    `json:"name"`
	AvgWindSpeed     float64   `json:"avgWindSpeed"` // m/s
	Turbulence       float64   `json:"turbulence"`   // percent
	Elevation        float64   `json:"elevation"`    // m
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Potential        Potential `json:"potential"`
	WindPowerDensity float64   `json:"windPowerDensity"` // MW per sq. km, informational only
	Source           Source    `json:"source"`
}

var ErrDistrictNotFound = errors.New("DISTRICT_NOT_FOUND")

type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("district %q not found in catalog", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrDistrictNotFound
}

// DefaultIndex is the position of the district pre-selected by callers.
const DefaultIndex = 1

var districts = []DistrictProfile{
	{
		Name:             "Bhopal",
		AvgWindSpeed:     4.2,
		Turbulence:       12.5,
		Elevation:        523,
		Latitude:         23.2599,
		Longitude:        77.4126,
		Potential:        PotentialLow,
		WindPowerDensity: 8.2,
		Source: Source{
			Name: "National Institute of Wind Energy (NIWE), Wind Resource Map of India",
			URL:  "https://niwe.res.in/department_wra_about.php",
		},
	},
	{
		Name:             "Indore",
		AvgWindSpeed:     5.7,
		Turbulence:       11.2,
		Elevation:        553,
		Latitude:         22.7196,
		Longitude:        75.8577,
		Potential:        PotentialMedium,
		WindPowerDensity: 14.5,
		Source: Source{
			Name: "MNRE, Wind Power Potential Assessment in Madhya Pradesh",
			URL:  "https://mnre.gov.in/wind-energy-potential",
		},
	},
	{
		Name:             "Jabalpur",
		AvgWindSpeed:     4.8,
		Turbulence:       13.0,
		Elevation:        412,
		Latitude:         23.1815,
		Longitude:        79.9864,
		Potential:        PotentialLowMedium,
		WindPowerDensity: 9.8,
		Source: Source{
			Name: "India Meteorological Department (IMD), Climate of Madhya Pradesh",
			URL:  "https://mausam.imd.gov.in/",
		},
	},
	{
		Name:             "Ujjain",
		AvgWindSpeed:     5.2,
		Turbulence:       11.8,
		Elevation:        478,
		Latitude:         23.1793,
		Longitude:        75.7849,
		Potential:        PotentialMedium,
		WindPowerDensity: 12.3,
		Source: Source{
			Name: "National Institute of Wind Energy (NIWE), Wind Resource Assessment",
			URL:  "https://niwe.res.in/department_wra_about.php",
		},
	},
}

var byName = func() map[string]int {
	idx := make(map[string]int, len(districts))
	for i, d := range districts {
		idx[d.Name] = i
	}
	return idx
}()

// Lookup returns the profile registered under name. Names are case-sensitive.
func Lookup(name string) (DistrictProfile, error) {
	i, ok := byName[name]
	if !ok {
		return DistrictProfile{}, &NotFoundError{Name: name}
	}
	return districts[i], nil
}

// ListNames returns district names in registration order.
func ListNames() []string {
	names := make([]string, len(districts))
	for i, d := range districts {
		names[i] = d.Name
	}
	return names
}

func All() []DistrictProfile {
	out := make([]DistrictProfile, len(districts))
	copy(out, districts)
	return out
}

func Default() DistrictProfile {
	return districts[DefaultIndex]
}
