// internal/workers/catalog/lookup-district/models.go
package lookupdistrict

import (
	"wind-workers/internal/windfarm/catalog"
	"wind-workers/internal/windfarm/engine"
)

type Input struct {
	District string `json:"district"`
}

type Output struct {
	District          catalog.DistrictProfile  `json:"district"`
	DefaultParameters engine.ProjectParameters `json:"defaultParameters"`
	UsedDefault       bool                     `json:"usedDefault"`
}
