// internal/workers/projection/export-workbook/models.go
package exportworkbook

import "wind-workers/internal/windfarm/engine"

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Input is normally the output of calculate-projection left in process scope.
type Input struct {
	District   string                    `json:"district"`
	Parameters *engine.ProjectParameters `json:"parameters"`
	Projection *engine.ProjectionResult  `json:"projection"`
}

type Output struct {
	ExportID       string `json:"exportId"`
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	SizeBytes      int    `json:"sizeBytes"`
	WorkbookBase64 string `json:"workbookBase64"`
}
