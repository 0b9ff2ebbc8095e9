// internal/workers/audit/build-store-grid/models.go
package buildstoregrid

import (
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/internal/integrity"
	"checklist-audit-workers/internal/models"
)

type Input struct {
	LocationID   string                `json:"locationId,omitempty"`
	LocationName string                `json:"locationName,omitempty"`
	Lists        []models.ListInstance `json:"lists"`
}

type Output struct {
	Row StoreGridRow `json:"row"`
}

// Cell is one daypart column of the grid.
type Cell struct {
	Status string `json:"status"`
	Score  string `json:"score"`
	Band   string `json:"integrityBand"`
	ListID string `json:"listId,omitempty"`
}

// StoreGridRow summarises a store's daily food safety lists.
type StoreGridRow struct {
	LocationID string `json:"locationId,omitempty"`
	Name       string `json:"name"`
	DP1        Cell   `json:"dp1"`
	DP3        Cell   `json:"dp3"`
	DP5        Cell   `json:"dp5"`
	Sanitizer  string `json:"sanitizer"`
}

// CSVHeader is the column layout of CSVRecord.
var CSVHeader = []string{
	"Store Name",
	"DP1 Status", "DP1 Integrity",
	"DP3 Status", "DP3 Integrity",
	"DP5 Status", "DP5 Integrity",
	"Sanitizer Issues",
}

// CSVRecord flattens the row for spreadsheet export.
func (r StoreGridRow) CSVRecord() []string {
	return []string{
		r.Name,
		r.DP1.Status, r.DP1.Score,
		r.DP3.Status, r.DP3.Score,
		r.DP5.Status, r.DP5.Score,
		r.Sanitizer,
	}
}

type Dependencies struct {
	Engine        *integrity.Engine
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}
