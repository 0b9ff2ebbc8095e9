// internal/workers/audit/build-food-safety-report/models.go
package buildfoodsafetyreport

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
	Date         string                `json:"date"` // YYYY-MM-DD
	Lists        []models.ListInstance `json:"lists"`
}

type Output struct {
	Report FoodSafetyReport `json:"report"`
}

// FoodSafetyReport is the daily log for one location. Cells are display
// strings; an empty cell means the daypart list or the item was not found.
type FoodSafetyReport struct {
	Title        string             `json:"title"`
	Date         string             `json:"date"` // MM-DD-YYYY
	LocationName string             `json:"locationName"`
	Dayparts     DaypartLists       `json:"dayparts"`
	Sections     []ReportSection    `json:"sections"`
	Equipment    []EquipmentReading `json:"equipment"`
}

// DaypartLists records which list filled each report column.
type DaypartLists struct {
	DP1 string `json:"dp1,omitempty"`
	DP3 string `json:"dp3,omitempty"`
	DP5 string `json:"dp5,omitempty"`
}

type ReportSection struct {
	Header string      `json:"header"`
	Rows   []ReportRow `json:"rows"`
}

type ReportRow struct {
	Label string `json:"label"`
	DP1   string `json:"dp1"`
	DP3   string `json:"dp3"`
	DP5   string `json:"dp5"`
}

// EquipmentReading is one equipment temperature seen anywhere that day.
type EquipmentReading struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Dependencies struct {
	Engine        *integrity.Engine
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}
