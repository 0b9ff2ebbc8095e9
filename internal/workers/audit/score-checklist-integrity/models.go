// internal/workers/audit/score-checklist-integrity/models.go
package scorechecklistintegrity

import (
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/internal/integrity"
	"checklist-audit-workers/internal/models"
)

type Input struct {
	LocationID      string               `json:"locationId,omitempty"`
	LocationName    string               `json:"locationName,omitempty"`
	ListInstance    *models.ListInstance `json:"listInstance"`
	DurationSeconds *int64               `json:"durationSeconds,omitempty"`
}

type Output struct {
	AuditID          string                     `json:"auditId"`
	LocationID       string                     `json:"locationId,omitempty"`
	ListID           string                     `json:"listId"`
	ListName         string                     `json:"listName"`
	ListStatus       string                     `json:"listStatus"`
	DurationText     *string                    `json:"durationText"`
	DurationSeconds  *int64                     `json:"durationSeconds"`
	Expiration       integrity.ExpirationStatus `json:"expiration"`
	SanitizerStatus  string                     `json:"sanitizerStatus"`
	TemperatureStats integrity.TemperatureStats `json:"temperatureStats"`
	Scored           bool                       `json:"scored"`
	IntegrityScore   *int                       `json:"integrityScore"`
	IntegrityBand    string                     `json:"integrityBand"`
	Issues           []string                   `json:"issues"`
	Findings         []integrity.Finding        `json:"findings"`
	SubLists         []integrity.SubListAudit   `json:"subLists"`
	Cached           bool                       `json:"cached"`
	AuditedAt        string                     `json:"auditedAt"`
}

// Dependencies are the collaborators shared with the worker manager.
// Only Engine is required.
type Dependencies struct {
	Engine        *integrity.Engine
	Cache         Cache
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}
