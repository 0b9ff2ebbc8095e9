// internal/workers/notification/send-integrity-alert/models.go
package sendintegrityalert

import (
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
)

type Input struct {
	LocationName    string   `json:"locationName,omitempty"`
	ListID          string   `json:"listId,omitempty"`
	ListName        string   `json:"listName"`
	IntegrityScore  *int     `json:"integrityScore"`
	Issues          []string `json:"issues,omitempty"`
	SanitizerStatus string   `json:"sanitizerStatus,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "skipped", "disabled", "failed"
	Reasons        []string `json:"reasons,omitempty"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
	StatusFailed   = "failed"
)

type Dependencies struct {
	SES           SESService
	SNS           SNSService
	Validator     *validation.Validator
	Observability *observability.Observability
	Logger        logger.Logger
}
