// internal/integrity/expiration.go
package integrity

import (
	"math"
	"time"

	"checklist-audit-workers/internal/models"
)

// Sanitizer expiration levels, most severe first.
const (
	SanitizerExpired  = "EXPIRED"
	SanitizerExpiring = "Expiring"
	SanitizerWarning  = "Warning"
	SanitizerOK       = "OK"
)

// maxDateSeconds is the largest representable calendar instant in seconds.
const maxDateSeconds = 8.64e12

// ExpirationStatus flags sanitizer expiration dates relative to today.
type ExpirationStatus struct {
	Expired  bool `json:"expired"`
	Expiring bool `json:"expiring"`
	Warning  bool `json:"warning"`
}

// Level returns the most severe flag as a display string.
func (s ExpirationStatus) Level() string {
	switch {
	case s.Expired:
		return SanitizerExpired
	case s.Expiring:
		return SanitizerExpiring
	case s.Warning:
		return SanitizerWarning
	default:
		return SanitizerOK
	}
}

// Merge ORs the flags of two statuses.
func (s ExpirationStatus) Merge(o ExpirationStatus) ExpirationStatus {
	return ExpirationStatus{
		Expired:  s.Expired || o.Expired,
		Expiring: s.Expiring || o.Expiring,
		Warning:  s.Warning || o.Warning,
	}
}

// Expiration checks every sanitizer expiration item in the tree against the
// engine clock. Dates are compared as calendar days in the engine location.
func (e *Engine) Expiration(items []models.ItemResult) ExpirationStatus {
	now := e.Now()
	today := midnight(now, e.loc)
	horizon := time.Date(today.Year(), today.Month(), today.Day()+e.policy.ExpiryWarnDays, 0, 0, 0, 0, e.loc)

	var status ExpirationStatus
	e.Walk(items, func(item *models.ItemResult, _ int) bool {
		if !e.classifier.ClassifyItem(item.Prompt()).Has(ItemSanitizerExpiration) {
			return true
		}
		v := item.ResultDouble
		if !v.Valid || v.Value == 0 || math.Abs(v.Value) > maxDateSeconds {
			return true
		}

		day := midnight(time.UnixMilli(int64(v.Value*1000)), e.loc)
		switch {
		case day.Before(today):
			status.Expired = true
		case day.Equal(today):
			status.Expiring = true
		case !day.After(horizon):
			status.Warning = true
		}
		return true
	})
	return status
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
