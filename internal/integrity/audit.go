// internal/integrity/audit.go
package integrity

import (
	"fmt"

	"checklist-audit-workers/internal/models"
)

// Integrity bands for display.
const (
	BandHigh          = "high"
	BandMedium        = "medium"
	BandLow           = "low"
	BandNotApplicable = "not_applicable"
)

// Band classifies a score; nil means the list was not scored.
func (e *Engine) Band(score *int) string {
	switch {
	case score == nil:
		return BandNotApplicable
	case *score < e.policy.BandMediumMin:
		return BandLow
	case *score < e.policy.BandHighMin:
		return BandMedium
	default:
		return BandHigh
	}
}

// Audit is every analysis of one top-level list.
type Audit struct {
	ListID          string           `json:"listId"`
	ListName        string           `json:"listName"`
	Status          string           `json:"listStatus"`
	Duration        Duration         `json:"duration"`
	Expiration      ExpirationStatus `json:"expiration"`
	SanitizerStatus string           `json:"sanitizerStatus"`
	Temperatures    TemperatureStats `json:"temperatureStats"`
	Scored          bool             `json:"scored"`
	Integrity       ScoreResult      `json:"integrity"`
	Band            string           `json:"integrityBand"`
	SubLists        []SubListAudit   `json:"subLists"`
}

const untitledSubList = "Sub-list"

// SubListAudit is the breakdown row for one nested sub-checklist.
type SubListAudit struct {
	Title           string       `json:"title"`
	Prompt          string       `json:"prompt"`
	Depth           int          `json:"depth"`
	DurationSeconds *int64       `json:"durationSeconds"`
	DurationText    string       `json:"durationText,omitempty"`
	Integrity       *ScoreResult `json:"integrity,omitempty"`
	Band            string       `json:"integrityBand"`
}

// ShouldScore reports whether a list qualifies for integrity scoring: it must
// carry a food-safety tag and have no incomplete items.
func (e *Engine) ShouldScore(list *models.ListInstance) bool {
	return list.IsComplete() && e.classifier.ClassifyList(list.Name()).FoodSafety
}

// Audit runs every analysis over a list. Lists that do not qualify for
// scoring carry a nil score and the not-applicable band.
func (e *Engine) Audit(list *models.ListInstance) Audit {
	if list == nil {
		list = &models.ListInstance{}
	}
	name := list.Name()
	duration := e.Duration(list.ItemResults)
	expiration := e.Expiration(list.ItemResults)

	a := Audit{
		ListID:          list.ID,
		ListName:        name,
		Status:          list.Status(e.Now().Unix()),
		Duration:        duration,
		Expiration:      expiration,
		SanitizerStatus: expiration.Level(),
		Temperatures:    e.TemperatureStats(list.ItemResults),
		Integrity:       unscored(),
	}
	if e.ShouldScore(list) {
		a.Scored = true
		a.Integrity = e.Score(list.ItemResults, name, duration.Seconds)
	}
	a.Band = e.Band(a.Integrity.Score)
	// Sub-checklists of a tagged list are scored even while the list is open.
	a.SubLists = e.SubListBreakdown(list.ItemResults, e.classifier.ClassifyList(name).FoodSafety)
	return a
}

// SubListBreakdown lists every non-empty sub-checklist in pre-order. Each
// duration covers only the sub-checklist's own items. When scored is set,
// sub-checklists with at least two completions are scored on their own,
// keyed by the parent prompt.
func (e *Engine) SubListBreakdown(items []models.ItemResult, scored bool) []SubListAudit {
	out := []SubListAudit{}
	e.Walk(items, func(item *models.ItemResult, depth int) bool {
		if item.IsText() {
			return false
		}
		if item.SubList == nil || len(item.SubList.ItemResults) == 0 {
			return true
		}
		sub := SubListAudit{
			Title:  item.SubList.InstanceTitle,
			Prompt: item.Prompt(),
			Depth:  depth + 1,
			Band:   BandNotApplicable,
		}
		if sub.Title == "" {
			sub.Title = untitledSubList
		}

		var stamps []int64
		for i := range item.SubList.ItemResults {
			if ts := item.SubList.ItemResults[i].CompletionTimestamp; ts > 0 {
				stamps = append(stamps, int64(ts))
			}
		}
		if span, ok := spanSeconds(stamps); ok {
			sub.DurationSeconds = &span
			sub.DurationText = fmt.Sprintf("%dm %ds", span/60, span%60)
			if scored {
				result := e.score(item.SubList.ItemResults, sub.Prompt, &span, depth+1)
				sub.Integrity = &result
				sub.Band = e.Band(result.Score)
			}
		}
		out = append(out, sub)
		return true
	})
	return out
}
