// internal/integrity/duration.go
package integrity

import (
	"fmt"
	"sort"

	"checklist-audit-workers/internal/models"
)

// SingleEntryText is reported when a tree holds exactly one completion.
const SingleEntryText = "< 1m"

// Duration is the span between the earliest and latest completion in a tree.
// Both fields are nil when no item was completed.
type Duration struct {
	Text    *string `json:"text"`
	Seconds *int64  `json:"seconds"`
}

// Duration measures how long the item tree took to fill in.
func (e *Engine) Duration(items []models.ItemResult) Duration {
	stamps := e.timestamps(items, e.maxDepth)
	switch len(stamps) {
	case 0:
		return Duration{}
	case 1:
		text := SingleEntryText
		var zero int64
		return Duration{Text: &text, Seconds: &zero}
	}

	span, _ := spanSeconds(stamps)
	text := FormatSpan(span)
	return Duration{Text: &text, Seconds: &span}
}

// FormatSpan renders seconds as "<h>h <m>m" with floored components.
func FormatSpan(seconds int64) string {
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// spanSeconds returns max-min over stamps; ok is false for fewer than two.
func spanSeconds(stamps []int64) (int64, bool) {
	if len(stamps) < 2 {
		return 0, false
	}
	sorted := append([]int64(nil), stamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)-1] - sorted[0], true
}
