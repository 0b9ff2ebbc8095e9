// internal/models/checklist.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Item kinds as reported by the checklist platform.
const (
	ItemKindText    = "TEXT"
	ItemKindNumber  = "NUMBER"
	ItemKindPhoto   = "PHOTO"
	ItemKindDate    = "DATE"
	ItemKindBoolean = "BOOLEAN"
)

// List statuses shown to reviewers.
const (
	ListStatusComplete   = "Complete"
	ListStatusLate       = "Late"
	ListStatusUpcoming   = "Upcoming"
	ListStatusInProgress = "In Progress"
	ListStatusMissing    = "Missing"
)

const untitledList = "Untitled List"

// NullFloat is a numeric result that tolerates malformed payloads.
// Anything that is not a finite number (or a string holding one) decodes
// as Valid=false instead of failing the whole document.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	*n = NullFloat{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		n.set(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			n.set(f)
		}
	}
	return nil
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) set(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	n.Value = v
	n.Valid = true
}

// Timestamp is a Unix-seconds value. Fractional or string encodings are
// truncated; anything unparsable decodes as zero ("not completed").
type Timestamp int64

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var n NullFloat
	_ = n.UnmarshalJSON(data)
	if !n.Valid || n.Value > math.MaxInt64 || n.Value < math.MinInt64 {
		*t = 0
		return nil
	}
	*t = Timestamp(int64(n.Value))
	return nil
}

// ItemTemplate is the question definition behind an item result.
type ItemTemplate struct {
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// ItemResult is one answered checklist question.
type ItemResult struct {
	ID                  string             `json:"id,omitempty"`
	Type                string             `json:"type,omitempty"`
	Template            *ItemTemplate      `json:"itemTemplate,omitempty"`
	ResultDouble        NullFloat          `json:"resultDouble"`
	ResultValue         string             `json:"resultValue,omitempty"`
	ResultText          string             `json:"resultText,omitempty"`
	IsMarkedNA          bool               `json:"isMarkedNA"`
	CompletionTimestamp Timestamp          `json:"completionTimestamp"`
	SubList             *ChecklistInstance `json:"subList,omitempty"`
}

// Prompt returns the question text, or "" when the template is missing.
func (i *ItemResult) Prompt() string {
	if i.Template == nil {
		return ""
	}
	return i.Template.Text
}

// IsText reports whether the item or its template is a free-text question.
func (i *ItemResult) IsText() bool {
	if strings.EqualFold(i.Type, ItemKindText) {
		return true
	}
	return i.Template != nil && strings.EqualFold(i.Template.Type, ItemKindText)
}

// IsCompleted reports whether the item carries a completion timestamp.
// An NA mark alone is a valid completion.
func (i *ItemResult) IsCompleted() bool {
	return i.CompletionTimestamp > 0
}

// ChecklistInstance is one submitted checklist, possibly nested in a parent item.
type ChecklistInstance struct {
	ID            string       `json:"id,omitempty"`
	InstanceTitle string       `json:"instanceTitle,omitempty"`
	ItemResults   []ItemResult `json:"itemResults"`
}

// ListTemplate carries the display title of a top-level list.
type ListTemplate struct {
	Title string `json:"title"`
}

// ListInstance is a top-level list as returned by the retrieval layer.
type ListInstance struct {
	ID                string        `json:"id"`
	InstanceTitle     string        `json:"instanceTitle,omitempty"`
	ListTemplate      *ListTemplate `json:"listTemplate,omitempty"`
	DisplayTimestamp  int64         `json:"displayTimestamp,omitempty"`
	DeadlineTimestamp int64         `json:"deadlineTimestamp,omitempty"`
	IncompleteCount   int           `json:"incompleteCount"`
	IsActive          bool          `json:"isActive,omitempty"`
	ItemResults       []ItemResult  `json:"itemResults"`
}

// Name returns the template title, falling back to the instance title.
func (l *ListInstance) Name() string {
	if l.ListTemplate != nil && l.ListTemplate.Title != "" {
		return l.ListTemplate.Title
	}
	if l.InstanceTitle != "" {
		return l.InstanceTitle
	}
	return untitledList
}

// IsComplete reports whether every item of the list has been answered.
func (l *ListInstance) IsComplete() bool {
	return l.IncompleteCount == 0
}

// IsLate reports whether the list missed its deadline as of now (Unix seconds).
func (l *ListInstance) IsLate(now int64) bool {
	return l.DeadlineTimestamp > 0 && l.DeadlineTimestamp < now
}

// Status derives the reviewer-facing list status as of now (Unix seconds).
func (l *ListInstance) Status(now int64) string {
	switch {
	case l.IsComplete():
		return ListStatusComplete
	case l.IsLate(now):
		return ListStatusLate
	case l.DisplayTimestamp > now:
		return ListStatusUpcoming
	default:
		return ListStatusInProgress
	}
}
