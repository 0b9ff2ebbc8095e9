// internal/integrity/engine.go

// Package integrity scores submitted food-safety checklists for signs of
// fabricated entries and derives the duration, expiration and temperature
// summaries shown to reviewers. Every analysis is a pure function of the
// item tree, the engine configuration and the engine clock.
package integrity

import (
	"time"

	"checklist-audit-workers/internal/models"
)

// DefaultMaxDepth bounds recursion into nested sub-checklists.
const DefaultMaxDepth = 16

// Engine runs the checklist analyses. It is safe for concurrent use.
type Engine struct {
	classifier Classifier
	policy     Policy
	maxDepth   int
	now        func() time.Time
	loc        *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier replaces the keyword classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithVocabulary builds a KeywordClassifier from v.
func WithVocabulary(v Vocabulary) Option {
	return func(e *Engine) {
		e.classifier = NewKeywordClassifier(v)
	}
}

// WithPolicy replaces the scoring thresholds.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMaxDepth bounds recursion into sub-checklists. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithClock sets the source of "now" for expiration and status checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New creates an Engine with the default vocabulary and policy.
func New(opts ...Option) *Engine {
	e := &Engine{
		classifier: NewKeywordClassifier(DefaultVocabulary()),
		policy:     DefaultPolicy(),
		maxDepth:   DefaultMaxDepth,
		now:        time.Now,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Classifier() Classifier { return e.classifier }
func (e *Engine) Policy() Policy         { return e.policy }
func (e *Engine) MaxDepth() int          { return e.maxDepth }
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the engine clock reading in the engine location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Visitor is called for every item in pre-order with its nesting depth.
// Returning false skips the item's sub-checklist.
type Visitor func(item *models.ItemResult, depth int) bool

// Walk visits items and their sub-checklists depth first, never descending
// to depth maxDepth or beyond. A non-positive maxDepth means DefaultMaxDepth.
func Walk(items []models.ItemResult, maxDepth int, visit Visitor) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	walk(items, 0, maxDepth, visit)
}

func walk(items []models.ItemResult, depth, maxDepth int, visit Visitor) {
	if depth >= maxDepth {
		return
	}
	for i := range items {
		item := &items[i]
		if visit(item, depth) && item.SubList != nil {
			walk(item.SubList.ItemResults, depth+1, maxDepth, visit)
		}
	}
}

// Walk visits items using the engine depth bound.
func (e *Engine) Walk(items []models.ItemResult, visit Visitor) {
	Walk(items, e.maxDepth, visit)
}

func (e *Engine) timestamps(items []models.ItemResult, maxDepth int) []int64 {
	var stamps []int64
	walk(items, 0, maxDepth, func(item *models.ItemResult, _ int) bool {
		if item.IsCompleted() {
			stamps = append(stamps, int64(item.CompletionTimestamp))
		}
		return true
	})
	return stamps
}
