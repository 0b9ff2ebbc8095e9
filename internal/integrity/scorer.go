// internal/integrity/scorer.go
package integrity

import (
	"fmt"
	"math"
	"sort"

	"checklist-audit-workers/internal/models"
)

// Finding codes, one per scoring rule.
const (
	FindingSubListTooFast      = "SUBLIST_TOO_FAST"
	FindingSubListFailed       = "SUBLIST_FAILED_INTEGRITY"
	FindingListTooFast         = "LIST_TOO_FAST"
	FindingSpeedDetection      = "SPEED_DETECTION"
	FindingPotentialRapidEntry = "POTENTIAL_RAPID_ENTRY"
	FindingManualEntry         = "MANUAL_ENTRY_SUSPECTED"
	FindingHighDuplicateTemps  = "HIGH_DUPLICATE_TEMPS"
	FindingIdenticalTemps      = "IDENTICAL_TEMPERATURES"
	FindingRapidSimilarTemps   = "RAPID_SIMILAR_TEMPS"
	FindingExcessiveNA         = "EXCESSIVE_NA"
	FindingHighNAUsage         = "HIGH_NA_USAGE"
)

// Reviewer-facing issue texts.
const (
	IssueSpeedDetection      = "Speed Detection (Too Fast)"
	IssuePotentialRapidEntry = "Potential Rapid Entry"
	IssueManualEntry         = "Manual Entry Suspected (No Decimals)"
	IssueIdenticalTemps      = "Identical Temperatures"
	IssueRapidSimilarTemps   = "Rapid Similar/Same Temps"
	IssueExcessiveNA         = "Excessive N/A"
	IssueHighNAUsage         = "High N/A Usage"
)

// Finding is one applied penalty.
type Finding struct {
	Code    string `json:"code"`
	Issue   string `json:"issue"`
	Penalty int    `json:"penalty"`
}

// ScoreResult is the integrity verdict for one item tree. Score is nil when
// the list is exempt or was given no items. Issues is never nil.
type ScoreResult struct {
	Score    *int      `json:"score"`
	Issues   []string  `json:"issues"`
	Findings []Finding `json:"findings"`
}

type scoreSheet struct {
	score    int
	findings []Finding
}

func (s *scoreSheet) penalize(code, issue string, penalty int) {
	s.score -= penalty
	s.findings = append(s.findings, Finding{Code: code, Issue: issue, Penalty: penalty})
}

func (s *scoreSheet) result() ScoreResult {
	score := s.score
	if score < 0 {
		score = 0
	}
	issues := make([]string, 0, len(s.findings))
	for _, f := range s.findings {
		issues = append(issues, f.Issue)
	}
	findings := s.findings
	if findings == nil {
		findings = []Finding{}
	}
	return ScoreResult{Score: &score, Issues: issues, Findings: findings}
}

func unscored() ScoreResult {
	return ScoreResult{Issues: []string{}, Findings: []Finding{}}
}

type tempSample struct {
	value float64
	at    int64
}

// Score computes the integrity score of an item tree. durationSeconds is the
// full-list duration, or nil when unknown.
func (e *Engine) Score(items []models.ItemResult, listName string, durationSeconds *int64) ScoreResult {
	return e.score(items, listName, durationSeconds, 0)
}

func (e *Engine) score(items []models.ItemResult, listName string, durationSeconds *int64, depth int) ScoreResult {
	if items == nil || depth >= e.maxDepth {
		return unscored()
	}
	list := e.classifier.ClassifyList(listName)
	if list.Exempt {
		return unscored()
	}
	p := e.policy
	sheet := &scoreSheet{score: p.StartingScore}

	var (
		completed    []int64
		temps        []tempSample
		naCount      int
		totalCount   int
		integerCount int
	)
	walk(items, 0, e.maxDepth-depth, func(item *models.ItemResult, _ int) bool {
		if item.IsText() {
			return false
		}
		totalCount++
		if item.IsMarkedNA {
			naCount++
		}
		if !item.IsCompleted() {
			return true
		}
		class := e.classifier.ClassifyItem(item.Prompt())
		if class.Has(ItemEquipment) {
			return true
		}
		completed = append(completed, int64(item.CompletionTimestamp))

		v := item.ResultDouble
		if v.Valid && (class.Has(ItemTemperatureUnit) || v.Value > 0) {
			temps = append(temps, tempSample{value: v.Value, at: int64(item.CompletionTimestamp)})
			if !class.Has(ItemCountLike) && v.Value == math.Trunc(v.Value) {
				integerCount++
			}
		}
		return true
	})

	e.checkSubLists(items, depth, sheet)

	minSeconds := p.DefaultMinListSeconds
	if list.Daypart == 1 {
		minSeconds = p.Daypart1MinListSeconds
	}
	if durationSeconds != nil && *durationSeconds < minSeconds && len(completed) > p.FastListMinItems {
		sheet.penalize(FindingListTooFast, fmt.Sprintf("Full List < %d mins", minSeconds/60), p.FastListPenalty)
	}

	if len(completed) < 2 && len(sheet.findings) == 0 {
		return sheet.result()
	}

	if len(completed) > 1 {
		e.checkEntrySpeed(completed, sheet)
	}
	if len(temps) >= 2 {
		e.checkTemperatures(temps, integerCount, list.Relaxed, sheet)
	}
	if totalCount > 0 {
		naPercent := float64(naCount) / float64(totalCount) * 100
		switch {
		case naPercent > p.ExcessiveNAPercent:
			sheet.penalize(FindingExcessiveNA, IssueExcessiveNA, p.ExcessiveNAPenalty)
		case naPercent > p.HighNAPercent:
			sheet.penalize(FindingHighNAUsage, IssueHighNAUsage, p.HighNAPenalty)
		}
	}
	return sheet.result()
}

// checkSubLists penalizes the sheet for every sub-checklist below items,
// at any depth, that was filled in too fast or fails integrity on its own.
func (e *Engine) checkSubLists(items []models.ItemResult, depth int, sheet *scoreSheet) {
	if depth+1 >= e.maxDepth {
		return
	}
	p := e.policy
	for i := range items {
		item := &items[i]
		if item.SubList == nil || item.SubList.ItemResults == nil {
			continue
		}
		parentText := item.Prompt()
		subName := item.SubList.InstanceTitle
		if subName == "" {
			subName = parentText
		}
		subItems := item.SubList.ItemResults

		if span, ok := spanSeconds(e.timestamps(subItems, e.maxDepth-depth-1)); ok {
			subClass := e.classifier.ClassifyList(subName)
			frosty := subClass.Frosty || e.classifier.ClassifyItem(parentText).Has(ItemFrosty)
			if (frosty && span < p.FrostyMaxSeconds) || (subClass.CriticalProtein && span < p.CriticalProteinMaxSeconds) {
				sheet.penalize(FindingSubListTooFast, fmt.Sprintf("Sublist '%s' too fast (%ds)", subName, span), p.SubListTooFastPenalty)
			}
		}

		sub := e.score(subItems, subName, nil, depth+1)
		if sub.Score != nil && *sub.Score < p.SubListFailThreshold {
			sheet.penalize(FindingSubListFailed, fmt.Sprintf("Sublist '%s' Failed Integrity", subName), p.SubListFailPenalty)
		}

		e.checkSubLists(subItems, depth+1, sheet)
	}
}

func (e *Engine) checkEntrySpeed(completed []int64, sheet *scoreSheet) {
	p := e.policy
	sorted := append([]int64(nil), completed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rapid := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] < p.RapidGapSeconds {
			rapid++
		}
	}
	intervals := len(sorted) - 1
	if intervals < 1 {
		intervals = 1
	}
	rapidPercent := float64(rapid) / float64(intervals) * 100
	switch {
	case rapidPercent > p.SpeedDetectionPercent:
		sheet.penalize(FindingSpeedDetection, IssueSpeedDetection, p.SpeedDetectionPenalty)
	case rapidPercent > p.RapidEntryPercent:
		sheet.penalize(FindingPotentialRapidEntry, IssuePotentialRapidEntry, p.RapidEntryPenalty)
	}
}

func (e *Engine) checkTemperatures(temps []tempSample, integerCount int, relaxed bool, sheet *scoreSheet) {
	p := e.policy
	n := len(temps)

	if float64(integerCount)/float64(n) > p.IntegerRatio {
		sheet.penalize(FindingManualEntry, IssueManualEntry, p.IntegerPenalty)
	}

	unique := make(map[float64]struct{}, n)
	for _, t := range temps {
		unique[t.value] = struct{}{}
	}
	dupRate := 1 - float64(len(unique))/float64(n)
	dupThreshold, similarDelta := p.StrictDuplicateRate, p.StrictSimilarDelta
	if relaxed {
		dupThreshold, similarDelta = p.RelaxedDuplicateRate, p.RelaxedSimilarDelta
	}
	if dupRate > dupThreshold {
		pct := int(math.Floor(dupRate*100 + 0.5))
		sheet.penalize(FindingHighDuplicateTemps, fmt.Sprintf("High Duplicate Temps (%d%%)", pct), p.DuplicatePenalty)
	}
	if len(unique) == 1 {
		sheet.penalize(FindingIdenticalTemps, IssueIdenticalTemps, p.IdenticalPenalty)
	}

	ordered := append([]tempSample(nil), temps...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].at < ordered[j].at })

	suspicious := 0
	for i := 1; i < n; i++ {
		gap := ordered[i].at - ordered[i-1].at
		delta := math.Abs(ordered[i].value - ordered[i-1].value)
		if gap < p.SimilarPairSeconds && delta < similarDelta {
			suspicious++
		}
	}
	pairs := n - 1
	if pairs < 1 {
		pairs = 1
	}
	switch rate := float64(suspicious) / float64(pairs); {
	case rate > p.SimilarRate:
		sheet.penalize(FindingRapidSimilarTemps, IssueRapidSimilarTemps, p.SimilarPenalty)
	case suspicious > 0 && n < p.SmallSampleSize:
		sheet.penalize(FindingRapidSimilarTemps, IssueRapidSimilarTemps, p.SmallSampleSimilarPenalty)
	}
}
