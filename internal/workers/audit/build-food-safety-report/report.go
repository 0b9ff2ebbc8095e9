// internal/workers/audit/build-food-safety-report/report.go
package buildfoodsafetyreport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"checklist-audit-workers/internal/common/errors"
	"checklist-audit-workers/internal/integrity"
	"checklist-audit-workers/internal/models"
)

const (
	reportTitle = "Food Safety Log Report"

	inputDateLayout  = "2006-01-02"
	reportDateLayout = "01-02-2006"

	// Expiration values at or before 2000-01-01 are not dates.
	minDateSeconds = 946684800
)

type rowSpec struct {
	label   string
	key     string
	boolean bool
}

type sectionSpec struct {
	header string
	rows   []rowSpec
}

// reportLayout is the fixed row order of the paper log. Each key is matched
// case-insensitively against item prompts.
var reportLayout = []sectionSpec{
	{header: "COOLERS", rows: []rowSpec{
		{label: "Meat Well", key: "Meat Well"},
		{label: "Salad Cooler", key: "Salad"},
		{label: "Sandwich Cooler", key: "Sandwich cooler"},
		{label: "Walk-in Cooler", key: "Walk-in Cooler"},
	}},
	{header: "FREEZERS", rows: []rowSpec{
		{label: "Walk-in Freezer", key: "Walk-in Freezer"},
	}},
	{header: "COLD HELD PRODUCTS", rows: []rowSpec{
		{label: "Frosty Mix", key: "Frosty Mix"},
		{label: "Sliced Tomatoes", key: "Tomatoes"},
		{label: "Lettuce", key: "Lettuce"},
		{label: "Cheddar Cheese", key: "Cheddar"},
		{label: "Meat Patty (Raw)", key: "Panned Small"},
	}},
	{header: "HOT HELD PRODUCTS", rows: []rowSpec{
		{label: "Chicken Filet", key: "Chicken Filet"},
		{label: "Sausage", key: "Sausage"},
		{label: "Eggs", key: "Eggs"},
		{label: "Cheese Sauce", key: "Cheese Sauce"},
		{label: "Nuggets", key: "Nuggets"},
		{label: "Spicy Chicken", key: "Spicy"},
		{label: "Classic Chicken", key: "Classic"},
		{label: "Chili Meat", key: "Chili Meat"},
		{label: "Cooked Patty", key: "Cooked Meat"},
	}},
	{header: "DAILY CRITICAL FOCUS", rows: []rowSpec{
		{label: "Handwashing", key: "Handwashing", boolean: true},
		{label: "Sanitizer Strength", key: "Sanitizer Strength", boolean: true},
		{label: "Sanitizer Exp", key: "Exp. Date"},
		{label: "Probe Calibration", key: "Probe Calibration"},
	}},
}

// BuildReport assembles the daily log for date (YYYY-MM-DD). Daypart
// columns come from the daily food safety lists, chosen by template title;
// equipment readings come from every list.
func BuildReport(e *integrity.Engine, locationName, date string, lists []models.ListInstance) (FoodSafetyReport, error) {
	day, err := time.Parse(inputDateLayout, date)
	if err != nil {
		return FoodSafetyReport{}, errors.NewReportBuildFailedError(fmt.Sprintf("date %q is not YYYY-MM-DD", date))
	}

	r := reportBuilder{engine: e}
	var dayparts DaypartLists
	for i := range lists {
		list := &lists[i]
		title := ""
		if list.ListTemplate != nil {
			title = list.ListTemplate.Title
		}
		class := e.Classifier().ClassifyList(title)
		if class.DailyLog {
			switch class.Daypart {
			case 1:
				r.dp1, dayparts.DP1 = list, list.ID
			case 3:
				r.dp3, dayparts.DP3 = list, list.ID
			case 5:
				r.dp5, dayparts.DP5 = list, list.ID
			}
		}
		r.collectEquipment(list.ItemResults)
	}

	sections := make([]ReportSection, 0, len(reportLayout))
	for _, spec := range reportLayout {
		section := ReportSection{Header: spec.header, Rows: make([]ReportRow, 0, len(spec.rows))}
		for _, row := range spec.rows {
			section.Rows = append(section.Rows, ReportRow{
				Label: row.label,
				DP1:   r.value(r.dp1, row),
				DP3:   r.value(r.dp3, row),
				DP5:   r.value(r.dp5, row),
			})
		}
		sections = append(sections, section)
	}

	return FoodSafetyReport{
		Title:        reportTitle,
		Date:         day.Format(reportDateLayout),
		LocationName: locationName,
		Dayparts:     dayparts,
		Sections:     sections,
		Equipment:    latestByLabel(r.equipment),
	}, nil
}

type reportBuilder struct {
	engine        *integrity.Engine
	dp1, dp3, dp5 *models.ListInstance
	equipment     []EquipmentReading
}

// collectEquipment records every equipment prompt that carries a numeric result.
func (r *reportBuilder) collectEquipment(items []models.ItemResult) {
	r.engine.Walk(items, func(item *models.ItemResult, _ int) bool {
		prompt := item.Prompt()
		if !item.ResultDouble.Valid || !r.engine.Classifier().ClassifyItem(prompt).Has(integrity.ItemEquipmentLog) {
			return true
		}
		value := item.ResultValue
		switch {
		case value != "":
		case item.ResultDouble.Value != 0:
			value = formatNumber(item.ResultDouble.Value)
		case item.IsMarkedNA:
			value = "N/A"
		default:
			value = "-"
		}
		r.equipment = append(r.equipment, EquipmentReading{Label: prompt, Value: value})
		return true
	})
}

// latestByLabel keeps the last reading per label at the position of that
// last reading.
func latestByLabel(readings []EquipmentReading) []EquipmentReading {
	seen := make(map[string]bool, len(readings))
	out := make([]EquipmentReading, 0, len(readings))
	for i := len(readings) - 1; i >= 0; i-- {
		if seen[readings[i].Label] {
			continue
		}
		seen[readings[i].Label] = true
		out = append(out, readings[i])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// value renders the first item, in pre-order, whose prompt contains the row key.
func (r *reportBuilder) value(list *models.ListInstance, row rowSpec) string {
	if list == nil || list.ItemResults == nil {
		return ""
	}
	key := strings.ToLower(row.key)

	var found *models.ItemResult
	r.engine.Walk(list.ItemResults, func(item *models.ItemResult, _ int) bool {
		if found != nil {
			return false
		}
		if strings.Contains(strings.ToLower(item.Prompt()), key) {
			found = item
			return false
		}
		return true
	})
	if found == nil {
		return ""
	}

	switch {
	case found.IsMarkedNA:
		return "N/A"
	case row.boolean:
		if found.ResultValue == "1" || found.ResultValue == "true" || found.ResultValue == "Yes" {
			return "YES"
		}
		return "NO"
	}

	v := found.ResultDouble
	if strings.Contains(row.key, "Exp") && v.Valid && v.Value > minDateSeconds {
		return time.UnixMilli(int64(v.Value * 1000)).In(r.engine.Location()).Format(reportDateLayout)
	}
	if v.Valid && v.Value != 0 {
		return formatNumber(v.Value)
	}
	switch {
	case found.ResultValue != "":
		return found.ResultValue
	case found.ResultText != "":
		return found.ResultText
	default:
		return "-"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
