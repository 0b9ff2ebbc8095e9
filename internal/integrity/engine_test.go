// internal/integrity/engine_test.go
package integrity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist-audit-workers/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestWalk_StopsAtMaxDepth(t *testing.T) {
	root := &models.ChecklistInstance{}
	current := root
	for i := 0; i < 20; i++ {
		next := &models.ChecklistInstance{}
		current.ItemResults = []models.ItemResult{{SubList: next}}
		current = next
	}

	visited := 0
	deepest := -1
	Walk(root.ItemResults, 0, func(_ *models.ItemResult, depth int) bool {
		visited++
		if depth > deepest {
			deepest = depth
		}
		return true
	})

	assert.Equal(t, DefaultMaxDepth, visited)
	assert.Equal(t, DefaultMaxDepth-1, deepest)
}

func TestWalk_TerminatesOnCycle(t *testing.T) {
	loop := &models.ChecklistInstance{}
	loop.ItemResults = []models.ItemResult{{SubList: loop}}

	visited := 0
	Walk(loop.ItemResults, 4, func(_ *models.ItemResult, _ int) bool {
		visited++
		return true
	})
	assert.Equal(t, 4, visited)
}

func TestWalk_VisitorCanPrune(t *testing.T) {
	items := []models.ItemResult{
		withSubList("Hidden", "Hidden", check("Inner", 1000)),
		check("Outer", 1000),
	}

	var prompts []string
	Walk(items, 0, func(item *models.ItemResult, _ int) bool {
		prompts = append(prompts, item.Prompt())
		return false
	})
	assert.Equal(t, []string{"Hidden", "Outer"}, prompts)
}

func TestDuration(t *testing.T) {
	engine := New()

	tests := []struct {
		name            string
		items           []models.ItemResult
		expectedText    *string
		expectedSeconds *int64
	}{
		{
			name:  "nil tree",
			items: nil,
		},
		{
			name:  "no completions",
			items: []models.ItemResult{{Template: &models.ItemTemplate{Text: "Pending"}}},
		},
		{
			name:            "single completion",
			items:           []models.ItemResult{check("Handwashing", 1000)},
			expectedText:    strp("< 1m"),
			expectedSeconds: int64p(0),
		},
		{
			name: "span includes nested completions",
			items: []models.ItemResult{
				check("Handwashing", 2000),
				withSubList("Proteins", "Proteins", check("Chicken", 1000), check("Beef", 4725)),
			},
			expectedText:    strp("1h 2m"),
			expectedSeconds: int64p(3725),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Duration(tt.items)
			assert.Equal(t, tt.expectedText, d.Text)
			assert.Equal(t, tt.expectedSeconds, d.Seconds)
		})
	}
}

func TestFormatSpan(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatSpan(59))
	assert.Equal(t, "0h 5m", FormatSpan(300))
	assert.Equal(t, "2h 0m", FormatSpan(7200))
	assert.Equal(t, "25h 1m", FormatSpan(90060))
}

func TestExpiration(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	engine := New(WithClock(fixedClock(now)), WithLocation(time.UTC))

	at := func(day int, hour int) float64 {
		return float64(time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC).Unix())
	}

	tests := []struct {
		name     string
		prompt   string
		value    float64
		expected ExpirationStatus
		level    string
	}{
		{"yesterday", "Sanitizer Exp. Date", at(14, 23), ExpirationStatus{Expired: true}, SanitizerExpired},
		{"today", "Sanitizer Exp. Date", at(15, 8), ExpirationStatus{Expiring: true}, SanitizerExpiring},
		{"within a week", "Sanitizer Exp. Date", at(22, 18), ExpirationStatus{Warning: true}, SanitizerWarning},
		{"beyond a week", "Sanitizer Exp. Date", at(23, 0), ExpirationStatus{}, SanitizerOK},
		{"zero is ignored", "Sanitizer Exp. Date", 0, ExpirationStatus{}, SanitizerOK},
		{"markers are case-sensitive", "sanitizer exp. date", at(14, 0), ExpirationStatus{}, SanitizerOK},
		{"both markers required", "Sanitizer Strength", at(14, 0), ExpirationStatus{}, SanitizerOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []models.ItemResult{reading(tt.prompt, tt.value, 1000)}
			status := engine.Expiration(items)
			assert.Equal(t, tt.expected, status)
			assert.Equal(t, tt.level, status.Level())
		})
	}
}

func TestExpiration_NestedFlagsAccumulate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	engine := New(WithClock(fixedClock(now)), WithLocation(time.UTC))

	yesterday := float64(time.Date(2025, time.June, 14, 9, 0, 0, 0, time.UTC).Unix())
	soon := float64(time.Date(2025, time.June, 18, 9, 0, 0, 0, time.UTC).Unix())

	items := []models.ItemResult{
		reading("Sanitizer Exp. Date (Front)", soon, 1000),
		withSubList("Back Line", "Back Line", reading("Sanitizer Exp. Date", yesterday, 1000)),
	}
	status := engine.Expiration(items)
	assert.Equal(t, ExpirationStatus{Expired: true, Warning: true}, status)
	assert.Equal(t, SanitizerExpired, status.Level())
}

func TestExpiration_UsesEngineLocation(t *testing.T) {
	central := time.FixedZone("CDT", -5*60*60)

	// 2025-06-15 03:00 UTC is still June 14 in the central zone.
	now := time.Date(2025, time.June, 15, 3, 0, 0, 0, time.UTC)
	value := float64(time.Date(2025, time.June, 14, 12, 0, 0, 0, central).Unix())
	items := []models.ItemResult{reading("Sanitizer Exp. Date", value, 1000)}

	local := New(WithClock(fixedClock(now)), WithLocation(central))
	assert.Equal(t, ExpirationStatus{Expiring: true}, local.Expiration(items))

	utc := New(WithClock(fixedClock(now)), WithLocation(time.UTC))
	assert.Equal(t, ExpirationStatus{Expired: true}, utc.Expiration(items))
}

func TestTemperatureStats(t *testing.T) {
	engine := New()
	items := []models.ItemResult{
		reading("Lettuce Temp", 38.5, 1000),
		reading("Tomato Temp", 41, 1000),
		reading("Unused", 0, 1000),
		reading("Ambient", 75, 1000),
		withSubList("Hot Holding", "Hot Holding",
			reading("Chili Temp", 165, 1000),
			reading("Nuggets Temp", 140.5, 1000),
			markedNA("Sausage Temp", 1000),
		),
	}

	stats := engine.TemperatureStats(items)
	require.NotNil(t, stats.ColdMin)
	require.NotNil(t, stats.HotMin)
	assert.Equal(t, 2, stats.ColdCount)
	assert.Equal(t, 38.5, *stats.ColdMin)
	assert.Equal(t, 41.0, *stats.ColdMax)
	assert.Equal(t, 2, stats.HotCount)
	assert.Equal(t, 140.5, *stats.HotMin)
	assert.Equal(t, 165.0, *stats.HotMax)
	assert.Equal(t, 1, stats.NACount)
}

func TestTemperatureStats_EmptyTree(t *testing.T) {
	stats := New().TemperatureStats(nil)
	assert.Equal(t, TemperatureStats{}, stats)
}

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier(DefaultVocabulary())

	assert.True(t, c.ClassifyItem("WALK-IN Cooler Temp").Has(ItemEquipment|ItemTemperatureUnit))
	assert.True(t, c.ClassifyItem("Meat Well Temp").Has(ItemEquipmentLog))
	assert.False(t, c.ClassifyItem("Meat Well Temp").Has(ItemEquipment))
	assert.True(t, c.ClassifyItem("Nugget Count").Has(ItemCountLike))
	assert.True(t, c.ClassifyItem("Sanitizer Exp. Date").Has(ItemSanitizerExpiration))
	assert.False(t, c.ClassifyItem("SANITIZER EXP. DATE").Has(ItemSanitizerExpiration))
	assert.Equal(t, ItemClass(0), c.ClassifyItem(""))

	assert.Equal(t, ListClass{Relaxed: true, Daypart: 1, DailyLog: true, FoodSafety: true}, c.ClassifyList("🟧 DFSL Daypart 1"))
	assert.Equal(t, ListClass{Exempt: true}, c.ClassifyList("FSA - Critical"))
	assert.False(t, c.ClassifyList("dfsl daypart 3").FoodSafety)
	assert.True(t, c.ClassifyList("dfsl daypart 3").DailyLog)
	assert.True(t, c.ClassifyList("Food Safety Walk").FoodSafety)
}

func TestVocabulary_Merge(t *testing.T) {
	base := DefaultVocabulary()
	merged := base.Merge(Vocabulary{
		CategoryEquipment: {"Hot Box"},
		CategoryCount:     nil,
	})

	assert.Equal(t, []string{"Hot Box"}, merged[CategoryEquipment])
	assert.Equal(t, base[CategoryCount], merged[CategoryCount])
	assert.NotEqual(t, base[CategoryEquipment], merged[CategoryEquipment])

	engine := New(WithVocabulary(merged))
	assert.True(t, engine.Classifier().ClassifyItem("hot box 2").Has(ItemEquipment))
	assert.False(t, engine.Classifier().ClassifyItem("Walk-in Cooler").Has(ItemEquipment))
}

func TestAudit(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	engine := New(WithClock(fixedClock(now)), WithLocation(time.UTC))

	items := []models.ItemResult{
		reading("Hot Holding Temp", 165, 1000),
		reading("Hot Holding Temp", 165, 1038),
		reading("Hot Holding Temp", 165, 1076),
		reading("Hot Holding Temp", 165, 1114),
	}

	t.Run("complete tagged list is scored", func(t *testing.T) {
		list := &models.ListInstance{
			ID:           "list-1",
			ListTemplate: &models.ListTemplate{Title: "🟧 DFSL Daypart 3"},
			ItemResults:  items,
		}
		audit := engine.Audit(list)

		assert.Equal(t, "list-1", audit.ListID)
		assert.Equal(t, models.ListStatusComplete, audit.Status)
		assert.True(t, audit.Scored)
		require.NotNil(t, audit.Integrity.Score)
		assert.Equal(t, 0, *audit.Integrity.Score)
		assert.Equal(t, BandLow, audit.Band)
		assert.Equal(t, SanitizerOK, audit.SanitizerStatus)
		require.NotNil(t, audit.Duration.Text)
		assert.Equal(t, "0h 1m", *audit.Duration.Text)
		assert.Equal(t, 4, audit.Temperatures.HotCount)
		assert.Empty(t, audit.SubLists)
	})

	t.Run("incomplete list is not scored", func(t *testing.T) {
		list := &models.ListInstance{
			ListTemplate:      &models.ListTemplate{Title: "🟧 DFSL Daypart 3"},
			IncompleteCount:   2,
			DeadlineTimestamp: now.Add(-time.Hour).Unix(),
			ItemResults:       items,
		}
		audit := engine.Audit(list)

		assert.Equal(t, models.ListStatusLate, audit.Status)
		assert.False(t, audit.Scored)
		assert.Nil(t, audit.Integrity.Score)
		assert.Equal(t, []string{}, audit.Integrity.Issues)
		assert.Equal(t, BandNotApplicable, audit.Band)
	})

	t.Run("sub-lists of an open tagged list are scored", func(t *testing.T) {
		list := &models.ListInstance{
			ListTemplate:    &models.ListTemplate{Title: "DFSL Daypart 3"},
			IncompleteCount: 2,
			ItemResults: []models.ItemResult{
				withSubList("Chicken", "Chicken Temps",
					reading("Temp", 165, 1000),
					reading("Temp", 165, 1030),
					reading("Temp", 165, 1060),
				),
			},
		}
		audit := engine.Audit(list)

		assert.False(t, audit.Scored)
		assert.Equal(t, BandNotApplicable, audit.Band)
		require.Len(t, audit.SubLists, 1)
		require.NotNil(t, audit.SubLists[0].Integrity)
		require.NotNil(t, audit.SubLists[0].Integrity.Score)
		assert.Equal(t, 0, *audit.SubLists[0].Integrity.Score)
		assert.Equal(t, BandLow, audit.SubLists[0].Band)

		list.ListTemplate = &models.ListTemplate{Title: "Building Checks"}
		audit = engine.Audit(list)
		require.Len(t, audit.SubLists, 1)
		assert.Nil(t, audit.SubLists[0].Integrity)
		assert.Equal(t, BandNotApplicable, audit.SubLists[0].Band)
	})

	t.Run("untagged list is not scored", func(t *testing.T) {
		list := &models.ListInstance{
			InstanceTitle: "Building Checks",
			ItemResults:   items,
		}
		audit := engine.Audit(list)

		assert.Equal(t, "Building Checks", audit.ListName)
		assert.False(t, audit.Scored)
		assert.Equal(t, BandNotApplicable, audit.Band)
	})

	t.Run("nil list", func(t *testing.T) {
		audit := engine.Audit(nil)
		assert.Equal(t, "Untitled List", audit.ListName)
		assert.False(t, audit.Scored)
		assert.Nil(t, audit.Duration.Seconds)
	})
}

func TestSubListBreakdown(t *testing.T) {
	engine := New()
	items := []models.ItemResult{
		withSubList("Frosty Machine", "",
			reading("Frosty Mix Temp", 35.2, 2000),
			reading("Frosty Mix Temp", 38.4, 2075),
		),
		withSubList("Empty", "Empty"),
		withSubList("Chili", "Chili", check("Stirred", 3000)),
	}

	rows := engine.SubListBreakdown(items, true)
	require.Len(t, rows, 2)

	assert.Equal(t, "Sub-list", rows[0].Title)
	assert.Equal(t, "Frosty Machine", rows[0].Prompt)
	assert.Equal(t, 1, rows[0].Depth)
	require.NotNil(t, rows[0].DurationSeconds)
	assert.Equal(t, int64(75), *rows[0].DurationSeconds)
	assert.Equal(t, "1m 15s", rows[0].DurationText)
	require.NotNil(t, rows[0].Integrity)
	assert.Equal(t, BandHigh, rows[0].Band)

	assert.Equal(t, "Chili", rows[1].Title)
	assert.Nil(t, rows[1].DurationSeconds)
	assert.Nil(t, rows[1].Integrity)
	assert.Equal(t, BandNotApplicable, rows[1].Band)

	unscoredRows := engine.SubListBreakdown(items, false)
	require.Len(t, unscoredRows, 2)
	assert.Nil(t, unscoredRows[0].Integrity)
}

func strp(s string) *string { return &s }
