// internal/integrity/temperature.go
package integrity

import "checklist-audit-workers/internal/models"

// TemperatureStats summarizes cold and hot holding readings across a tree.
// Min and max are nil when the band has no readings.
type TemperatureStats struct {
	ColdMin   *float64 `json:"coldMin"`
	ColdMax   *float64 `json:"coldMax"`
	ColdCount int      `json:"coldCount"`
	HotMin    *float64 `json:"hotMin"`
	HotMax    *float64 `json:"hotMax"`
	HotCount  int      `json:"hotCount"`
	NACount   int      `json:"naCount"`
}

// TemperatureStats buckets every non-zero numeric result below the cold
// holding ceiling or above the hot holding floor.
func (e *Engine) TemperatureStats(items []models.ItemResult) TemperatureStats {
	var stats TemperatureStats
	e.Walk(items, func(item *models.ItemResult, _ int) bool {
		if item.IsMarkedNA {
			stats.NACount++
		}
		v := item.ResultDouble
		if !v.Valid || v.Value == 0 {
			return true
		}
		switch {
		case v.Value < e.policy.ColdHoldingMax:
			stats.ColdCount++
			stats.ColdMin, stats.ColdMax = widen(stats.ColdMin, stats.ColdMax, v.Value)
		case v.Value > e.policy.HotHoldingMin:
			stats.HotCount++
			stats.HotMin, stats.HotMax = widen(stats.HotMin, stats.HotMax, v.Value)
		}
		return true
	})
	return stats
}

func widen(lo, hi *float64, v float64) (*float64, *float64) {
	if lo == nil || v < *lo {
		nv := v
		lo = &nv
	}
	if hi == nil || v > *hi {
		nv := v
		hi = &nv
	}
	return lo, hi
}
