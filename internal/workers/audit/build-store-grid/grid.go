// internal/workers/audit/build-store-grid/grid.go
package buildstoregrid

import (
	"fmt"

	"checklist-audit-workers/internal/integrity"
	"checklist-audit-workers/internal/models"
)

func missingCell() Cell {
	return Cell{Status: models.ListStatusMissing, Band: integrity.BandNotApplicable}
}

// BuildRow places each daily food safety list in its daypart column and
// folds every list's sanitizer flags into one column. A later list for the
// same daypart replaces an earlier one.
func BuildRow(e *integrity.Engine, locationID, locationName string, lists []models.ListInstance) StoreGridRow {
	row := StoreGridRow{
		LocationID: locationID,
		Name:       locationName,
		DP1:        missingCell(),
		DP3:        missingCell(),
		DP5:        missingCell(),
	}

	now := e.Now().Unix()
	var exp integrity.ExpirationStatus
	for i := range lists {
		list := &lists[i]
		exp = exp.Merge(e.Expiration(list.ItemResults))

		title := list.Name()
		class := e.Classifier().ClassifyList(title)
		if !class.DailyLog {
			continue
		}
		cell := row.column(class.Daypart)
		if cell == nil {
			continue
		}
		*cell = gridCell(e, list, title, now)
	}
	row.Sanitizer = exp.Level()
	return row
}

func (r *StoreGridRow) column(daypart int) *Cell {
	switch daypart {
	case 1:
		return &r.DP1
	case 3:
		return &r.DP3
	case 5:
		return &r.DP5
	default:
		return nil
	}
}

// gridCell scores complete lists only. Open lists show Late once past
// their deadline and In Progress otherwise.
func gridCell(e *integrity.Engine, list *models.ListInstance, title string, now int64) Cell {
	cell := Cell{
		Status: models.ListStatusInProgress,
		Band:   integrity.BandNotApplicable,
		ListID: list.ID,
	}
	switch {
	case list.IsComplete():
		cell.Status = models.ListStatusComplete
	case list.IsLate(now):
		cell.Status = models.ListStatusLate
	}

	if list.IsComplete() && list.ItemResults != nil {
		duration := e.Duration(list.ItemResults)
		result := e.Score(list.ItemResults, title, duration.Seconds)
		if result.Score != nil {
			cell.Score = fmt.Sprintf("%d%%", *result.Score)
		}
		cell.Band = e.Band(result.Score)
	}
	return cell
}
