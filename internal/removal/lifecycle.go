package removal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/billboards-ops/internal/model"
)

// StaleItems returns pending items of active tasks whose billboard went back to a
// rented state with a future end date after the task was queued.
func StaleItems(items []model.ActiveRemovalItem, billboards map[int64]model.Billboard, today time.Time) []uuid.UUID {
	var stale []uuid.UUID
	for _, item := range items {
		if item.Status != model.RemovalItemPending || !item.TaskStatus.Active() {
			continue
		}
		b, ok := billboards[item.BillboardID]
		if !ok || !strings.EqualFold(strings.TrimSpace(b.Status), model.BillboardStatusRented) {
			continue
		}
		if b.RentEndDate == nil || !dateOnly(*b.RentEndDate).After(dateOnly(today)) {
			continue
		}
		stale = append(stale, item.ID)
	}
	return stale
}

// TaskCompleted reports whether every item of a task is completed.
func TaskCompleted(items []model.RemovalTaskItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Status != model.RemovalItemCompleted {
			return false
		}
	}
	return true
}

// StatusAfterPrune returns the status a task moves to once some of its items were
// pruned. A task left without items is cancelled so its contract is no longer
// treated as queued. The second value is false when the status should stay.
func StatusAfterPrune(remaining []model.RemovalTaskItem) (model.RemovalTaskStatus, bool) {
	if len(remaining) == 0 {
		return model.RemovalTaskCancelled, true
	}
	if TaskCompleted(remaining) {
		return model.RemovalTaskCompleted, true
	}
	return "", false
}
