package schedule

import (
	"context"
	"fmt"

	"timeblocker/internal/model"
)

// TaskSource supplies the pending, non-exempt tasks of a user in
// deterministic order (start time ascending, then id). Reads must run in
// the same transaction as the write they guard.
type TaskSource interface {
	PendingExclusive(ctx context.Context, userID uint, excludeTaskID *uint) ([]model.Task, error)
}

// OverlapDetector decides whether a candidate interval may be scheduled
// next to a user's existing pending tasks.
type OverlapDetector struct {
	tasks TaskSource
}

func NewOverlapDetector(tasks TaskSource) *OverlapDetector {
	return &OverlapDetector{tasks: tasks}
}

// Conflicts returns the first pending task whose interval overlaps the
// candidate, or nil. A candidate that itself allows overlap bypasses the
// check entirely; tasks that allow overlap are never obstructions.
// excludeTaskID skips one task, used when re-checking an existing task
// during update.
func (d *OverlapDetector) Conflicts(ctx context.Context, userID uint, candidate Interval, allowOverlap bool, excludeTaskID *uint) (*model.Task, error) {
	if allowOverlap {
		return nil, nil
	}
	existing, err := d.tasks.PendingExclusive(ctx, userID, excludeTaskID)
	if err != nil {
		return nil, fmt.Errorf("load pending tasks: %w", err)
	}
	for i := range existing {
		if candidate.Overlaps(TaskInterval(existing[i])) {
			return &existing[i], nil
		}
	}
	return nil, nil
}
