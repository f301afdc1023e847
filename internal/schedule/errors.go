package schedule

import (
	"errors"
	"fmt"
	"strings"

	"timeblocker/internal/model"
)

// Dependency graph errors.
var (
	ErrInvalidDependency = errors.New("task cannot depend on itself")
	ErrDuplicateEdge     = errors.New("dependency already exists")
	ErrCycleDetected     = errors.New("dependency would create a cycle")
)

// ErrNotFound marks a task, routine or time block that is absent or not
// owned by the calling user.
var ErrNotFound = errors.New("not found")

// ErrConcurrencyConflict is returned when the store detects a write
// conflict; the operation left no side effects and is safe to retry.
var ErrConcurrencyConflict = errors.New("concurrent write conflict")

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a schedule collision with an existing pending,
// non-exempt task.
type ConflictError struct {
	Conflicting *model.Task
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with task %d (%s)", e.Conflicting.ID, e.Conflicting.Title)
}

// DependenciesPendingError blocks completion of a task whose dependencies
// are not all completed.
type DependenciesPendingError struct {
	Blocking []model.Task
}

func (e *DependenciesPendingError) Error() string {
	titles := make([]string, 0, len(e.Blocking))
	for _, t := range e.Blocking {
		titles = append(titles, fmt.Sprintf("%d (%s)", t.ID, t.Title))
	}
	return "dependencies pending: " + strings.Join(titles, ", ")
}
