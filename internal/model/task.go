package model

import "time"

// TaskStatus is the lifecycle state of a task. Both completed and
// discarded are terminal; a task never returns to pending.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusDiscarded TaskStatus = "discarded"
)

func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusDiscarded
}

// Terminal reports whether no further status transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusDiscarded
}

// TaskPriority orders tasks by importance.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a single scheduled commitment occupying [StartTime, EndTime).
//
// OriginRoutineID is a weak back-reference to the routine that generated
// the task; it stays set even after the routine is deleted. StartBucket is
// the start time truncated to the minute (unix minutes) and is only set on
// routine-generated tasks: the unique index over (user, routine, bucket)
// prevents duplicate materialization of the same slot under concurrent
// generation sweeps.
type Task struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"index;uniqueIndex:idx_routine_slot,priority:1"`
	Title           string
	Description     string
	StartTime       time.Time `gorm:"index"`
	EndTime         time.Time
	AllowOverlap    bool       `gorm:"default:false"`
	Status          TaskStatus `gorm:"default:pending;index"`
	Priority        TaskPriority
	OriginRoutineID *uint  `gorm:"index;uniqueIndex:idx_routine_slot,priority:2"`
	StartBucket     *int64 `gorm:"uniqueIndex:idx_routine_slot,priority:3"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
