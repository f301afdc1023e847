package model

import "time"

// TaskDependency is a directed "must complete before" edge: the task
// identified by TaskID cannot be completed until DependsOnTaskID is
// completed. Both tasks belong to the same user; the graph over one
// user's tasks stays acyclic.
type TaskDependency struct {
	ID              uint `gorm:"primaryKey"`
	TaskID          uint `gorm:"index;uniqueIndex:idx_dependency_edge,priority:1"`
	DependsOnTaskID uint `gorm:"index;uniqueIndex:idx_dependency_edge,priority:2"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
