package model

import "time"

// ConflictPolicy decides what occurrence generation does when a candidate
// slot collides with an existing task or a time block.
type ConflictPolicy string

const (
	PolicySkip   ConflictPolicy = "skip"
	PolicyPush   ConflictPolicy = "push"
	PolicyNotify ConflictPolicy = "notify"
	PolicyForce  ConflictPolicy = "force"
)

func (p ConflictPolicy) Valid() bool {
	return p == PolicySkip || p == PolicyPush || p == PolicyNotify || p == PolicyForce
}

// Routine describes a recurring commitment that spawns concrete tasks.
// StartTime is a wall-clock "HH:MM" string; Duration is in minutes.
type Routine struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"index"`
	Name           string
	DaysOfWeek     Weekdays `gorm:"type:json"`
	StartTime      string
	Duration       int
	ConflictPolicy ConflictPolicy `gorm:"default:skip"`
	IsActive       bool `gorm:"default:true;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
