package model

import "time"

// TimeBlock is a recurring unavailability window, compared on time of day
// only. StartTime and EndTime are wall-clock "HH:MM" strings; the block
// applies on every weekday in RecurringDays.
type TimeBlock struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index"`
	StartTime     string
	EndTime       string
	RecurringDays Weekdays `gorm:"type:json"`
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
