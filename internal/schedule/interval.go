package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"timeblocker/internal/model"
)

// MinTaskDuration is the shortest interval a task may occupy.
const MinTaskDuration = time.Minute

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries do not count: back-to-back scheduling is allowed.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Valid reports whether the interval is at least MinTaskDuration long.
func (iv Interval) Valid() bool {
	return iv.End.Sub(iv.Start) >= MinTaskDuration
}

func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// TaskInterval is the interval occupied by a task.
func TaskInterval(t model.Task) Interval {
	return Interval{Start: t.StartTime, End: t.EndTime}
}

// DayInterval is a half-open span of minutes within a day, independent of
// any calendar date. Used for time blocks and routine slots, which recur
// on weekdays rather than occupying absolute instants.
type DayInterval struct {
	Start int // minutes since midnight, inclusive
	End   int // minutes since midnight, exclusive
}

func (d DayInterval) Overlaps(other DayInterval) bool {
	return d.Start < other.End && other.Start < d.End
}

func (d DayInterval) Valid() bool {
	return d.Start >= 0 && d.End <= 24*60 && d.Start < d.End
}

// BlockInterval is the daily interval covered by a time block. Malformed
// clock strings yield an empty interval, which overlaps nothing.
func BlockInterval(b model.TimeBlock) DayInterval {
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return DayInterval{}
	}
	end, err := ParseClock(b.EndTime)
	if err != nil {
		return DayInterval{}
	}
	return DayInterval{Start: start, End: end}
}

// ParseClock converts a wall-clock string ("HH:MM" or "HH:MM:SS", seconds
// ignored) into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// ClockOf returns the minutes since midnight of an instant, in its own
// location.
func ClockOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SlotBucket truncates an instant to unix minutes. Routine-generated
// tasks store this so the store can hold a uniqueness constraint per
// (user, routine, slot).
func SlotBucket(t time.Time) int64 {
	return t.Unix() / 60
}
