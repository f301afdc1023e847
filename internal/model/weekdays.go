package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Weekdays is a set of weekdays (0=Sunday .. 6=Saturday) stored as a JSON
// array column.
type Weekdays []int

func (w Weekdays) Contains(day time.Weekday) bool {
	for _, d := range w {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Valid reports whether every entry is in 0..6.
func (w Weekdays) Valid() bool {
	for _, d := range w {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}

func (w Weekdays) Value() (driver.Value, error) {
	if w == nil {
		w = Weekdays{}
	}
	b, err := json.Marshal([]int(w))
	if err != nil {
		return nil, fmt.Errorf("marshal weekdays: %w", err)
	}
	return string(b), nil
}

func (w *Weekdays) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = Weekdays{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]int)(w))
	case string:
		return json.Unmarshal([]byte(v), (*[]int)(w))
	default:
		return fmt.Errorf("scan weekdays: unsupported type %T", src)
	}
}
