package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"timeblocker/internal/schedule"
)

// ErrRateLimited is returned when a user exceeds the mutation rate limit.
var ErrRateLimited = errors.New("too many requests")

// notFound maps the store's record-not-found onto the engine taxonomy.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return schedule.ErrNotFound
	}
	return err
}

// mapStoreErr surfaces store-level write conflicts as retryable
// concurrency conflicts. Duplicate-key covers the routine-slot
// uniqueness index racing with a concurrent generation sweep; SQLite
// reports lock contention as a busy/locked error string.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return schedule.ErrConcurrencyConflict
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return schedule.ErrConcurrencyConflict
	}
	return err
}
