package schedule

import (
	"context"
	"fmt"
	"time"

	"timeblocker/internal/model"
)

// BlockSource supplies all time blocks of a user. The recurring-day set
// lives in a JSON column, so weekday filtering happens here rather than in
// the store.
type BlockSource interface {
	ListByUser(ctx context.Context, userID uint) ([]model.TimeBlock, error)
}

// BlockChecker tests candidate slots against a user's recurring
// unavailability windows. Blocks are permanent obstructions, independent
// of task status.
type BlockChecker struct {
	blocks BlockSource
}

func NewBlockChecker(blocks BlockSource) *BlockChecker {
	return &BlockChecker{blocks: blocks}
}

// IsBlocked returns the first time block obstructing the candidate daily
// interval on the given weekday, or nil. Comparison is on time of day
// only, with the same half-open semantics as absolute intervals: a
// candidate ending exactly when a block starts is not blocked.
func (c *BlockChecker) IsBlocked(ctx context.Context, userID uint, weekday time.Weekday, candidate DayInterval) (*model.TimeBlock, error) {
	blocks, err := c.conflicting(ctx, userID, weekday, candidate, true)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	return &blocks[0], nil
}

// ConflictingBlocks returns every block obstructing the candidate, for
// availability reporting.
func (c *BlockChecker) ConflictingBlocks(ctx context.Context, userID uint, weekday time.Weekday, candidate DayInterval) ([]model.TimeBlock, error) {
	return c.conflicting(ctx, userID, weekday, candidate, false)
}

func (c *BlockChecker) conflicting(ctx context.Context, userID uint, weekday time.Weekday, candidate DayInterval, first bool) ([]model.TimeBlock, error) {
	all, err := c.blocks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load time blocks: %w", err)
	}
	var conflicting []model.TimeBlock
	for _, b := range all {
		if !b.RecurringDays.Contains(weekday) {
			continue
		}
		if BlockInterval(b).Overlaps(candidate) {
			conflicting = append(conflicting, b)
			if first {
				return conflicting, nil
			}
		}
	}
	return conflicting, nil
}
