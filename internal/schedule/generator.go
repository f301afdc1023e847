package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"timeblocker/internal/model"
)

// HorizonDays is the rolling window over which routine occurrences are
// materialized.
const HorizonDays = 14

// slotTolerance is the idempotence window: a task generated for the same
// routine within this distance of a candidate start counts as that slot.
const slotTolerance = time.Minute

// GeneratorStore persists generated tasks and probes for already
// materialized slots.
type GeneratorStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByRoutineNear(ctx context.Context, userID, routineID uint, start time.Time, tolerance time.Duration) (*model.Task, error)
}

// GenerationResult aggregates one horizon sweep. Slot failures never
// abort the sweep, so callers get partial counts rather than an error.
type GenerationResult struct {
	Created []model.Task
	// Skipped counts slots dropped by the conflict policy.
	Skipped int
	// Existing counts slots the idempotence probe found already materialized.
	Existing int
	// Failed counts slots lost to per-slot storage errors.
	Failed int
	// PolicyFallbacks counts slots where an unimplemented policy (push,
	// notify) degraded to skip.
	PolicyFallbacks int
}

// Generator expands a routine's recurrence rule into concrete pending
// tasks over the horizon, consulting the overlap detector and the block
// checker per candidate slot.
type Generator struct {
	tasks   GeneratorStore
	overlap *OverlapDetector
	blocks  *BlockChecker
	log     zerolog.Logger
}

func NewGenerator(tasks GeneratorStore, overlap *OverlapDetector, blocks *BlockChecker, log zerolog.Logger) *Generator {
	return &Generator{tasks: tasks, overlap: overlap, blocks: blocks, log: log}
}

// Generate materializes occurrences of the routine in [now, now+14d].
// The sweep is best-effort: a failing slot is logged and counted, and
// generation continues with the next day. Cancelling the context stops
// the sweep; slots already created stay and the rest can be retried
// later thanks to the idempotence probe.
func (g *Generator) Generate(ctx context.Context, routine *model.Routine, userID uint, now time.Time) (*GenerationResult, error) {
	startMinute, err := ParseClock(routine.StartTime)
	if err != nil {
		return nil, &ValidationError{Field: "startTime", Reason: err.Error()}
	}

	horizonEnd := now.AddDate(0, 0, HorizonDays)
	result := &GenerationResult{}

	for day := 0; day <= HorizonDays; day++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		date := now.AddDate(0, 0, day)
		if !routine.DaysOfWeek.Contains(date.Weekday()) {
			continue
		}

		slotStart := time.Date(date.Year(), date.Month(), date.Day(),
			startMinute/60, startMinute%60, 0, 0, now.Location())
		slotEnd := slotStart.Add(time.Duration(routine.Duration) * time.Minute)
		if !slotStart.After(now) || slotStart.After(horizonEnd) {
			continue
		}

		created, err := g.generateSlot(ctx, routine, userID, slotStart, slotEnd, result)
		if err != nil {
			g.log.Warn().Err(err).
				Uint("routine_id", routine.ID).
				Time("slot_start", slotStart).
				Msg("occurrence generation failed for slot")
			result.Failed++
			continue
		}
		if created != nil {
			result.Created = append(result.Created, *created)
		}
	}

	return result, nil
}

func (g *Generator) generateSlot(ctx context.Context, routine *model.Routine, userID uint, slotStart, slotEnd time.Time, result *GenerationResult) (*model.Task, error) {
	existing, err := g.tasks.FindByRoutineNear(ctx, userID, routine.ID, slotStart, slotTolerance)
	if err != nil {
		return nil, fmt.Errorf("probe existing slot: %w", err)
	}
	if existing != nil {
		result.Existing++
		return nil, nil
	}

	if routine.ConflictPolicy != model.PolicyForce {
		obstructed, err := g.slotObstructed(ctx, userID, slotStart, slotEnd)
		if err != nil {
			return nil, err
		}
		if obstructed {
			if routine.ConflictPolicy == model.PolicyPush || routine.ConflictPolicy == model.PolicyNotify {
				// No displacement or notification strategy is defined for
				// these policies yet; they must not silently create a
				// conflicting task, so they degrade to skip.
				g.log.Warn().
					Uint("routine_id", routine.ID).
					Str("policy", string(routine.ConflictPolicy)).
					Time("slot_start", slotStart).
					Msg("conflict policy not implemented, skipping slot")
				result.PolicyFallbacks++
			}
			result.Skipped++
			return nil, nil
		}
	}

	bucket := SlotBucket(slotStart)
	task := &model.Task{
		UserID:          userID,
		Title:           routine.Name,
		StartTime:       slotStart,
		EndTime:         slotEnd,
		AllowOverlap:    false,
		Status:          model.StatusPending,
		Priority:        model.PriorityMedium,
		OriginRoutineID: &routine.ID,
		StartBucket:     &bucket,
	}
	if err := g.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create occurrence: %w", err)
	}
	return task, nil
}

func (g *Generator) slotObstructed(ctx context.Context, userID uint, slotStart, slotEnd time.Time) (bool, error) {
	conflict, err := g.overlap.Conflicts(ctx, userID, Interval{Start: slotStart, End: slotEnd}, false, nil)
	if err != nil {
		return false, err
	}
	if conflict != nil {
		return true, nil
	}

	candidate := DayInterval{Start: ClockOf(slotStart), End: ClockOf(slotStart) + int(slotEnd.Sub(slotStart)/time.Minute)}
	if candidate.End > 24*60 {
		// The slot crosses midnight: the portion past 24:00 falls on the
		// next weekday and must be checked against that day's blocks.
		spill := DayInterval{Start: 0, End: candidate.End - 24*60}
		block, err := g.blocks.IsBlocked(ctx, userID, (slotStart.Weekday()+1)%7, spill)
		if err != nil {
			return false, err
		}
		if block != nil {
			return true, nil
		}
		candidate.End = 24 * 60
	}
	block, err := g.blocks.IsBlocked(ctx, userID, slotStart.Weekday(), candidate)
	if err != nil {
		return false, err
	}
	return block != nil, nil
}
