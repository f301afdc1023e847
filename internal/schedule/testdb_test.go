package schedule

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"timeblocker/internal/model"
	"timeblocker/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustCreateTask(t *testing.T, db *gorm.DB, task *model.Task) *model.Task {
	t.Helper()

	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := repository.NewTaskRepository(db).Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func mustCreateBlock(t *testing.T, db *gorm.DB, block *model.TimeBlock) *model.TimeBlock {
	t.Helper()

	if err := repository.NewTimeBlockRepository(db).Create(context.Background(), block); err != nil {
		t.Fatalf("create time block: %v", err)
	}
	return block
}

func mustCreateRoutine(t *testing.T, db *gorm.DB, routine *model.Routine) *model.Routine {
	t.Helper()

	if routine.ConflictPolicy == "" {
		routine.ConflictPolicy = model.PolicySkip
	}
	routine.IsActive = true
	if err := repository.NewRoutineRepository(db).Create(context.Background(), routine); err != nil {
		t.Fatalf("create routine: %v", err)
	}
	return routine
}
