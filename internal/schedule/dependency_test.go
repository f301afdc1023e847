package schedule

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"timeblocker/internal/model"
	"timeblocker/internal/repository"
)

func newValidator(db *gorm.DB) *DependencyValidator {
	return NewDependencyValidator(
		repository.NewDependencyRepository(db),
		repository.NewTaskRepository(db),
	)
}

func TestAddDependencySelfLoop(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	v := newValidator(db)
	task := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "a", StartTime: at(9, 0), EndTime: at(10, 0)})

	_, err := v.AddDependency(context.Background(), 1, task.ID, task.ID)
	if !errors.Is(err, ErrInvalidDependency) {
		t.Fatalf("expected ErrInvalidDependency, got %v", err)
	}
}

func TestAddDependencyForeignTask(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	v := newValidator(db)
	mine := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "mine", StartTime: at(9, 0), EndTime: at(10, 0)})
	theirs := mustCreateTask(t, db, &model.Task{UserID: 2, Title: "theirs", StartTime: at(11, 0), EndTime: at(12, 0)})

	_, err := v.AddDependency(context.Background(), 1, mine.ID, theirs.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for a foreign task, got %v", err)
	}
}

func TestAddDependencyDuplicate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	v := newValidator(db)
	ctx := context.Background()
	a := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "a", StartTime: at(9, 0), EndTime: at(10, 0)})
	b := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "b", StartTime: at(11, 0), EndTime: at(12, 0)})

	if _, err := v.AddDependency(ctx, 1, a.ID, b.ID); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	_, err := v.AddDependency(ctx, 1, a.ID, b.ID)
	if !errors.Is(err, ErrDuplicateEdge) {
		t.Fatalf("expected ErrDuplicateEdge, got %v", err)
	}
}

func TestAddDependencyRejectsCycles(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	v := newValidator(db)
	ctx := context.Background()
	a := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "a", StartTime: at(9, 0), EndTime: at(10, 0)})
	b := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "b", StartTime: at(11, 0), EndTime: at(12, 0)})
	c := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "c", StartTime: at(13, 0), EndTime: at(14, 0)})

	// Direct two-node cycle.
	if _, err := v.AddDependency(ctx, 1, a.ID, b.ID); err != nil {
		t.Fatalf("a->b: %v", err)
	}
	if _, err := v.AddDependency(ctx, 1, b.ID, a.ID); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("b->a: expected ErrCycleDetected, got %v", err)
	}

	// Transitive cycle a->b->c->a.
	if _, err := v.AddDependency(ctx, 1, b.ID, c.ID); err != nil {
		t.Fatalf("b->c: %v", err)
	}
	if _, err := v.AddDependency(ctx, 1, c.ID, a.ID); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("c->a: expected ErrCycleDetected, got %v", err)
	}

	// The reverse direction of an existing path is fine the other way
	// around: a->c does not close a cycle.
	if _, err := v.AddDependency(ctx, 1, a.ID, c.ID); err != nil {
		t.Fatalf("a->c: %v", err)
	}
}

func TestBlockingAndCanComplete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	v := newValidator(db)
	ctx := context.Background()
	tasks := repository.NewTaskRepository(db)

	t2 := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "t2", StartTime: at(11, 0), EndTime: at(12, 0)})
	t1 := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "t1", StartTime: at(9, 0), EndTime: at(10, 0)})
	if _, err := v.AddDependency(ctx, 1, t2.ID, t1.ID); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	blocking, err := v.Blocking(ctx, 1, t2.ID)
	if err != nil {
		t.Fatalf("Blocking: %v", err)
	}
	if len(blocking) != 1 || blocking[0].ID != t1.ID {
		t.Fatalf("blocking = %v, want [t1]", blocking)
	}

	t1.Status = model.StatusCompleted
	if err := tasks.Save(ctx, t1); err != nil {
		t.Fatalf("complete t1: %v", err)
	}

	ok, err := v.CanComplete(ctx, 1, t2.ID)
	if err != nil {
		t.Fatalf("CanComplete: %v", err)
	}
	if !ok {
		t.Fatal("t2 must be completable once t1 is completed")
	}
}

func TestRemoveTaskEdgesBothDirections(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	v := newValidator(db)
	ctx := context.Background()
	edges := repository.NewDependencyRepository(db)

	a := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "a", StartTime: at(9, 0), EndTime: at(10, 0)})
	b := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "b", StartTime: at(11, 0), EndTime: at(12, 0)})
	c := mustCreateTask(t, db, &model.Task{UserID: 1, Title: "c", StartTime: at(13, 0), EndTime: at(14, 0)})

	if _, err := v.AddDependency(ctx, 1, b.ID, a.ID); err != nil {
		t.Fatalf("b->a: %v", err)
	}
	if _, err := v.AddDependency(ctx, 1, a.ID, c.ID); err != nil {
		t.Fatalf("a->c: %v", err)
	}

	if err := v.RemoveTaskEdges(ctx, a.ID); err != nil {
		t.Fatalf("RemoveTaskEdges: %v", err)
	}

	remaining, err := edges.EdgesForUser(ctx, 1)
	if err != nil {
		t.Fatalf("EdgesForUser: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("got %d edges after removal, want 0", len(remaining))
	}
}
