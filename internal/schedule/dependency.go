package schedule

import (
	"context"
	"fmt"

	"timeblocker/internal/model"
)

// EdgeSource is the persistence view of the dependency graph. The graph
// is stored as an explicit edge table and queried by need; full object
// graphs are never materialized.
type EdgeSource interface {
	Create(ctx context.Context, edge *model.TaskDependency) error
	Exists(ctx context.Context, taskID, dependsOnID uint) (bool, error)
	ListByTask(ctx context.Context, taskID uint) ([]model.TaskDependency, error)
	EdgesForUser(ctx context.Context, userID uint) ([]model.TaskDependency, error)
	DeleteForTask(ctx context.Context, taskID uint) error
}

// TaskLookup verifies ownership and loads dependency targets.
type TaskLookup interface {
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	FindByIDs(ctx context.Context, userID uint, ids []uint) ([]model.Task, error)
}

// DependencyValidator maintains the directed depends-on relation between
// one user's tasks and gates task completion on it.
type DependencyValidator struct {
	edges EdgeSource
	tasks TaskLookup
}

func NewDependencyValidator(edges EdgeSource, tasks TaskLookup) *DependencyValidator {
	return &DependencyValidator{edges: edges, tasks: tasks}
}

// AddDependency inserts the edge taskID -> dependsOnID after checking the
// graph invariants: no self-loops, both tasks owned by the user, no
// duplicate edge, and no path from dependsOnID back to taskID.
func (v *DependencyValidator) AddDependency(ctx context.Context, userID, taskID, dependsOnID uint) (*model.TaskDependency, error) {
	if taskID == dependsOnID {
		return nil, ErrInvalidDependency
	}
	if _, err := v.tasks.FindByID(ctx, userID, taskID); err != nil {
		return nil, fmt.Errorf("dependent task %d: %w", taskID, err)
	}
	if _, err := v.tasks.FindByID(ctx, userID, dependsOnID); err != nil {
		return nil, fmt.Errorf("dependency target %d: %w", dependsOnID, err)
	}

	exists, err := v.edges.Exists(ctx, taskID, dependsOnID)
	if err != nil {
		return nil, fmt.Errorf("check edge: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEdge
	}

	reachable, err := v.reachable(ctx, userID, dependsOnID, taskID)
	if err != nil {
		return nil, err
	}
	if reachable {
		return nil, ErrCycleDetected
	}

	edge := &model.TaskDependency{TaskID: taskID, DependsOnTaskID: dependsOnID}
	if err := v.edges.Create(ctx, edge); err != nil {
		return nil, fmt.Errorf("create edge: %w", err)
	}
	return edge, nil
}

// Blocking returns the direct dependencies of taskID that are not yet
// completed. An empty result means the task may be completed.
func (v *DependencyValidator) Blocking(ctx context.Context, userID, taskID uint) ([]model.Task, error) {
	edges, err := v.edges.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load dependencies: %w", err)
	}
	if len(edges) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.DependsOnTaskID)
	}
	deps, err := v.tasks.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load dependency tasks: %w", err)
	}

	var blocking []model.Task
	for _, t := range deps {
		if t.Status != model.StatusCompleted {
			blocking = append(blocking, t)
		}
	}
	return blocking, nil
}

// CanComplete reports whether every direct dependency of taskID is
// completed.
func (v *DependencyValidator) CanComplete(ctx context.Context, userID, taskID uint) (bool, error) {
	blocking, err := v.Blocking(ctx, userID, taskID)
	if err != nil {
		return false, err
	}
	return len(blocking) == 0, nil
}

// RemoveTaskEdges deletes every edge touching taskID in either direction.
// Called before the task row itself is deleted.
func (v *DependencyValidator) RemoveTaskEdges(ctx context.Context, taskID uint) error {
	if err := v.edges.DeleteForTask(ctx, taskID); err != nil {
		return fmt.Errorf("remove edges: %w", err)
	}
	return nil
}

// reachable walks depends-on edges from one task looking for another.
func (v *DependencyValidator) reachable(ctx context.Context, userID, from, to uint) (bool, error) {
	edges, err := v.edges.EdgesForUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load graph: %w", err)
	}

	next := make(map[uint][]uint, len(edges))
	for _, e := range edges {
		next[e.TaskID] = append(next[e.TaskID], e.DependsOnTaskID)
	}

	seen := map[uint]bool{from: true}
	queue := []uint{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true, nil
		}
		for _, n := range next[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false, nil
}
