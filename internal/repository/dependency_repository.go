package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"timeblocker/internal/model"
)

// DependencyRepository stores the directed depends-on edges between
// tasks. Edges carry no user column; user scoping goes through the
// owning tasks.
type DependencyRepository struct {
	db *gorm.DB
}

func NewDependencyRepository(db *gorm.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

func (r *DependencyRepository) Create(ctx context.Context, edge *model.TaskDependency) error {
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return fmt.Errorf("create dependency: %w", err)
	}
	return nil
}

func (r *DependencyRepository) Exists(ctx context.Context, taskID, dependsOnID uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.TaskDependency{}).
		Where("task_id = ? AND depends_on_task_id = ?", taskID, dependsOnID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByTask returns the outgoing edges of a task (its dependencies).
func (r *DependencyRepository) ListByTask(ctx context.Context, taskID uint) ([]model.TaskDependency, error) {
	var edges []model.TaskDependency
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Order("depends_on_task_id ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// ListByDependsOn returns the incoming edges of a task (its dependents).
func (r *DependencyRepository) ListByDependsOn(ctx context.Context, taskID uint) ([]model.TaskDependency, error) {
	var edges []model.TaskDependency
	if err := r.db.WithContext(ctx).Where("depends_on_task_id = ?", taskID).
		Order("task_id ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// EdgesForUser returns every edge whose origin task belongs to the user.
func (r *DependencyRepository) EdgesForUser(ctx context.Context, userID uint) ([]model.TaskDependency, error) {
	var edges []model.TaskDependency
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_dependencies.task_id").
		Where("tasks.user_id = ?", userID).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// DeleteForTask removes every edge touching the task in either direction.
func (r *DependencyRepository) DeleteForTask(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ? OR depends_on_task_id = ?", taskID, taskID).
		Delete(&model.TaskDependency{}).Error; err != nil {
		return fmt.Errorf("delete dependencies: %w", err)
	}
	return nil
}
