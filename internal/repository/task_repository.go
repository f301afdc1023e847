package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"timeblocker/internal/model"
)

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status *model.TaskStatus
	From   *time.Time
	To     *time.Time
}

// TaskRepository handles CRUD and the scheduling queries for tasks. All
// methods run against the handle the repository was built with, so
// building one over a transaction scopes every read and write to it.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindByIDs(ctx context.Context, userID uint, ids []uint) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).
		Order("start_time ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) List(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.From != nil && filter.To != nil {
		q = q.Where("start_time BETWEEN ? AND ?", *filter.From, *filter.To)
	}
	var tasks []model.Task
	if err := q.Order("start_time ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// PendingExclusive returns the user's pending tasks that take part in the
// mutual-exclusion invariant, in deterministic order.
func (r *TaskRepository) PendingExclusive(ctx context.Context, userID uint, excludeTaskID *uint) ([]model.Task, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND allow_overlap = ?", userID, model.StatusPending, false)
	if excludeTaskID != nil {
		q = q.Where("id <> ?", *excludeTaskID)
	}
	var tasks []model.Task
	if err := q.Order("start_time ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// PendingInRange returns pending tasks starting within [from, to],
// regardless of their overlap exemption.
func (r *TaskRepository) PendingInRange(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND start_time BETWEEN ? AND ?", userID, model.StatusPending, from, to).
		Order("start_time ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByRoutineNear probes for a task generated from the routine whose
// start lies within tolerance of start. Nil result means the slot is not
// materialized yet.
func (r *TaskRepository) FindByRoutineNear(ctx context.Context, userID, routineID uint, start time.Time, tolerance time.Duration) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND origin_routine_id = ?", userID, routineID).
		Where("start_time BETWEEN ? AND ?", start.Add(-tolerance), start.Add(tolerance)).
		First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, err
	}
}

// ListByRoutine returns every task generated from the routine.
func (r *TaskRepository) ListByRoutine(ctx context.Context, userID, routineID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND origin_routine_id = ?", userID, routineID).
		Order("start_time ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DayCount is one day of the completion trend.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

func (r *TaskRepository) CountByStatus(ctx context.Context, userID uint) (map[model.TaskStatus]int64, error) {
	type row struct {
		Status model.TaskStatus
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, COUNT(id) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// CompletedPerDay returns per-day completion counts since the given
// instant, oldest first.
func (r *TaskRepository) CompletedPerDay(ctx context.Context, userID uint, since time.Time) ([]DayCount, error) {
	var rows []DayCount
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("DATE(updated_at) AS date, COUNT(id) AS count").
		Where("user_id = ? AND status = ? AND updated_at >= ?", userID, model.StatusCompleted, since).
		Group("DATE(updated_at)").
		Order("DATE(updated_at) ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TaskRepository) CountPendingStartingAfter(ctx context.Context, userID uint, t time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ? AND start_time >= ?", userID, model.StatusPending, t).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TaskRepository) CountPendingEndedBefore(ctx context.Context, userID uint, t time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND status = ? AND end_time < ?", userID, model.StatusPending, t).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
