package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"timeblocker/internal/model"
)

// RoutineRepository handles CRUD for routines.
type RoutineRepository struct {
	db *gorm.DB
}

func NewRoutineRepository(db *gorm.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

func (r *RoutineRepository) Create(ctx context.Context, routine *model.Routine) error {
	if err := r.db.WithContext(ctx).Create(routine).Error; err != nil {
		return fmt.Errorf("create routine: %w", err)
	}
	return nil
}

func (r *RoutineRepository) FindByID(ctx context.Context, userID, routineID uint) (*model.Routine, error) {
	var routine model.Routine
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, routineID).First(&routine).Error; err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *RoutineRepository) ListByUser(ctx context.Context, userID uint) ([]model.Routine, error) {
	var routines []model.Routine
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&routines).Error; err != nil {
		return nil, err
	}
	return routines, nil
}

// ListActive returns every active routine across all users, for the
// periodic regeneration sweep.
func (r *RoutineRepository) ListActive(ctx context.Context) ([]model.Routine, error) {
	var routines []model.Routine
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("user_id ASC, id ASC").
		Find(&routines).Error; err != nil {
		return nil, err
	}
	return routines, nil
}

func (r *RoutineRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Routine{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RoutineRepository) Save(ctx context.Context, routine *model.Routine) error {
	if err := r.db.WithContext(ctx).Save(routine).Error; err != nil {
		return fmt.Errorf("save routine: %w", err)
	}
	return nil
}

func (r *RoutineRepository) Delete(ctx context.Context, userID, routineID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, routineID).
		Delete(&model.Routine{}).Error; err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return nil
}
