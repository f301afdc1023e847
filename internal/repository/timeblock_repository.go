package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"timeblocker/internal/model"
)

// TimeBlockRepository handles CRUD for time blocks.
type TimeBlockRepository struct {
	db *gorm.DB
}

func NewTimeBlockRepository(db *gorm.DB) *TimeBlockRepository {
	return &TimeBlockRepository{db: db}
}

func (r *TimeBlockRepository) Create(ctx context.Context, block *model.TimeBlock) error {
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return fmt.Errorf("create time block: %w", err)
	}
	return nil
}

func (r *TimeBlockRepository) FindByID(ctx context.Context, userID, blockID uint) (*model.TimeBlock, error) {
	var block model.TimeBlock
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, blockID).First(&block).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *TimeBlockRepository) ListByUser(ctx context.Context, userID uint) ([]model.TimeBlock, error) {
	var blocks []model.TimeBlock
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("start_time ASC, id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *TimeBlockRepository) Save(ctx context.Context, block *model.TimeBlock) error {
	if err := r.db.WithContext(ctx).Save(block).Error; err != nil {
		return fmt.Errorf("save time block: %w", err)
	}
	return nil
}

func (r *TimeBlockRepository) Delete(ctx context.Context, userID, blockID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, blockID).
		Delete(&model.TimeBlock{}).Error; err != nil {
		return fmt.Errorf("delete time block: %w", err)
	}
	return nil
}
