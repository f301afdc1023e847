package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"timeblocker/internal/model"
	"timeblocker/internal/repository"
)

// trendWindow is how far back the completion trend looks.
const trendWindow = 7 * 24 * time.Hour

// UserStats is an aggregate snapshot of one user's planner.
type UserStats struct {
	TasksByStatus   map[model.TaskStatus]int64
	CompletionTrend []repository.DayCount
	ActiveRoutines  int64
	UpcomingTasks   int64
	OverdueTasks    int64
}

// StatsService computes read-only aggregates; it never mutates and needs
// no transaction.
type StatsService struct {
	tasks    *repository.TaskRepository
	routines *repository.RoutineRepository
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		tasks:    repository.NewTaskRepository(db),
		routines: repository.NewRoutineRepository(db),
	}
}

func (s *StatsService) UserStats(ctx context.Context, userID uint, now time.Time) (*UserStats, error) {
	byStatus, err := s.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	trend, err := s.tasks.CompletedPerDay(ctx, userID, now.Add(-trendWindow))
	if err != nil {
		return nil, err
	}
	activeRoutines, err := s.routines.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.tasks.CountPendingStartingAfter(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	overdue, err := s.tasks.CountPendingEndedBefore(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TasksByStatus:   byStatus,
		CompletionTrend: trend,
		ActiveRoutines:  activeRoutines,
		UpcomingTasks:   upcoming,
		OverdueTasks:    overdue,
	}, nil
}
