package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"timeblocker/internal/model"
	"timeblocker/internal/repository"
	"timeblocker/internal/schedule"
)

const maxTitleLen = 255

// defaultUpcomingRange is the lookahead for upcoming-task queries, in
// minutes.
const defaultUpcomingRange = 60

// SchedulingService is the orchestration facade over the scheduling
// engine. It is the only component that touches the persistence boundary:
// every mutation runs inside one transaction, with the engine components
// rebound to the transaction handle so conflict, cycle and availability
// reads happen under the same isolation as the eventual write.
type SchedulingService struct {
	db      *gorm.DB
	log     zerolog.Logger
	limiter *UserLimiter
	now     func() time.Time
}

func NewSchedulingService(db *gorm.DB, log zerolog.Logger, limiter *UserLimiter) *SchedulingService {
	return &SchedulingService{db: db, log: log, limiter: limiter, now: time.Now}
}

// engine bundles the repositories and engine components bound to one
// database handle (live connection or open transaction).
type engine struct {
	tasks     *repository.TaskRepository
	routines  *repository.RoutineRepository
	blocks    *repository.TimeBlockRepository
	deps      *repository.DependencyRepository
	overlap   *schedule.OverlapDetector
	checker   *schedule.BlockChecker
	validator *schedule.DependencyValidator
	generator *schedule.Generator
}

func (s *SchedulingService) engine(tx *gorm.DB) *engine {
	tasks := repository.NewTaskRepository(tx)
	blocks := repository.NewTimeBlockRepository(tx)
	deps := repository.NewDependencyRepository(tx)
	overlap := schedule.NewOverlapDetector(tasks)
	checker := schedule.NewBlockChecker(blocks)
	return &engine{
		tasks:     tasks,
		routines:  repository.NewRoutineRepository(tx),
		blocks:    blocks,
		deps:      deps,
		overlap:   overlap,
		checker:   checker,
		validator: schedule.NewDependencyValidator(deps, tasks),
		generator: schedule.NewGenerator(tasks, overlap, checker, s.log),
	}
}

func (s *SchedulingService) allow(userID uint) error {
	if !s.limiter.Allow(userID) {
		return ErrRateLimited
	}
	return nil
}

// ---- Tasks ----

// TaskInput is the data required to create a task. Dependencies lists
// ids of tasks the new task depends on; they are linked in the same
// transaction as the insert.
type TaskInput struct {
	Title        string
	Description  string
	StartTime    time.Time
	EndTime      time.Time
	AllowOverlap bool
	Priority     model.TaskPriority
	Dependencies []uint
}

// TaskPatch updates a subset of task fields. Nil fields stay untouched.
type TaskPatch struct {
	Title        *string
	Description  *string
	StartTime    *time.Time
	EndTime      *time.Time
	AllowOverlap *bool
	Priority     *model.TaskPriority
	Status       *model.TaskStatus
}

// TaskDetail is a task with its dependency neighborhood, loaded through
// explicit edge queries.
type TaskDetail struct {
	Task         model.Task
	Dependencies []model.Task
	Dependents   []model.Task
}

func validateTaskInput(in TaskInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLen {
		return &schedule.ValidationError{Field: "title", Reason: "must be 1-255 characters"}
	}
	iv := schedule.Interval{Start: in.StartTime, End: in.EndTime}
	if !iv.Valid() {
		return &schedule.ValidationError{Field: "endTime", Reason: "must be at least one minute after startTime"}
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return &schedule.ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	return nil
}

// CreateTask creates a pending task after the overlap check, linking its
// dependency edges atomically: a rejected edge rolls back the task insert
// as well.
func (s *SchedulingService) CreateTask(ctx context.Context, userID uint, in TaskInput) (*TaskDetail, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	var detail *TaskDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)

		candidate := schedule.Interval{Start: in.StartTime, End: in.EndTime}
		conflict, err := eng.overlap.Conflicts(ctx, userID, candidate, in.AllowOverlap, nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &schedule.ConflictError{Conflicting: conflict}
		}

		task := model.Task{
			UserID:       userID,
			Title:        strings.TrimSpace(in.Title),
			Description:  in.Description,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
			AllowOverlap: in.AllowOverlap,
			Status:       model.StatusPending,
			Priority:     priority,
		}
		if err := eng.tasks.Create(ctx, &task); err != nil {
			return err
		}

		for _, depID := range in.Dependencies {
			if _, err := eng.validator.AddDependency(ctx, userID, task.ID, depID); err != nil {
				return err
			}
		}

		detail, err = s.taskDetail(ctx, eng, userID, task)
		return err
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return detail, nil
}

func (s *SchedulingService) taskDetail(ctx context.Context, eng *engine, userID uint, task model.Task) (*TaskDetail, error) {
	forward, err := eng.deps.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	reverse, err := eng.deps.ListByDependsOn(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	depIDs := make([]uint, 0, len(forward))
	for _, e := range forward {
		depIDs = append(depIDs, e.DependsOnTaskID)
	}
	dependentIDs := make([]uint, 0, len(reverse))
	for _, e := range reverse {
		dependentIDs = append(dependentIDs, e.TaskID)
	}

	deps, err := eng.tasks.FindByIDs(ctx, userID, depIDs)
	if err != nil {
		return nil, err
	}
	dependents, err := eng.tasks.FindByIDs(ctx, userID, dependentIDs)
	if err != nil {
		return nil, err
	}
	return &TaskDetail{Task: task, Dependencies: deps, Dependents: dependents}, nil
}

func (s *SchedulingService) ListTasks(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, error) {
	tasks, err := repository.NewTaskRepository(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, notFound(err)
	}
	return tasks, nil
}

func (s *SchedulingService) GetTask(ctx context.Context, userID, taskID uint) (*TaskDetail, error) {
	eng := s.engine(s.db)
	task, err := eng.tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	detail, err := s.taskDetail(ctx, eng, userID, *task)
	if err != nil {
		return nil, notFound(err)
	}
	return detail, nil
}

// UpdateTask patches a task. Completion is gated on the dependency graph;
// an interval change re-runs the overlap check with the task itself
// excluded.
func (s *SchedulingService) UpdateTask(ctx context.Context, userID, taskID uint, patch TaskPatch) (*model.Task, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}

	var updated *model.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		task, err := eng.tasks.FindByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		if err := applyStatusPatch(ctx, eng, userID, task, patch.Status); err != nil {
			return err
		}

		intervalChanged := false
		if patch.StartTime != nil && !patch.StartTime.Equal(task.StartTime) {
			task.StartTime = *patch.StartTime
			intervalChanged = true
		}
		if patch.EndTime != nil && !patch.EndTime.Equal(task.EndTime) {
			task.EndTime = *patch.EndTime
			intervalChanged = true
		}
		if patch.AllowOverlap != nil && *patch.AllowOverlap != task.AllowOverlap {
			task.AllowOverlap = *patch.AllowOverlap
			intervalChanged = true
		}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" || len(title) > maxTitleLen {
				return &schedule.ValidationError{Field: "title", Reason: "must be 1-255 characters"}
			}
			task.Title = title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Priority != nil {
			if !patch.Priority.Valid() {
				return &schedule.ValidationError{Field: "priority", Reason: "must be low, medium or high"}
			}
			task.Priority = *patch.Priority
		}

		if !schedule.TaskInterval(*task).Valid() {
			return &schedule.ValidationError{Field: "endTime", Reason: "must be at least one minute after startTime"}
		}

		if intervalChanged && task.Status == model.StatusPending {
			conflict, err := eng.overlap.Conflicts(ctx, userID, schedule.TaskInterval(*task), task.AllowOverlap, &task.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return &schedule.ConflictError{Conflicting: conflict}
			}
		}

		if err := eng.tasks.Save(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return updated, nil
}

func applyStatusPatch(ctx context.Context, eng *engine, userID uint, task *model.Task, status *model.TaskStatus) error {
	if status == nil || *status == task.Status {
		return nil
	}
	if !status.Valid() {
		return &schedule.ValidationError{Field: "status", Reason: "must be pending, completed or discarded"}
	}
	if task.Status.Terminal() {
		return &schedule.ValidationError{Field: "status", Reason: "task is in a terminal state"}
	}
	if *status == model.StatusPending {
		return &schedule.ValidationError{Field: "status", Reason: "cannot transition back to pending"}
	}
	if *status == model.StatusCompleted {
		blocking, err := eng.validator.Blocking(ctx, userID, task.ID)
		if err != nil {
			return err
		}
		if len(blocking) > 0 {
			return &schedule.DependenciesPendingError{Blocking: blocking}
		}
	}
	task.Status = *status
	return nil
}

// DeleteTask removes a task and, first, every dependency edge touching
// it.
func (s *SchedulingService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	if err := s.allow(userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		task, err := eng.tasks.FindByID(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := eng.validator.RemoveTaskEdges(ctx, task.ID); err != nil {
			return err
		}
		return eng.tasks.Delete(ctx, userID, task.ID)
	})
	return notFound(mapStoreErr(err))
}

// DiscardTask moves a pending task to the terminal discarded state.
func (s *SchedulingService) DiscardTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	status := model.StatusDiscarded
	return s.UpdateTask(ctx, userID, taskID, TaskPatch{Status: &status})
}

// UpcomingTasks returns pending tasks starting within the next
// rangeMinutes (default 60).
func (s *SchedulingService) UpcomingTasks(ctx context.Context, userID uint, rangeMinutes int) ([]model.Task, error) {
	if rangeMinutes <= 0 {
		rangeMinutes = defaultUpcomingRange
	}
	now := s.now()
	end := now.Add(time.Duration(rangeMinutes) * time.Minute)
	return repository.NewTaskRepository(s.db).PendingInRange(ctx, userID, now, end)
}

// AddDependency links taskID to dependsOnID after the graph checks.
func (s *SchedulingService) AddDependency(ctx context.Context, userID, taskID, dependsOnID uint) (*model.TaskDependency, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	var edge *model.TaskDependency
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		edge, err = s.engine(tx).validator.AddDependency(ctx, userID, taskID, dependsOnID)
		return err
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return edge, nil
}

// ---- Routines ----

// RoutineInput is the data required to create a routine. StartTime is a
// wall-clock "HH:MM" string; Duration is in minutes.
type RoutineInput struct {
	Name            string
	DaysOfWeek      []int
	StartTime       string
	Duration        int
	ConflictPolicy  model.ConflictPolicy
	GenerateInitial bool
}

// RoutinePatch updates a subset of routine fields.
type RoutinePatch struct {
	Name           *string
	DaysOfWeek     *[]int
	StartTime      *string
	Duration       *int
	ConflictPolicy *model.ConflictPolicy
}

// RoutineCreation is a created routine plus the result of its initial
// generation sweep, if one was requested.
type RoutineCreation struct {
	Routine   model.Routine
	Generated *schedule.GenerationResult
}

// RoutineDetail is a routine with its generated tasks.
type RoutineDetail struct {
	Routine model.Routine
	Tasks   []model.Task
}

func validateRoutineInput(in RoutineInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxTitleLen {
		return &schedule.ValidationError{Field: "name", Reason: "must be 1-255 characters"}
	}
	if len(in.DaysOfWeek) == 0 {
		return &schedule.ValidationError{Field: "daysOfWeek", Reason: "at least one weekday is required"}
	}
	if !model.Weekdays(in.DaysOfWeek).Valid() {
		return &schedule.ValidationError{Field: "daysOfWeek", Reason: "weekdays must be 0-6 (Sunday-Saturday)"}
	}
	if _, err := schedule.ParseClock(in.StartTime); err != nil {
		return &schedule.ValidationError{Field: "startTime", Reason: err.Error()}
	}
	if in.Duration < 1 || in.Duration > 24*60 {
		return &schedule.ValidationError{Field: "duration", Reason: "must be 1-1440 minutes"}
	}
	if in.ConflictPolicy != "" && !in.ConflictPolicy.Valid() {
		return &schedule.ValidationError{Field: "conflictPolicy", Reason: "must be skip, push, notify or force"}
	}
	return nil
}

// CreateRoutine creates a routine and, unless disabled, materializes its
// first horizon of occurrences in the same transaction.
func (s *SchedulingService) CreateRoutine(ctx context.Context, userID uint, in RoutineInput) (*RoutineCreation, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	if err := validateRoutineInput(in); err != nil {
		return nil, err
	}

	policy := in.ConflictPolicy
	if policy == "" {
		policy = model.PolicySkip
	}

	var creation *RoutineCreation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		routine := model.Routine{
			UserID:         userID,
			Name:           strings.TrimSpace(in.Name),
			DaysOfWeek:     model.Weekdays(in.DaysOfWeek),
			StartTime:      in.StartTime,
			Duration:       in.Duration,
			ConflictPolicy: policy,
			IsActive:       true,
		}
		if err := eng.routines.Create(ctx, &routine); err != nil {
			return err
		}

		creation = &RoutineCreation{Routine: routine}
		if in.GenerateInitial {
			result, err := eng.generator.Generate(ctx, &routine, userID, s.now())
			if err != nil {
				return err
			}
			creation.Generated = result
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return creation, nil
}

func (s *SchedulingService) ListRoutines(ctx context.Context, userID uint) ([]RoutineDetail, error) {
	eng := s.engine(s.db)
	routines, err := eng.routines.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := make([]RoutineDetail, 0, len(routines))
	for _, routine := range routines {
		tasks, err := eng.tasks.ListByRoutine(ctx, userID, routine.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, RoutineDetail{Routine: routine, Tasks: tasks})
	}
	return details, nil
}

func (s *SchedulingService) GetRoutine(ctx context.Context, userID, routineID uint) (*RoutineDetail, error) {
	eng := s.engine(s.db)
	routine, err := eng.routines.FindByID(ctx, userID, routineID)
	if err != nil {
		return nil, notFound(err)
	}
	tasks, err := eng.tasks.ListByRoutine(ctx, userID, routine.ID)
	if err != nil {
		return nil, err
	}
	return &RoutineDetail{Routine: *routine, Tasks: tasks}, nil
}

// RegenerateOccurrences runs an on-demand generation sweep for one
// routine. Inactive routines no longer generate.
func (s *SchedulingService) RegenerateOccurrences(ctx context.Context, userID, routineID uint) (*schedule.GenerationResult, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	var result *schedule.GenerationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		routine, err := eng.routines.FindByID(ctx, userID, routineID)
		if err != nil {
			return err
		}
		if !routine.IsActive {
			return &schedule.ValidationError{Field: "routine", Reason: "inactive routine does not generate occurrences"}
		}
		result, err = eng.generator.Generate(ctx, routine, userID, s.now())
		return err
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return result, nil
}

func (s *SchedulingService) UpdateRoutine(ctx context.Context, userID, routineID uint, patch RoutinePatch) (*model.Routine, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	var updated *model.Routine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		routine, err := eng.routines.FindByID(ctx, userID, routineID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" || len(name) > maxTitleLen {
				return &schedule.ValidationError{Field: "name", Reason: "must be 1-255 characters"}
			}
			routine.Name = name
		}
		if patch.DaysOfWeek != nil {
			days := model.Weekdays(*patch.DaysOfWeek)
			if len(days) == 0 || !days.Valid() {
				return &schedule.ValidationError{Field: "daysOfWeek", Reason: "weekdays must be a non-empty subset of 0-6"}
			}
			routine.DaysOfWeek = days
		}
		if patch.StartTime != nil {
			if _, err := schedule.ParseClock(*patch.StartTime); err != nil {
				return &schedule.ValidationError{Field: "startTime", Reason: err.Error()}
			}
			routine.StartTime = *patch.StartTime
		}
		if patch.Duration != nil {
			if *patch.Duration < 1 || *patch.Duration > 24*60 {
				return &schedule.ValidationError{Field: "duration", Reason: "must be 1-1440 minutes"}
			}
			routine.Duration = *patch.Duration
		}
		if patch.ConflictPolicy != nil {
			if !patch.ConflictPolicy.Valid() {
				return &schedule.ValidationError{Field: "conflictPolicy", Reason: "must be skip, push, notify or force"}
			}
			routine.ConflictPolicy = *patch.ConflictPolicy
		}

		if err := eng.routines.Save(ctx, routine); err != nil {
			return err
		}
		updated = routine
		return nil
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return updated, nil
}

// DeleteRoutine removes the routine. Already-generated tasks stay, with
// a dangling origin reference.
func (s *SchedulingService) DeleteRoutine(ctx context.Context, userID, routineID uint) error {
	if err := s.allow(userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		routine, err := eng.routines.FindByID(ctx, userID, routineID)
		if err != nil {
			return err
		}
		return eng.routines.Delete(ctx, userID, routine.ID)
	})
	return notFound(mapStoreErr(err))
}

// ToggleRoutine flips the active flag. Deactivation stops future
// generation but does not retract already-generated tasks.
func (s *SchedulingService) ToggleRoutine(ctx context.Context, userID, routineID uint) (*model.Routine, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	var updated *model.Routine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		routine, err := eng.routines.FindByID(ctx, userID, routineID)
		if err != nil {
			return err
		}
		routine.IsActive = !routine.IsActive
		if err := eng.routines.Save(ctx, routine); err != nil {
			return err
		}
		updated = routine
		return nil
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return updated, nil
}

// RegenerateDueRoutines sweeps every active routine across all users.
// Used by the periodic scheduler; failures on one routine do not stop the
// sweep.
func (s *SchedulingService) RegenerateDueRoutines(ctx context.Context) (int, error) {
	routines, err := repository.NewRoutineRepository(s.db).ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range routines {
		routine := routines[i]
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			eng := s.engine(tx)
			result, err := eng.generator.Generate(ctx, &routine, routine.UserID, s.now())
			if err != nil {
				return err
			}
			created += len(result.Created)
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return created, ctx.Err()
			}
			s.log.Error().Err(err).Uint("routine_id", routine.ID).Msg("regeneration sweep failed for routine")
		}
	}
	return created, nil
}

// ---- Time blocks ----

// TimeBlockInput creates or replaces a recurring unavailability window.
// Clock strings are "HH:MM".
type TimeBlockInput struct {
	StartTime     string
	EndTime       string
	RecurringDays []int
	Description   string
}

// TimeBlockPatch updates a subset of time block fields.
type TimeBlockPatch struct {
	StartTime     *string
	EndTime       *string
	RecurringDays *[]int
	Description   *string
}

// Availability is the result of a check-availability query.
type Availability struct {
	Available   bool
	Conflicting []model.TimeBlock
}

func validateBlockClocks(startClock, endClock string) (schedule.DayInterval, error) {
	start, err := schedule.ParseClock(startClock)
	if err != nil {
		return schedule.DayInterval{}, &schedule.ValidationError{Field: "startTime", Reason: err.Error()}
	}
	end, err := schedule.ParseClock(endClock)
	if err != nil {
		return schedule.DayInterval{}, &schedule.ValidationError{Field: "endTime", Reason: err.Error()}
	}
	if end <= start {
		return schedule.DayInterval{}, &schedule.ValidationError{Field: "endTime", Reason: "must be after startTime"}
	}
	return schedule.DayInterval{Start: start, End: end}, nil
}

func (s *SchedulingService) CreateTimeBlock(ctx context.Context, userID uint, in TimeBlockInput) (*model.TimeBlock, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	if _, err := validateBlockClocks(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if !model.Weekdays(in.RecurringDays).Valid() {
		return nil, &schedule.ValidationError{Field: "recurringDays", Reason: "weekdays must be 0-6 (Sunday-Saturday)"}
	}

	block := model.TimeBlock{
		UserID:        userID,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		RecurringDays: model.Weekdays(in.RecurringDays),
		Description:   in.Description,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.engine(tx).blocks.Create(ctx, &block)
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &block, nil
}

func (s *SchedulingService) ListTimeBlocks(ctx context.Context, userID uint) ([]model.TimeBlock, error) {
	return repository.NewTimeBlockRepository(s.db).ListByUser(ctx, userID)
}

func (s *SchedulingService) UpdateTimeBlock(ctx context.Context, userID, blockID uint, patch TimeBlockPatch) (*model.TimeBlock, error) {
	if err := s.allow(userID); err != nil {
		return nil, err
	}
	var updated *model.TimeBlock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		block, err := eng.blocks.FindByID(ctx, userID, blockID)
		if err != nil {
			return err
		}

		if patch.StartTime != nil {
			block.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			block.EndTime = *patch.EndTime
		}
		if _, err := validateBlockClocks(block.StartTime, block.EndTime); err != nil {
			return err
		}
		if patch.RecurringDays != nil {
			days := model.Weekdays(*patch.RecurringDays)
			if !days.Valid() {
				return &schedule.ValidationError{Field: "recurringDays", Reason: "weekdays must be 0-6 (Sunday-Saturday)"}
			}
			block.RecurringDays = days
		}
		if patch.Description != nil {
			block.Description = *patch.Description
		}

		if err := eng.blocks.Save(ctx, block); err != nil {
			return err
		}
		updated = block
		return nil
	})
	if err != nil {
		return nil, notFound(mapStoreErr(err))
	}
	return updated, nil
}

func (s *SchedulingService) DeleteTimeBlock(ctx context.Context, userID, blockID uint) error {
	if err := s.allow(userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eng := s.engine(tx)
		block, err := eng.blocks.FindByID(ctx, userID, blockID)
		if err != nil {
			return err
		}
		return eng.blocks.Delete(ctx, userID, block.ID)
	})
	return notFound(mapStoreErr(err))
}

// CheckAvailability reports whether the clock range is free of time
// blocks on the weekday of the given date. A zero date means today.
func (s *SchedulingService) CheckAvailability(ctx context.Context, userID uint, startClock, endClock string, date time.Time) (*Availability, error) {
	candidate, err := validateBlockClocks(startClock, endClock)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.now()
	}

	checker := schedule.NewBlockChecker(repository.NewTimeBlockRepository(s.db))
	conflicting, err := checker.ConflictingBlocks(ctx, userID, date.Weekday(), candidate)
	if err != nil {
		return nil, err
	}
	return &Availability{Available: len(conflicting) == 0, Conflicting: conflicting}, nil
}
