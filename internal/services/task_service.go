package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"task-app/internal/config"
	"task-app/internal/domain"
	"task-app/internal/errors"
	"task-app/internal/repository"
	"task-app/internal/validation"
)

// idBatchSize bounds the number of bind parameters per lookup query.
const idBatchSize = 100

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	queryTimeout  time.Duration
	now           func() time.Time
}

// NewTaskService creates a new TaskService instance. A nil cfg uses defaults.
func NewTaskService(repo repository.Repository, cfg *config.Config) TaskService {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidatorWithConfig(cfg),
		queryTimeout:  cfg.GetQueryTimeout(),
		now:           time.Now,
	}
}

func (t *taskServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.queryTimeout)
}

// invalid wraps a validation failure as an application error
func invalid(message string, err error) error {
	if ve, ok := validation.AsValidationError(err); ok {
		return errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	}
	return errors.NewValidationError(message, err)
}

// canonicalID validates id and returns its lower-case hyphenated form,
// which is how ids are stored.
func (t *taskServiceImpl) canonicalID(id string) (string, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return "", invalid("invalid task ID", err)
	}
	return uuid.MustParse(id).String(), nil
}

// CreateTask validates the input and persists a new task
func (t *taskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskForCreation(input.Title, input.Status, input.Priority); err != nil {
		return nil, invalid("invalid task", err)
	}

	task := domain.NewTask(strings.TrimSpace(input.Title), t.now())
	task.Description = input.Description
	task.Priority = input.Priority
	if input.Status != nil {
		task.Status = *input.Status
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	record := t.mapper.Task.ToRecord(task)
	if err := t.repo.CreateTask(ctx, &record); err != nil {
		return nil, err
	}

	return &task, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	id, err := t.canonicalID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	record, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromRecord(*record)
	return &task, nil
}

// ListTasks returns tasks newest first, optionally filtered by status
func (t *taskServiceImpl) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if filter.Status != nil {
		if err := t.taskValidator.ValidateStatus(*filter.Status); err != nil {
			return nil, invalid("invalid status filter", err)
		}
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	records, err := t.repo.ListTasks(ctx, t.mapper.Task.FilterToListOptions(filter))
	if err != nil {
		return nil, err
	}

	return t.mapper.Task.FromRecordSlice(records), nil
}

// ListTasksByIDs loads every requested task, in request order with
// duplicates removed. A missing id fails the whole call with not found.
func (t *taskServiceImpl) ListTasksByIDs(ctx context.Context, ids []string) ([]*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskIDs(ids); err != nil {
		return nil, invalid("invalid task IDs", err)
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		key := strings.ToLower(id)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, key)
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		found = make(map[string]*domain.Task, len(unique))
	)

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(unique); start += idBatchSize {
		end := min(start+idBatchSize, len(unique))
		batch := unique[start:end]

		g.Go(func() error {
			records, err := t.repo.ListTasksByIDs(gctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, record := range records {
				task := t.mapper.Task.FromRecord(*record)
				found[strings.ToLower(task.ID)] = &task
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(unique))
	for _, id := range unique {
		task, ok := found[id]
		if !ok {
			return nil, errors.NewNotFoundError("task", id)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// UpdateTask applies a partial update and returns the full task
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	id, err := t.canonicalID(id)
	if err != nil {
		return nil, err
	}
	if err := t.taskValidator.ValidateTaskPatch(patch); err != nil {
		return nil, invalid("invalid task update", err)
	}
	if patch.Title.Set && patch.Title.Value != nil {
		trimmed := strings.TrimSpace(*patch.Title.Value)
		patch.Title.Value = &trimmed
	}

	task, err := t.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.ApplyTo(task, t.now())

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	record := t.mapper.Task.ToRecord(*task)
	if err := t.repo.UpdateTask(ctx, &record); err != nil {
		return nil, err
	}

	return task, nil
}

// UpdatePriorities sets the priority of each suggested task. Either
// every task is updated or none is.
func (t *taskServiceImpl) UpdatePriorities(ctx context.Context, suggestions []domain.PrioritySuggestion) ([]*domain.Task, error) {
	ids := make([]string, 0, len(suggestions))
	for _, sug := range suggestions {
		if err := t.taskValidator.ValidatePriority(sug.SuggestedPriority); err != nil {
			return nil, invalid("invalid priority", err)
		}
		ids = append(ids, sug.TaskID)
	}

	tasks, err := t.ListTasksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Task, len(tasks))
	for _, task := range tasks {
		byID[strings.ToLower(task.ID)] = task
	}

	now := t.now()
	for _, sug := range suggestions {
		domain.TaskPatch{Priority: domain.Some(sug.SuggestedPriority)}.ApplyTo(byID[strings.ToLower(sug.TaskID)], now)
	}

	records := make([]*repository.TaskRecord, 0, len(tasks))
	for _, task := range tasks {
		record := t.mapper.Task.ToRecord(*task)
		records = append(records, &record)
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	if err := t.repo.UpdateTasks(ctx, records); err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteTask removes a task
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	id, err := t.canonicalID(id)
	if err != nil {
		return err
	}

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	return t.repo.DeleteTask(ctx, id)
}
