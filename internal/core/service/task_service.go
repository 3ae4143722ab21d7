package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// listLimit caps the public task list.
const listLimit = 50

type TaskService struct {
	tasks    ports.TaskRepository
	users    ports.UserRepository
	identity *IdentityResolver
	logger   zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		identity: NewIdentityResolver(users),
		logger:   logger,
	}
}

// Create posts a new pending task owned by the caller.
func (s *TaskService) Create(ctx context.Context, caller domain.Caller, in ports.CreateTaskInput) (*domain.Task, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("create task: %w: title is required", domain.ErrInvalidInput)
	}
	if err := in.BudgetRange.Validate(); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	techStack := in.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:               uuid.NewString(),
		CustomerID:       user.ID,
		Title:            in.Title,
		Description:      in.Description,
		BudgetRange:      in.BudgetRange,
		Deadline:         in.Deadline,
		TechStack:        techStack,
		AISuggestedPrice: in.AISuggestedPrice,
		FinalPrice:       in.FinalPrice,
		Status:           domain.TaskPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("customer_id", user.ID).Msg("task created")
	return task, nil
}

// List returns the public task board. Without a status filter only tasks that
// are still in flight are shown.
func (s *TaskService) List(ctx context.Context, in ports.ListTasksInput) ([]domain.TaskView, error) {
	filter := ports.TaskFilter{
		Statuses:  domain.OpenTaskStatuses,
		MaxPrice:  in.MaxPrice,
		TechStack: in.TechStack,
		Limit:     listLimit,
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("list tasks: %w: unknown status %q", domain.ErrInvalidInput, in.Status)
		}
		filter.Statuses = []domain.TaskStatus{in.Status}
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.CustomerID)
	}
	profiles, err := publicProfiles(ctx, s.users, ids)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	views := make([]domain.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, domain.TaskView{Task: t, CustomerInfo: profiles[t.CustomerID]})
	}
	return views, nil
}

// Detail returns one task with both participants' public profiles.
func (s *TaskService) Detail(ctx context.Context, taskID string) (*domain.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("task detail: %w", err)
	}
	profiles, err := publicProfiles(ctx, s.users, []string{task.CustomerID, task.DeveloperID})
	if err != nil {
		return nil, fmt.Errorf("task detail: %w", err)
	}
	return &domain.TaskView{
		Task:          task,
		CustomerInfo:  profiles[task.CustomerID],
		DeveloperInfo: profiles[task.DeveloperID],
	}, nil
}

// MyPublished lists the caller's own tasks with the assigned developer, if any.
func (s *TaskService) MyPublished(ctx context.Context, caller domain.Caller) ([]domain.TaskView, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.mine(ctx, user.ID, ports.TaskFilter{CustomerID: user.ID})
}

// MyGrabbed lists the tasks the caller grabbed with their customers.
func (s *TaskService) MyGrabbed(ctx context.Context, caller domain.Caller) ([]domain.TaskView, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.mine(ctx, user.ID, ports.TaskFilter{DeveloperID: user.ID})
}

func (s *TaskService) mine(ctx context.Context, userID string, filter ports.TaskFilter) ([]domain.TaskView, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list my tasks: %w", err)
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.Counterparty(userID))
	}
	profiles, err := publicProfiles(ctx, s.users, ids)
	if err != nil {
		return nil, fmt.Errorf("list my tasks: %w", err)
	}

	views := make([]domain.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, domain.TaskView{Task: t, OtherUserInfo: profiles[t.Counterparty(userID)]})
	}
	return views, nil
}

// Grab assigns a pending task to the calling developer. The assignment is a
// conditional write, so of two concurrent grabs exactly one succeeds and the
// other gets a conflict.
func (s *TaskService) Grab(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("grab task: %w", err)
	}

	// Self-claim is rejected before the role check.
	if task.CustomerID == user.ID {
		return nil, fmt.Errorf("grab task: %w: cannot grab your own task", domain.ErrForbidden)
	}
	if user.Role != domain.RoleDeveloper {
		return nil, fmt.Errorf("grab task: %w: only developers can grab tasks", domain.ErrForbidden)
	}
	if err := requireStatus(task, domain.TaskGrabbed); err != nil {
		return nil, fmt.Errorf("grab task: %w", err)
	}

	grabbed, err := s.tasks.Transition(ctx, task.ID, []domain.TaskStatus{domain.TaskPending}, domain.TaskChange{
		Status:      domain.TaskGrabbed,
		DeveloperID: user.ID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			s.logger.Info().Str("task_id", task.ID).Str("developer_id", user.ID).Msg("grab lost race")
		}
		return nil, fmt.Errorf("grab task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("developer_id", user.ID).Msg("task grabbed")
	return grabbed, nil
}

// Cancel withdraws a task that nobody has grabbed yet.
func (s *TaskService) Cancel(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("cancel task: %w", err)
	}
	if task.CustomerID != user.ID {
		return nil, fmt.Errorf("cancel task: %w: only the owner can cancel", domain.ErrForbidden)
	}
	if err := requireStatus(task, domain.TaskCancelled); err != nil {
		return nil, fmt.Errorf("cancel task: %w", err)
	}

	cancelled, err := s.tasks.Transition(ctx, task.ID, []domain.TaskStatus{domain.TaskPending}, domain.TaskChange{
		Status: domain.TaskCancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("cancel task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Msg("task cancelled")
	return cancelled, nil
}

// Estimate suggests a price. It touches no storage.
func (s *TaskService) Estimate(in ports.EstimateInput) (domain.Estimate, error) {
	return domain.EstimatePrice(in.Description, in.BudgetRange, len(in.TechStack))
}

// requireStatus fails with ErrInvalidTransition unless the task may move to next.
func requireStatus(task *domain.Task, next domain.TaskStatus) error {
	if !task.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, task.Status, next)
	}
	return nil
}
