package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

type OrderService struct {
	orders   ports.OrderRepository
	tasks    ports.TaskRepository
	users    ports.UserRepository
	identity *IdentityResolver
	queue    ports.SettlementQueue
	logger   zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	queue ports.SettlementQueue,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		tasks:    tasks,
		users:    users,
		identity: NewIdentityResolver(users),
		queue:    queue,
		logger:   logger,
	}
}

// Create opens the order for a grabbed task. Only the task's customer may do
// so, and only once per task.
func (s *OrderService) Create(ctx context.Context, caller domain.Caller, taskID string) (*domain.Order, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if task.CustomerID != user.ID {
		return nil, fmt.Errorf("create order: %w: only the task owner can create an order", domain.ErrForbidden)
	}
	if task.Status != domain.TaskGrabbed {
		return nil, fmt.Errorf("create order: %w: task is %s, want %s", domain.ErrInvalidState, task.Status, domain.TaskGrabbed)
	}

	// Fast path; the unique index on task_id settles concurrent creates.
	if _, err := s.orders.FindByTaskID(ctx, task.ID); err == nil {
		return nil, fmt.Errorf("create order: %w", domain.ErrOrderExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order := domain.NewOrder(uuid.NewString(), task, time.Now().UTC())
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("task_id", task.ID).
		Float64("amount", order.Amount).
		Msg("order created")
	return order, nil
}

// MyOrders lists every order the caller takes part in, newest first.
func (s *OrderService) MyOrders(ctx context.Context, caller domain.Caller) ([]domain.OrderView, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByParticipant(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("my orders: %w", err)
	}

	taskIDs := make([]string, 0, len(orders))
	userIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		taskIDs = append(taskIDs, o.TaskID)
		userIDs = append(userIDs, o.Counterparty(user.ID))
	}
	tasks, err := s.tasks.FindByIDs(ctx, uniqueNonEmpty(taskIDs))
	if err != nil {
		return nil, fmt.Errorf("my orders: load tasks: %w", err)
	}
	profiles, err := publicProfiles(ctx, s.users, userIDs)
	if err != nil {
		return nil, fmt.Errorf("my orders: %w", err)
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, domain.OrderView{
			Order:         o,
			TaskInfo:      tasks[o.TaskID],
			OtherUserInfo: profiles[o.Counterparty(user.ID)],
		})
	}
	return views, nil
}

// SubmitComplete marks the assigned developer's work as submitted for review.
func (s *OrderService) SubmitComplete(ctx context.Context, caller domain.Caller, taskID string) error {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("submit complete: %w", err)
	}
	if task.DeveloperID == "" || task.DeveloperID != user.ID {
		return fmt.Errorf("submit complete: %w: only the assigned developer can submit", domain.ErrForbidden)
	}
	if err := requireStatus(task, domain.TaskSubmitted); err != nil {
		return fmt.Errorf("submit complete: %w", err)
	}

	if _, err := s.tasks.Transition(ctx, task.ID, domain.SourcesFor(domain.TaskSubmitted), domain.TaskChange{
		Status: domain.TaskSubmitted,
	}); err != nil {
		return fmt.Errorf("submit complete: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("developer_id", user.ID).Msg("work submitted")
	return nil
}

// ConfirmComplete closes the task on the customer's confirmation. The task
// transition is conditional, so a repeated confirmation fails instead of
// counting the order twice. The order must hold a paid deposit; it then waits
// for settlement.
func (s *OrderService) ConfirmComplete(ctx context.Context, caller domain.Caller, taskID string) error {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("confirm complete: %w", err)
	}
	if task.CustomerID != user.ID {
		return fmt.Errorf("confirm complete: %w: only the task owner can confirm", domain.ErrForbidden)
	}
	if err := requireStatus(task, domain.TaskCompleted); err != nil {
		return fmt.Errorf("confirm complete: %w", err)
	}

	order, err := s.orders.FindByTaskID(ctx, task.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		order = nil
	case err != nil:
		return fmt.Errorf("confirm complete: load order: %w", err)
	case order.DepositStatus != domain.DepositPaid:
		return fmt.Errorf("confirm complete: %w: deposit not paid", domain.ErrInvalidState)
	}

	if _, err := s.tasks.Transition(ctx, task.ID, []domain.TaskStatus{domain.TaskSubmitted}, domain.TaskChange{
		Status: domain.TaskCompleted,
	}); err != nil {
		return fmt.Errorf("confirm complete: %w", err)
	}

	if order == nil {
		s.logger.Warn().Str("task_id", task.ID).Msg("task completed without an order, nothing to settle")
	} else if err := s.orders.TransitionPayment(ctx, order.ID, domain.PaymentPending, domain.PaymentSettling, time.Now().UTC()); err != nil {
		return fmt.Errorf("confirm complete: mark order settling: %w", err)
	}

	if err := s.users.IncrementCompletedOrders(ctx, task.DeveloperID); err != nil {
		return fmt.Errorf("confirm complete: increment completed orders: %w", err)
	}

	if order != nil {
		s.queue.Enqueue(ports.SettlementJob{OrderID: order.ID})
	}

	s.logger.Info().Str("task_id", task.ID).Str("developer_id", task.DeveloperID).Msg("task completed")
	return nil
}
