package ports

import (
	"context"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// RegisterInput carries the profile submitted on registration.
type RegisterInput struct {
	Nickname string
	Avatar   string
	Role     domain.Role
	Skills   []string
}

// UserService defines use-case operations for user profiles.
type UserService interface {
	Register(ctx context.Context, caller domain.Caller, in RegisterInput) (*domain.User, error)
	GetProfile(ctx context.Context, caller domain.Caller) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller domain.Caller, update domain.ProfileUpdate) (*domain.User, error)
}

// CreateTaskInput carries all data needed to post a new task.
type CreateTaskInput struct {
	Title            string
	Description      string
	BudgetRange      domain.BudgetRange
	Deadline         string
	TechStack        []string
	FinalPrice       float64
	AISuggestedPrice float64
}

// ListTasksInput carries the optional filters of the public task list.
type ListTasksInput struct {
	Status    domain.TaskStatus // empty = open statuses
	MaxPrice  *float64
	TechStack []string
}

// EstimateInput carries the task attributes used by the price estimator.
type EstimateInput struct {
	Title       string
	Description string
	BudgetRange domain.BudgetRange
	TechStack   []string
}

// TaskService defines use-case operations for the task lifecycle.
type TaskService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, in ListTasksInput) ([]domain.TaskView, error)
	Detail(ctx context.Context, taskID string) (*domain.TaskView, error)
	MyPublished(ctx context.Context, caller domain.Caller) ([]domain.TaskView, error)
	MyGrabbed(ctx context.Context, caller domain.Caller) ([]domain.TaskView, error)
	Grab(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error)
	Cancel(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error)
	Estimate(in EstimateInput) (domain.Estimate, error)
}

// OrderService defines use-case operations for the order lifecycle.
type OrderService interface {
	Create(ctx context.Context, caller domain.Caller, taskID string) (*domain.Order, error)
	MyOrders(ctx context.Context, caller domain.Caller) ([]domain.OrderView, error)
	SubmitComplete(ctx context.Context, caller domain.Caller, taskID string) error
	ConfirmComplete(ctx context.Context, caller domain.Caller, taskID string) error
}

// PaymentCallbackInput is the gateway's asynchronous trade result.
type PaymentCallbackInput struct {
	OrderID    string
	OutTradeNo string
	ReturnCode string
	ResultCode string
}

// PaymentService is the boundary to the payment gateway.
type PaymentService interface {
	CreatePayment(ctx context.Context, caller domain.Caller, orderID string) (*domain.PaymentParams, error)
	HandleCallback(ctx context.Context, in PaymentCallbackInput) error
}

// CreateReviewInput carries a participant's rating of a completed task.
type CreateReviewInput struct {
	TaskID  string
	Rating  int
	Comment string
	Tags    []string
}

// ReviewService defines use-case operations for reviews and ratings.
type ReviewService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateReviewInput) (*domain.Review, error)
	UserReviews(ctx context.Context, userID string) ([]domain.ReviewView, error)
}

// SettlementJob asks the settlement workers to pay out one order.
type SettlementJob struct {
	OrderID string
}

// SettlementQueue accepts settlement jobs for asynchronous processing.
type SettlementQueue interface {
	Enqueue(job SettlementJob)
}

// SettlementService pays out orders that are pending settlement.
type SettlementService interface {
	Settle(ctx context.Context, job SettlementJob) error
	// Pending lists the jobs for every order still awaiting settlement.
	Pending(ctx context.Context) ([]SettlementJob, error)
}
