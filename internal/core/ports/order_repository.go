package ports

import (
	"context"
	"time"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Create inserts the order; a second order for the same task yields
	// domain.ErrOrderExists.
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByTaskID(ctx context.Context, taskID string) (*domain.Order, error)
	// ListByParticipant returns orders where userID is customer or developer, newest first.
	ListByParticipant(ctx context.Context, userID string) ([]*domain.Order, error)
	ListByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Order, error)
	SetOutTradeNo(ctx context.Context, id, outTradeNo string) error

	// TransitionDeposit and TransitionPayment are conditional updates: they
	// return domain.ErrStaleState when the current status differs from from.
	// at is stored as the timestamp belonging to the target status.
	TransitionDeposit(ctx context.Context, id string, from, to domain.DepositStatus, at time.Time) error
	TransitionPayment(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) error
}
