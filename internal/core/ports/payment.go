package ports

import (
	"context"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// PaymentGateway is the external collaborator that collects deposits.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, intent domain.PaymentIntent) (*domain.PaymentParams, error)
}

// PayoutGateway is the external collaborator that moves the developer's share.
// Payout must be idempotent per order id.
type PayoutGateway interface {
	Payout(ctx context.Context, p domain.Payout) error
}

// PaymentEventRepository persists the audit trail of gateway callbacks.
type PaymentEventRepository interface {
	Insert(ctx context.Context, e *domain.PaymentEvent) error
}
