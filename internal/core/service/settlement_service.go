package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// SettlementService pays developers for confirmed orders. An order stays in
// the settling state until the payout collaborator accepts the payout.
type SettlementService struct {
	orders ports.OrderRepository
	payout ports.PayoutGateway
	log    zerolog.Logger
}

func NewSettlementService(orders ports.OrderRepository, payout ports.PayoutGateway, log zerolog.Logger) *SettlementService {
	return &SettlementService{orders: orders, payout: payout, log: log}
}

// Settle pays out one order. Already settled orders are skipped and an order
// without a paid deposit is never paid out.
func (s *SettlementService) Settle(ctx context.Context, job ports.SettlementJob) error {
	order, err := s.orders.FindByID(ctx, job.OrderID)
	if err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	switch order.PaymentStatus {
	case domain.PaymentPaid:
		s.log.Debug().Str("order_id", order.ID).Msg("order already settled")
		return nil
	case domain.PaymentSettling:
	default:
		return fmt.Errorf("settle: %w: order payment is %s", domain.ErrInvalidState, order.PaymentStatus)
	}
	if order.DepositStatus != domain.DepositPaid {
		return fmt.Errorf("settle: %w: deposit not paid", domain.ErrInvalidState)
	}

	if err := s.payout.Payout(ctx, domain.Payout{
		OrderID:     order.ID,
		DeveloperID: order.DeveloperID,
		Amount:      order.DeveloperAmount,
	}); err != nil {
		return fmt.Errorf("settle: payout: %w", err)
	}

	if err := s.orders.TransitionPayment(ctx, order.ID, domain.PaymentSettling, domain.PaymentPaid, time.Now().UTC()); err != nil {
		return fmt.Errorf("settle: mark paid: %w", err)
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("developer_id", order.DeveloperID).
		Float64("developer_amount", order.DeveloperAmount).
		Msg("order settled")
	return nil
}

// Pending returns a job for every order still awaiting settlement.
func (s *SettlementService) Pending(ctx context.Context) ([]ports.SettlementJob, error) {
	orders, err := s.orders.ListByPaymentStatus(ctx, domain.PaymentSettling)
	if err != nil {
		return nil, fmt.Errorf("pending settlements: %w", err)
	}
	jobs := make([]ports.SettlementJob, 0, len(orders))
	for _, o := range orders {
		jobs = append(jobs, ports.SettlementJob{OrderID: o.ID})
	}
	return jobs, nil
}
