package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const depositDescription = "task deposit"

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, outTradeNo, resultCode string) (bool, error)
	Mark(ctx context.Context, outTradeNo, resultCode string) error
}

type PaymentService struct {
	orders   ports.OrderRepository
	tasks    ports.TaskRepository
	events   ports.PaymentEventRepository
	gateway  ports.PaymentGateway
	dedup    DedupChecker
	identity *IdentityResolver
	log      zerolog.Logger
}

func NewPaymentService(
	orders ports.OrderRepository,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	events ports.PaymentEventRepository,
	gateway ports.PaymentGateway,
	dedup DedupChecker,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		tasks:    tasks,
		events:   events,
		gateway:  gateway,
		dedup:    dedup,
		identity: NewIdentityResolver(users),
		log:      log,
	}
}

// CreatePayment asks the gateway for a deposit intent covering the order amount.
func (s *PaymentService) CreatePayment(ctx context.Context, caller domain.Caller, orderID string) (*domain.PaymentParams, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if order.CustomerID != user.ID {
		return nil, fmt.Errorf("create payment: %w: only the customer pays the deposit", domain.ErrForbidden)
	}
	if order.DepositStatus == domain.DepositPaid {
		return nil, fmt.Errorf("create payment: %w: deposit already paid", domain.ErrInvalidState)
	}

	intent := domain.PaymentIntent{
		OrderID:     order.ID,
		OutTradeNo:  fmt.Sprintf("%s-%d", order.ID, time.Now().UnixMilli()),
		TotalFee:    domain.ToCents(order.Amount),
		Description: depositDescription,
	}
	params, err := s.gateway.CreateIntent(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("create payment: gateway: %w", err)
	}
	if err := s.orders.SetOutTradeNo(ctx, order.ID, intent.OutTradeNo); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("out_trade_no", intent.OutTradeNo).
		Int64("total_fee", intent.TotalFee).
		Msg("payment intent created")
	return params, nil
}

// HandleCallback applies the gateway's trade result. A successful result marks
// the deposit paid and starts the work on the task. Callbacks for a deposit
// that is already paid are acknowledged without side effects; callbacks for a
// superseded intent are rejected.
func (s *PaymentService) HandleCallback(ctx context.Context, in ports.PaymentCallbackInput) error {
	dedupKey := in.OutTradeNo
	if dedupKey == "" {
		dedupKey = in.OrderID
	}

	// 1. Idempotency check; skip callbacks already applied.
	isDup, err := s.dedup.IsDuplicate(ctx, dedupKey, in.ResultCode)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", in.OrderID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("order_id", in.OrderID).Str("result_code", in.ResultCode).Msg("duplicate callback skipped")
		return nil
	}

	// 2. Find the order.
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return fmt.Errorf("payment callback: %w", err)
	}

	now := time.Now().UTC()
	event := &domain.PaymentEvent{
		OrderID:    order.ID,
		OutTradeNo: in.OutTradeNo,
		ReturnCode: in.ReturnCode,
		ResultCode: in.ResultCode,
		Succeeded:  in.ReturnCode == domain.GatewaySuccess && in.ResultCode == domain.GatewaySuccess,
		ReceivedAt: now,
	}
	defer s.audit(ctx, event)

	// Only the most recent intent may settle the deposit.
	if order.OutTradeNo != "" && in.OutTradeNo != "" && in.OutTradeNo != order.OutTradeNo {
		s.log.Warn().
			Str("order_id", order.ID).
			Str("out_trade_no", in.OutTradeNo).
			Str("current_out_trade_no", order.OutTradeNo).
			Msg("callback for a superseded payment intent")
		return fmt.Errorf("payment callback: %w: out trade no does not match the current intent", domain.ErrConflict)
	}

	if !event.Succeeded {
		s.log.Warn().
			Str("order_id", order.ID).
			Str("return_code", in.ReturnCode).
			Str("result_code", in.ResultCode).
			Msg("payment failed")
		return fmt.Errorf("payment callback: %w", domain.ErrPaymentFailed)
	}

	// 3. Mark the deposit paid. Losing the race means another callback already did.
	if order.DepositStatus == domain.DepositPaid {
		s.log.Info().Str("order_id", order.ID).Msg("deposit already paid")
		return nil
	}
	if err := s.orders.TransitionDeposit(ctx, order.ID, domain.DepositPending, domain.DepositPaid, now); err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			s.log.Info().Str("order_id", order.ID).Msg("deposit already paid")
			return nil
		}
		return fmt.Errorf("payment callback: mark deposit paid: %w", err)
	}

	// 4. Work starts once the deposit is held.
	if _, err := s.tasks.Transition(ctx, order.TaskID, []domain.TaskStatus{domain.TaskGrabbed}, domain.TaskChange{
		Status: domain.TaskWorking,
	}); err != nil {
		if !errors.Is(err, domain.ErrStaleState) {
			return fmt.Errorf("payment callback: start task: %w", err)
		}
		s.log.Warn().Str("task_id", order.TaskID).Msg("task not in grabbed state, deposit recorded only")
	}

	// 5. Remember the callback only once it has been applied.
	if markErr := s.dedup.Mark(ctx, dedupKey, in.ResultCode); markErr != nil {
		s.log.Warn().Err(markErr).Str("order_id", order.ID).Msg("failed to set dedup key")
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("task_id", order.TaskID).
		Str("out_trade_no", in.OutTradeNo).
		Msg("deposit paid")
	return nil
}

// audit inserts the callback into the audit trail (non-fatal on failure).
func (s *PaymentService) audit(ctx context.Context, e *domain.PaymentEvent) {
	if err := s.events.Insert(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("order_id", e.OrderID).Msg("failed to insert payment event")
	}
}
