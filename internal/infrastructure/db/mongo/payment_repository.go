package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

const (
	collectionPaymentEvents = "payment_events"
	collectionPayouts       = "payouts"
)

// PaymentEventRepository persists gateway callbacks to the payment_events audit collection.
type PaymentEventRepository struct {
	col *mongo.Collection
}

func NewPaymentEventRepository(db *mongo.Database) *PaymentEventRepository {
	return &PaymentEventRepository{col: db.Collection(collectionPaymentEvents)}
}

func (r *PaymentEventRepository) Insert(ctx context.Context, e *domain.PaymentEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"order_id":     e.OrderID,
		"out_trade_no": e.OutTradeNo,
		"return_code":  e.ReturnCode,
		"result_code":  e.ResultCode,
		"succeeded":    e.Succeeded,
		"received_at":  e.ReceivedAt.UTC(),
		"processed_at": time.Now().UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *PaymentEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "received_at", Value: -1}},
	})
	return err
}

// PayoutLedger records payout instructions for the external payout
// collaborator, which picks up documents in the requested state. One entry
// per order; repeating a payout is a no-op.
type PayoutLedger struct {
	col *mongo.Collection
}

func NewPayoutLedger(db *mongo.Database) *PayoutLedger {
	return &PayoutLedger{col: db.Collection(collectionPayouts)}
}

func (l *PayoutLedger) Payout(ctx context.Context, p domain.Payout) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":          p.OrderID,
		"developer_id": p.DeveloperID,
		"amount":       p.Amount,
		"status":       "requested",
		"created_at":   time.Now().UTC(),
	}
	if _, err := l.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("record payout: %w", err)
	}
	return nil
}

func (l *PayoutLedger) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := l.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "developer_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
