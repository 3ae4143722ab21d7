package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

// Create inserts the order. The unique task_id index turns a concurrent second
// order into ErrOrderExists.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OrderRepository) FindByTaskID(ctx context.Context, taskID string) (*domain.Order, error) {
	return r.findOne(ctx, bson.M{"task_id": taskID})
}

func (r *OrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	if err := r.col.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByParticipant(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"$or": bson.A{
		bson.M{"customer_id": userID},
		bson.M{"developer_id": userID},
	}})
}

func (r *OrderRepository) ListByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"payment_status": status})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]*domain.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) SetOutTradeNo(ctx context.Context, id, outTradeNo string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"out_trade_no": outTradeNo}})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) TransitionDeposit(ctx context.Context, id string, from, to domain.DepositStatus, at time.Time) error {
	set := bson.M{"deposit_status": to}
	if to == domain.DepositPaid {
		set["deposit_paid_at"] = at.UTC()
	}
	return r.compareAndSet(ctx, bson.M{"_id": id, "deposit_status": from}, set)
}

func (r *OrderRepository) TransitionPayment(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) error {
	set := bson.M{"payment_status": to}
	switch to {
	case domain.PaymentSettling:
		set["completed_at"] = at.UTC()
	case domain.PaymentPaid:
		set["settled_at"] = at.UTC()
	}
	return r.compareAndSet(ctx, bson.M{"_id": id, "payment_status": from}, set)
}

func (r *OrderRepository) compareAndSet(ctx context.Context, filter, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("transition order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrStaleState
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "developer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment_status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
