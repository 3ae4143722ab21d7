package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "taskmarket"
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetAppName(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories bundles every collection-backed adapter of the service.
type Repositories struct {
	Users         *UserRepository
	Tasks         *TaskRepository
	Orders        *OrderRepository
	Reviews       *ReviewRepository
	PaymentEvents *PaymentEventRepository
	Payouts       *PayoutLedger
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Tasks:         NewTaskRepository(db),
		Orders:        NewOrderRepository(db),
		Reviews:       NewReviewRepository(db),
		PaymentEvents: NewPaymentEventRepository(db),
		Payouts:       NewPayoutLedger(db),
	}
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every collection. The unique indexes on
// users.identity, orders.task_id and reviews(task_id, from_user_id) back the
// one-per-key invariants.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		ix   indexer
	}{
		{collectionUsers, r.Users},
		{collectionTasks, r.Tasks},
		{collectionOrders, r.Orders},
		{collectionReviews, r.Reviews},
		{collectionPaymentEvents, r.PaymentEvents},
		{collectionPayouts, r.Payouts},
	}
	for _, s := range steps {
		if err := s.ix.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	return nil
}
