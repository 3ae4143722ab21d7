package ports

import (
	"context"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// UserRepository defines persistence operations for marketplace users.
type UserRepository interface {
	// Register inserts the user keyed by identity, or refreshes the profile
	// fields of an existing one. Rating and counters of an existing user are
	// preserved. The stored document is returned.
	Register(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByIdentity(ctx context.Context, identity string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users found, keyed by id. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	// IncrementCompletedOrders atomically adds one to the user's counter.
	IncrementCompletedOrders(ctx context.Context, id string) error
	SetRating(ctx context.Context, id string, rating float64) error
}
