package service

import (
	"context"
	"fmt"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// IdentityResolver maps the caller's opaque identity to a registered user.
type IdentityResolver struct {
	users ports.UserRepository
}

func NewIdentityResolver(users ports.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve returns the caller's user record. Anonymous callers get
// ErrUnauthenticated, unknown identities ErrUserNotFound.
func (r *IdentityResolver) Resolve(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	u, err := r.users.FindByIdentity(ctx, caller.Identity)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return u, nil
}

// publicProfiles loads the public profiles of ids in one query. Empty ids are ignored.
func publicProfiles(ctx context.Context, users ports.UserRepository, ids []string) (map[string]*domain.PublicProfile, error) {
	wanted := uniqueNonEmpty(ids)
	out := make(map[string]*domain.PublicProfile, len(wanted))
	if len(wanted) == 0 {
		return out, nil
	}
	found, err := users.FindByIDs(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	for id, u := range found {
		out[id] = u.Public()
	}
	return out, nil
}

func uniqueNonEmpty(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
