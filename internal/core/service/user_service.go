package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// UserService implements registration and profile management.
type UserService struct {
	users    ports.UserRepository
	identity *IdentityResolver
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, identity: NewIdentityResolver(users), log: log}
}

// Register creates the caller's user on first call and refreshes the profile
// on later calls. Rating and completed-order counter survive re-registration.
func (s *UserService) Register(ctx context.Context, caller domain.Caller, in ports.RegisterInput) (*domain.User, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("register: %w: userType must be customer or developer", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:              uuid.NewString(),
		Identity:        caller.Identity,
		Nickname:        in.Nickname,
		Avatar:          in.Avatar,
		Role:            in.Role,
		Skills:          domain.NormalizeSkills(in.Role, in.Skills),
		Rating:          domain.DefaultRating,
		CompletedOrders: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stored, err := s.users.Register(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to register user")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", stored.ID).Str("role", string(stored.Role)).Msg("user registered")
	return stored, nil
}

func (s *UserService) GetProfile(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	return s.identity.Resolve(ctx, caller)
}

// UpdateProfile applies a partial update. Switching away from the developer
// role clears the skill list.
func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Caller, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if update.Role != nil && !update.Role.Valid() {
		return nil, fmt.Errorf("update profile: %w: userType must be customer or developer", domain.ErrInvalidInput)
	}
	if update.Empty() {
		return user, nil
	}

	role := user.Role
	if update.Role != nil {
		role = *update.Role
	}
	if update.Skills != nil || role != user.Role {
		skills := update.Skills
		if skills == nil {
			skills = user.Skills
		}
		update.Skills = domain.NormalizeSkills(role, skills)
	}

	updated, err := s.users.UpdateProfile(ctx, user.ID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}
