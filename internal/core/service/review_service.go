package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// reviewListLimit caps the reviews returned for one user.
const reviewListLimit = 50

type ReviewService struct {
	reviews  ports.ReviewRepository
	tasks    ports.TaskRepository
	orders   ports.OrderRepository
	users    ports.UserRepository
	identity *IdentityResolver
	logger   zerolog.Logger
}

func NewReviewService(
	reviews ports.ReviewRepository,
	tasks ports.TaskRepository,
	orders ports.OrderRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		tasks:    tasks,
		orders:   orders,
		users:    users,
		identity: NewIdentityResolver(users),
		logger:   logger,
	}
}

// Create records the caller's rating of the other participant of a completed
// task and refreshes that participant's average rating.
func (s *ReviewService) Create(ctx context.Context, caller domain.Caller, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, fmt.Errorf("create review: %w: rating must be between %d and %d",
			domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	user, err := s.identity.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if task.Status != domain.TaskCompleted {
		return nil, fmt.Errorf("create review: %w: only completed tasks can be reviewed", domain.ErrInvalidState)
	}
	if !task.IsParticipant(user.ID) {
		return nil, fmt.Errorf("create review: %w: not a participant of this task", domain.ErrForbidden)
	}

	exists, err := s.reviews.ExistsByTaskAndAuthor(ctx, task.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("create review: %w", domain.ErrReviewExists)
	}

	var orderID string
	if order, err := s.orders.FindByTaskID(ctx, task.ID); err == nil {
		orderID = order.ID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create review: load order: %w", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	review := &domain.Review{
		ID:         uuid.NewString(),
		TaskID:     task.ID,
		OrderID:    orderID,
		FromUserID: user.ID,
		ToUserID:   task.Counterparty(user.ID),
		Rating:     in.Rating,
		Comment:    in.Comment,
		Tags:       tags,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.refreshRating(ctx, review.ToUserID); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("from_user_id", review.FromUserID).
		Str("to_user_id", review.ToUserID).
		Int("rating", review.Rating).
		Msg("review created")
	return review, nil
}

func (s *ReviewService) refreshRating(ctx context.Context, userID string) error {
	stats, err := s.reviews.RatingStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("rating stats: %w", err)
	}
	if err := s.users.SetRating(ctx, userID, stats.Average()); err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}

// UserReviews returns the latest reviews received by userID.
func (s *ReviewService) UserReviews(ctx context.Context, userID string) ([]domain.ReviewView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user reviews: %w: userId is required", domain.ErrInvalidInput)
	}
	reviews, err := s.reviews.ListByRecipient(ctx, userID, reviewListLimit)
	if err != nil {
		return nil, fmt.Errorf("user reviews: %w", err)
	}

	authorIDs := make([]string, 0, len(reviews))
	taskIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		authorIDs = append(authorIDs, r.FromUserID)
		taskIDs = append(taskIDs, r.TaskID)
	}
	authors, err := publicProfiles(ctx, s.users, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("user reviews: %w", err)
	}
	tasks, err := s.tasks.FindByIDs(ctx, uniqueNonEmpty(taskIDs))
	if err != nil {
		return nil, fmt.Errorf("user reviews: load tasks: %w", err)
	}

	views := make([]domain.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		v := domain.ReviewView{Review: r, FromUserInfo: authors[r.FromUserID]}
		if t, ok := tasks[r.TaskID]; ok {
			v.TaskInfo = &domain.TaskSummary{ID: t.ID, Title: t.Title}
		}
		views = append(views, v)
	}
	return views, nil
}
