package ports

import (
	"context"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create inserts the review; a second review by the same author for the
	// same task yields domain.ErrReviewExists.
	Create(ctx context.Context, r *domain.Review) error
	ExistsByTaskAndAuthor(ctx context.Context, taskID, fromUserID string) (bool, error)
	ListByRecipient(ctx context.Context, toUserID string, limit int) ([]*domain.Review, error)
	RatingStats(ctx context.Context, toUserID string) (domain.RatingStats, error)
}
