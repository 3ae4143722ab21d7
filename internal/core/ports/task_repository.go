package ports

import (
	"context"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

// TaskFilter carries the query parameters for listing tasks.
type TaskFilter struct {
	Statuses    []domain.TaskStatus // empty = any status
	MaxPrice    *float64            // optional: final_price <= MaxPrice
	TechStack   []string            // optional: task uses any of these
	CustomerID  string              // optional
	DeveloperID string              // optional
	Limit       int                 // 0 = no limit
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// FindByIDs returns the tasks found, keyed by id. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Task, error)
	// List returns tasks matching filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	// Transition applies change only while the task's status is one of from.
	// It returns domain.ErrStaleState when the precondition no longer holds.
	Transition(ctx context.Context, id string, from []domain.TaskStatus, change domain.TaskChange) (*domain.Task, error)
}
