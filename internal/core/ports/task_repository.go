package ports

import (
	"context"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Implementations
// refuse to store a task whose photo list violates the 2..5 bound.
type TaskRepository interface {
	// Create assigns the next numeric id and inserts the task.
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	// List returns tasks with the given completion flag, oldest first.
	List(ctx context.Context, completed bool) ([]*domain.Task, error)
	// Replace overwrites the stored task (last writer wins).
	Replace(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}
