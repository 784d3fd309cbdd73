package ports

import (
	"context"
	"io"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// CreateTaskInput carries the data a dispatcher plans a task with.
// Photos is nil when none were supplied.
type CreateTaskInput struct {
	DispatcherName string
	Address        string
	PlannerDate    string
	WorkType       string
	Voltage        float64
	Job            string
	Photos         []string
	Comments       string
}

// CompleteTaskInput is what a worker sends when closing a task.
type CompleteTaskInput struct {
	Photos   []string
	Comments *string
}

// TaskPatch lists the optional fields of an update; nil means "leave as is".
type TaskPatch struct {
	DispatcherName *string
	Address        *string
	PlannerDate    *string
	WorkType       *string
	Voltage        *float64
	Job            *string
	Photos         *[]string
	Comments       *string
}

// PhotoUpload is a raw photo submitted by a worker.
type PhotoUpload struct {
	Body        []byte
	ContentType string
}

// PhotoResult is the stored location of an uploaded photo.
type PhotoResult struct {
	URL         string
	Coordinates *domain.Coordinates
}

// TaskService defines the task lifecycle use cases.
type TaskService interface {
	ListOpen(ctx context.Context, p *domain.Principal) ([]*domain.Task, error)
	ListCompleted(ctx context.Context, p *domain.Principal) ([]*domain.Task, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Task, error)
	Create(ctx context.Context, p *domain.Principal, in CreateTaskInput) (*domain.Task, error)
	Complete(ctx context.Context, id int64, p *domain.Principal, in CompleteTaskInput) (*domain.Task, error)
	Update(ctx context.Context, id int64, p *domain.Principal, patch TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64, p *domain.Principal) error
	DeleteAll(ctx context.Context, p *domain.Principal) (int64, error)

	UploadPhoto(ctx context.Context, p *domain.Principal, photo PhotoUpload) (*PhotoResult, error)
	ExportCompleted(ctx context.Context, p *domain.Principal, w io.Writer) error
	ImportPlanned(ctx context.Context, p *domain.Principal, r io.Reader) ([]*domain.Task, error)
}
