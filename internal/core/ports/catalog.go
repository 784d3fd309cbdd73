package ports

import (
	"context"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

// CatalogRepository persists the work type and voltage reference lists.
type CatalogRepository interface {
	CreateWorkType(ctx context.Context, wt *domain.WorkType) error
	FindWorkType(ctx context.Context, id string) (*domain.WorkType, error)
	ListWorkTypes(ctx context.Context) ([]*domain.WorkType, error)
	DeleteWorkType(ctx context.Context, id string) error

	CreateVoltage(ctx context.Context, v *domain.Voltage) error
	FindVoltage(ctx context.Context, id string) (*domain.Voltage, error)
	ListVoltages(ctx context.Context) ([]*domain.Voltage, error)
	DeleteVoltage(ctx context.Context, id string) error
}

// CatalogService manages the reference lists. Role checks happen at the route.
type CatalogService interface {
	ListWorkTypes(ctx context.Context) ([]*domain.WorkType, error)
	GetWorkType(ctx context.Context, id string) (*domain.WorkType, error)
	CreateWorkType(ctx context.Context, title string) (*domain.WorkType, error)
	DeleteWorkType(ctx context.Context, id string) error

	ListVoltages(ctx context.Context) ([]*domain.Voltage, error)
	GetVoltage(ctx context.Context, id string) (*domain.Voltage, error)
	CreateVoltage(ctx context.Context, volt float64) (*domain.Voltage, error)
	DeleteVoltage(ctx context.Context, id string) error
}
