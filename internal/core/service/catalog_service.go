package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
)

// CatalogService manages the work type and voltage reference lists.
type CatalogService struct {
	repo   ports.CatalogRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCatalogService(repo ports.CatalogRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger, now: time.Now}
}

// ── Work types ────────────────────────────────────────────────────────────────

func (s *CatalogService) ListWorkTypes(ctx context.Context) ([]*domain.WorkType, error) {
	return s.repo.ListWorkTypes(ctx)
}

func (s *CatalogService) GetWorkType(ctx context.Context, id string) (*domain.WorkType, error) {
	return s.repo.FindWorkType(ctx, id)
}

func (s *CatalogService) CreateWorkType(ctx context.Context, title string) (*domain.WorkType, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidCatalogEntry
	}
	wt := &domain.WorkType{ID: uuid.NewString(), Title: title, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateWorkType(ctx, wt); err != nil {
		return nil, err
	}
	s.logger.Info().Str("work_type", wt.Title).Msg("work type added")
	return wt, nil
}

func (s *CatalogService) DeleteWorkType(ctx context.Context, id string) error {
	return s.repo.DeleteWorkType(ctx, id)
}

// ── Voltages ──────────────────────────────────────────────────────────────────

func (s *CatalogService) ListVoltages(ctx context.Context) ([]*domain.Voltage, error) {
	return s.repo.ListVoltages(ctx)
}

func (s *CatalogService) GetVoltage(ctx context.Context, id string) (*domain.Voltage, error) {
	return s.repo.FindVoltage(ctx, id)
}

func (s *CatalogService) CreateVoltage(ctx context.Context, volt float64) (*domain.Voltage, error) {
	if volt <= 0 {
		return nil, domain.ErrInvalidCatalogEntry
	}
	v := &domain.Voltage{ID: uuid.NewString(), Volt: volt, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateVoltage(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info().Float64("volt", v.Volt).Msg("voltage class added")
	return v, nil
}

func (s *CatalogService) DeleteVoltage(ctx context.Context, id string) error {
	return s.repo.DeleteVoltage(ctx, id)
}
