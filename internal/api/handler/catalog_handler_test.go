package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

type stubCatalogService struct {
	workTypes map[string]*domain.WorkType
	volts     []float64
}

func (s *stubCatalogService) ListWorkTypes(context.Context) ([]*domain.WorkType, error) {
	return nil, nil
}

func (s *stubCatalogService) GetWorkType(_ context.Context, id string) (*domain.WorkType, error) {
	wt, ok := s.workTypes[id]
	if !ok {
		return nil, domain.ErrWorkTypeNotFound
	}
	return wt, nil
}

func (s *stubCatalogService) CreateWorkType(_ context.Context, title string) (*domain.WorkType, error) {
	return &domain.WorkType{ID: "wt-1", Title: title}, nil
}

func (s *stubCatalogService) DeleteWorkType(context.Context, string) error { return nil }

func (s *stubCatalogService) ListVoltages(context.Context) ([]*domain.Voltage, error) {
	return nil, nil
}

func (s *stubCatalogService) GetVoltage(context.Context, string) (*domain.Voltage, error) {
	return nil, domain.ErrVoltageNotFound
}

func (s *stubCatalogService) CreateVoltage(_ context.Context, volt float64) (*domain.Voltage, error) {
	s.volts = append(s.volts, volt)
	return &domain.Voltage{ID: "v-1", Volt: volt}, nil
}

func (s *stubCatalogService) DeleteVoltage(context.Context, string) error { return nil }

func TestCatalogHandler_CreateVoltage(t *testing.T) {
	stub := &stubCatalogService{}
	handler := NewCatalogHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/voltage", `{"volt":0.4}`)
	if err := handler.CreateVoltage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(stub.volts) != 1 || stub.volts[0] != 0.4 {
		t.Fatalf("unexpected volts: %v", stub.volts)
	}

	c, _ = newJSONContext(http.MethodPost, "/voltage", `{"volt":0}`)
	expectStatus(t, handler.CreateVoltage(c), http.StatusUnprocessableEntity)
}

func TestCatalogHandler_CreateWorkType_Validation(t *testing.T) {
	handler := NewCatalogHandler(&stubCatalogService{})

	c, _ := newJSONContext(http.MethodPost, "/workType", `{}`)
	expectStatus(t, handler.CreateWorkType(c), http.StatusUnprocessableEntity)
}

func TestCatalogHandler_GetWorkType(t *testing.T) {
	handler := NewCatalogHandler(&stubCatalogService{
		workTypes: map[string]*domain.WorkType{"wt-1": {ID: "wt-1", Title: "inspection"}},
	})

	c, rec := newJSONContext(http.MethodGet, "/workType/wt-1", "")
	c.SetParamNames("id")
	c.SetParamValues("wt-1")
	if err := handler.GetWorkType(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newJSONContext(http.MethodGet, "/workType/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := handler.GetWorkType(c); !errors.Is(err, domain.ErrWorkTypeNotFound) {
		t.Fatalf("expected ErrWorkTypeNotFound, got %v", err)
	}
}
