package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

func TestCatalogService_WorkTypes(t *testing.T) {
	svc := NewCatalogService(newStubCatalogRepo(), zerolog.Nop())
	ctx := context.Background()

	wt, err := svc.CreateWorkType(ctx, "  Inspection ")
	if err != nil {
		t.Fatalf("CreateWorkType: %v", err)
	}
	if wt.ID == "" || wt.Title != "Inspection" {
		t.Fatalf("unexpected work type: %+v", wt)
	}
	if _, err := svc.CreateWorkType(ctx, "Inspection"); !errors.Is(err, domain.ErrCatalogDuplicate) {
		t.Fatalf("expected ErrCatalogDuplicate, got %v", err)
	}
	if _, err := svc.CreateWorkType(ctx, " "); !errors.Is(err, domain.ErrInvalidCatalogEntry) {
		t.Fatalf("expected ErrInvalidCatalogEntry, got %v", err)
	}

	got, err := svc.GetWorkType(ctx, wt.ID)
	if err != nil || got.Title != "Inspection" {
		t.Fatalf("GetWorkType: %+v %v", got, err)
	}
	if err := svc.DeleteWorkType(ctx, wt.ID); err != nil {
		t.Fatalf("DeleteWorkType: %v", err)
	}
	if _, err := svc.GetWorkType(ctx, wt.ID); !errors.Is(err, domain.ErrWorkTypeNotFound) {
		t.Fatalf("expected ErrWorkTypeNotFound, got %v", err)
	}
}

func TestCatalogService_Voltages(t *testing.T) {
	svc := NewCatalogService(newStubCatalogRepo(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.CreateVoltage(ctx, 0); !errors.Is(err, domain.ErrInvalidCatalogEntry) {
		t.Fatalf("expected ErrInvalidCatalogEntry, got %v", err)
	}
	v, err := svc.CreateVoltage(ctx, 0.4)
	if err != nil {
		t.Fatalf("CreateVoltage: %v", err)
	}
	list, err := svc.ListVoltages(ctx)
	if err != nil || len(list) != 1 || list[0].Volt != 0.4 {
		t.Fatalf("ListVoltages: %+v %v", list, err)
	}
	if err := svc.DeleteVoltage(ctx, v.ID); err != nil {
		t.Fatalf("DeleteVoltage: %v", err)
	}
	if err := svc.DeleteVoltage(ctx, v.ID); !errors.Is(err, domain.ErrVoltageNotFound) {
		t.Fatalf("expected ErrVoltageNotFound, got %v", err)
	}
}
