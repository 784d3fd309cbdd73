package service

import (
	"errors"
	"testing"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

func TestAccessPolicy_Check(t *testing.T) {
	policy := NewAccessPolicy()
	allRoles := []domain.Role{domain.RoleAdmin, domain.RoleWorker, domain.RoleUser, domain.RoleGuest}

	tests := []struct {
		name    string
		allowed domain.RoleSet
		granted []domain.Role
	}{
		{name: "read tasks", allowed: RolesReadTasks, granted: allRoles},
		{name: "write tasks", allowed: RolesWriteTasks, granted: []domain.Role{domain.RoleAdmin, domain.RoleWorker}},
		{name: "delete tasks", allowed: RolesDeleteTasks, granted: []domain.Role{domain.RoleAdmin}},
		{name: "manage users", allowed: RolesManageUsers, granted: []domain.Role{domain.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, role := range allRoles {
				err := policy.Check(&domain.Principal{ID: "p", Role: role}, tt.allowed)
				want := domain.RoleSet(tt.granted).Contains(role)
				if want && err != nil {
					t.Fatalf("role %s should be allowed, got %v", role, err)
				}
				if !want && !errors.Is(err, domain.ErrInsufficientPermission) {
					t.Fatalf("role %s should be denied with ErrInsufficientPermission, got %v", role, err)
				}
			}
		})
	}
}

func TestAccessPolicy_NoPrincipal(t *testing.T) {
	if err := NewAccessPolicy().Check(nil, RolesReadTasks); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestAccessPolicy_NoImplicitHierarchy(t *testing.T) {
	// admin is only allowed where it is listed
	workersOnly := domain.RoleSet{domain.RoleWorker}
	err := NewAccessPolicy().Check(&domain.Principal{ID: "a", Role: domain.RoleAdmin}, workersOnly)
	if !errors.Is(err, domain.ErrInsufficientPermission) {
		t.Fatalf("expected admin to be denied, got %v", err)
	}
}
