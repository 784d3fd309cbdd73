package service

import (
	"github.com/tekblok/fieldtask/internal/core/domain"
)

// Role sets for each guarded operation. Membership is explicit; there is no
// ordering between roles.
var (
	RolesReadTasks     = domain.RoleSet{domain.RoleAdmin, domain.RoleUser, domain.RoleWorker, domain.RoleGuest}
	RolesWriteTasks    = domain.RoleSet{domain.RoleAdmin, domain.RoleWorker}
	RolesDeleteTasks   = domain.RoleSet{domain.RoleAdmin}
	RolesManageUsers   = domain.RoleSet{domain.RoleAdmin}
	RolesReadCatalogs  = domain.RoleSet{domain.RoleAdmin, domain.RoleUser, domain.RoleWorker, domain.RoleGuest}
	RolesWriteCatalogs = domain.RoleSet{domain.RoleAdmin}
)

// AccessPolicy decides whether a principal may perform an operation.
type AccessPolicy struct{}

func NewAccessPolicy() AccessPolicy { return AccessPolicy{} }

// Check fails with ErrPrincipalNotFound when no principal was resolved and
// with ErrInsufficientPermission when its role is not in allowed.
func (AccessPolicy) Check(p *domain.Principal, allowed domain.RoleSet) error {
	if p == nil {
		return domain.ErrPrincipalNotFound
	}
	if !allowed.Contains(p.Role) {
		return domain.ErrInsufficientPermission
	}
	return nil
}
