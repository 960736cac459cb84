package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleAccountant UserRole = "ACCOUNTANT"
	UserRoleOperator   UserRole = "OPERATOR"
	UserRoleViewer     UserRole = "VIEWER"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsAccountant() bool {
	return p.Role == UserRoleAccountant
}

func (p Principal) IsOperator() bool {
	return p.Role == UserRoleOperator
}

func (p Principal) CanManageLedger() bool {
	return p.IsAdmin() || p.IsAccountant()
}

func (p Principal) CanManageRemovals() bool {
	return p.IsAdmin() || p.IsOperator()
}
