package domain

import "time"

// Role identifies what a user is allowed to do. Authentication itself is
// handled outside this service; the core only receives resolved principals.
type Role string

const (
	RoleManager          Role = "MANAGER"
	RoleDispatcher       Role = "DISPATCHER"
	RoleSafetyOfficer    Role = "SAFETY_OFFICER"
	RoleFinancialAnalyst Role = "FINANCIAL_ANALYST"
)

// User represents an operator account in the system.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Principal is the authenticated caller of a core operation, passed
// explicitly rather than read from ambient request state.
type Principal struct {
	UserID string
	Name   string
	Role   Role
}
