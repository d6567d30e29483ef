// Package model defines the core domain types for the MatheVilla client.
package model

// Role represents an account's permission level as used on the wire.
type Role string

const (
	RoleStudent Role = "student" // default role, practices tasks and earns XP
	RoleAdmin   Role = "admin"   // manages the task bank and views analytics
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Permission represents a specific action that can be checked against a role.
type Permission int

const (
	PermManageTasks Permission = iota
	PermViewStudents
	PermViewAdminStats
	PermPracticeTasks
	PermSubmitChallenges
)

// Can reports whether the role is allowed to perform the given action.
func (r Role) Can(p Permission) bool {
	switch p {
	case PermManageTasks, PermViewStudents, PermViewAdminStats:
		return r == RoleAdmin
	case PermPracticeTasks, PermSubmitChallenges:
		return r == RoleStudent
	default:
		return false
	}
}
