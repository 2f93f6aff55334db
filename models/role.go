package models

import "strings"

// Role is a team member's standing within a startup
type Role string

// Predefined Role values
const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// ValidRoles returns all valid Role values
func ValidRoles() []Role {
	return []Role{
		RoleOwner,
		RoleEditor,
		RoleViewer,
	}
}

// IsValid checks if the Role value is one of the predefined constants
func (r Role) IsValid() bool {
	for _, validRole := range ValidRoles() {
		if r == validRole {
			return true
		}
	}
	return false
}

// IsInvitable reports whether an invite link may grant this role. Invites never grant OWNER.
func (r Role) IsInvitable() bool {
	return r == RoleEditor || r == RoleViewer
}

// ParseRole normalizes user input ("editor", " Editor ") into a Role. The second
// return value is false when the input is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// JoinRequestStatus is the state of a join request
type JoinRequestStatus string

// Predefined JoinRequestStatus values
const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestAccepted JoinRequestStatus = "ACCEPTED"
	JoinRequestRejected JoinRequestStatus = "REJECTED"
)

// IsDecision reports whether the status is a terminal decision an owner can make
func (s JoinRequestStatus) IsDecision() bool {
	return s == JoinRequestAccepted || s == JoinRequestRejected
}

// IsValid checks if the JoinRequestStatus value is one of the predefined constants
func (s JoinRequestStatus) IsValid() bool {
	return s == JoinRequestPending || s.IsDecision()
}

// ParseJoinRequestStatus normalizes user input into a JoinRequestStatus
func ParseJoinRequestStatus(s string) (JoinRequestStatus, bool) {
	st := JoinRequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.IsValid()
}
