package membership

import (
	"github.com/sparkup/sparkup-api/models"
)

// SeedOwner makes the creator the first member of a new startup
func (w *Workflow) SeedOwner(s *models.Startup, creatorID, position string) *MembershipResult {
	m := models.TeamMembership{
		UserID:   creatorID,
		Role:     models.RoleOwner,
		Position: position,
		JoinedAt: w.now(),
	}
	s.Details.Team = []models.TeamMembership{m}
	return result(s, m)
}

// UpdateRole changes a member's role. Only an OWNER may call it and an OWNER's own role
// can never change; setting an OWNER to OWNER is accepted as a no-op.
func (w *Workflow) UpdateRole(s *models.Startup, callerID, targetID string, role models.Role) (*MembershipResult, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	r := NewRoster(s)
	if err := r.requireOwner(callerID); err != nil {
		return nil, err
	}
	target, ok := r.Member(targetID)
	if !ok {
		return nil, ErrMemberNotFound
	}
	if target.Role == models.RoleOwner {
		if role == models.RoleOwner {
			return result(s, target), nil
		}
		return nil, ErrOwnerImmutable
	}

	m := r.update(targetID, func(tm *models.TeamMembership) { tm.Role = role })
	return result(s, m), nil
}

// UpdatePosition changes a member's free-text position
func (w *Workflow) UpdatePosition(s *models.Startup, callerID, targetID, position string) (*MembershipResult, error) {
	r := NewRoster(s)
	if err := r.requireOwner(callerID); err != nil {
		return nil, err
	}
	if _, ok := r.Member(targetID); !ok {
		return nil, ErrMemberNotFound
	}

	m := r.update(targetID, func(tm *models.TeamMembership) { tm.Position = position })
	return result(s, m), nil
}

// RemoveMember takes a non-OWNER member off the team
func (w *Workflow) RemoveMember(s *models.Startup, callerID, targetID string) (*MembershipResult, error) {
	r := NewRoster(s)
	if err := r.requireOwner(callerID); err != nil {
		return nil, err
	}
	target, ok := r.Member(targetID)
	if !ok {
		return nil, ErrMemberNotFound
	}
	if target.Role == models.RoleOwner {
		return nil, ErrOwnerImmutable
	}

	m := r.remove(targetID)
	return result(s, m), nil
}
