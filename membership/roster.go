package membership

import (
	"github.com/sparkup/sparkup-api/models"
)

// Roster indexes a startup's team by user id. Lookups are constant time while the
// team slice on the startup keeps its join order for display.
type Roster struct {
	startup *models.Startup
	byUser  map[string]int
}

// NewRoster builds the index for s. The roster stays valid as long as the team is only
// changed through the roster's own methods.
func NewRoster(s *models.Startup) *Roster {
	r := &Roster{startup: s}
	r.reindex()
	return r
}

func (r *Roster) reindex() {
	r.byUser = make(map[string]int, len(r.startup.Details.Team))
	for i, m := range r.startup.Details.Team {
		if _, dup := r.byUser[m.UserID]; !dup {
			r.byUser[m.UserID] = i
		}
	}
}

// RoleOf returns the user's role in the startup, or false when the user is not a member
func (r *Roster) RoleOf(userID string) (models.Role, bool) {
	m, ok := r.Member(userID)
	if !ok {
		return "", false
	}
	return m.Role, true
}

// HasRole reports whether the user is a member holding one of the allowed roles
func (r *Roster) HasRole(userID string, allowed ...models.Role) bool {
	role, ok := r.RoleOf(userID)
	if !ok {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Member returns a copy of the user's membership record
func (r *Roster) Member(userID string) (models.TeamMembership, bool) {
	i, ok := r.byUser[userID]
	if !ok {
		return models.TeamMembership{}, false
	}
	return r.startup.Details.Team[i], true
}

// Len is the number of team members
func (r *Roster) Len() int {
	return len(r.startup.Details.Team)
}

// requireOwner is the guard placed at the top of every owner-only operation
func (r *Roster) requireOwner(callerID string) error {
	if !r.HasRole(callerID, models.RoleOwner) {
		return ErrNotOwner
	}
	return nil
}

func (r *Roster) add(m models.TeamMembership) {
	r.startup.Details.Team = append(r.startup.Details.Team, m)
	r.byUser[m.UserID] = len(r.startup.Details.Team) - 1
}

func (r *Roster) update(userID string, fn func(*models.TeamMembership)) models.TeamMembership {
	i := r.byUser[userID]
	fn(&r.startup.Details.Team[i])
	return r.startup.Details.Team[i]
}

func (r *Roster) remove(userID string) models.TeamMembership {
	i := r.byUser[userID]
	team := r.startup.Details.Team
	removed := team[i]
	r.startup.Details.Team = append(team[:i:i], team[i+1:]...)
	r.reindex()
	return removed
}

// RoleOf is a convenience for a single lookup without keeping a roster around
func RoleOf(s *models.Startup, userID string) (models.Role, bool) {
	return NewRoster(s).RoleOf(userID)
}

// HasRole is a convenience for a single check without keeping a roster around
func HasRole(s *models.Startup, userID string, allowed ...models.Role) bool {
	return NewRoster(s).HasRole(userID, allowed...)
}
