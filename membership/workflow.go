// Package membership implements the startup team workflow: authorization checks, join
// requests, invite links and owner-driven role changes. Every operation works on a
// loaded Startup aggregate in memory and either applies all of its changes or none;
// persisting the result is the caller's job.
package membership

import (
	"time"

	"github.com/sparkup/sparkup-api/models"
)

const (
	// DefaultInviteDays is the invite validity window when the caller does not pick one
	DefaultInviteDays = 7
	// MaxInviteDays is the longest validity window an owner can request
	MaxInviteDays = 90
)

// Workflow carries the clock and code source used by the membership operations
type Workflow struct {
	Now     func() time.Time
	NewCode func() (string, error)
}

// New returns a Workflow using the wall clock and crypto/rand invite codes
func New() *Workflow {
	return &Workflow{
		Now:     func() time.Time { return time.Now().UTC() },
		NewCode: GenerateCode,
	}
}

func (w *Workflow) now() time.Time {
	if w.Now == nil {
		return time.Now().UTC()
	}
	return w.Now()
}

// MembershipResult describes a membership that an operation created, changed or removed,
// together with the mirror entry the member's user document should reflect.
type MembershipResult struct {
	Member models.TeamMembership
	Mirror models.UserStartup
}

func result(s *models.Startup, m models.TeamMembership) *MembershipResult {
	return &MembershipResult{Member: m, Mirror: models.MirrorOf(s.ID, m)}
}
