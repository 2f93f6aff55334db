package membership

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sparkup/sparkup-api/models"
)

// codeBytes of entropy give a 12 character URL-safe code (72 random bits)
const codeBytes = 9

// maxCodeAttempts bounds regeneration when a fresh code collides with an existing one
const maxCodeAttempts = 5

// GenerateCode returns a short, unguessable, URL-safe invite code
func GenerateCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateInviteLink lets an OWNER mint an invite granting role for the given number of
// days (DefaultInviteDays when days is zero).
func (w *Workflow) CreateInviteLink(s *models.Startup, callerID string, role models.Role, days int) (models.InviteLink, error) {
	r := NewRoster(s)
	if err := r.requireOwner(callerID); err != nil {
		return models.InviteLink{}, err
	}
	if !role.IsInvitable() {
		return models.InviteLink{}, ErrInvalidInviteRole
	}
	if days == 0 {
		days = DefaultInviteDays
	}
	if days < 1 || days > MaxInviteDays {
		return models.InviteLink{}, ErrInvalidExpiry
	}

	code, err := w.uniqueCode(s)
	if err != nil {
		return models.InviteLink{}, err
	}

	now := w.now()
	link := models.InviteLink{
		Code:      code,
		Role:      role,
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
		CreatedBy: callerID,
		CreatedAt: now,
	}
	s.Details.InviteLinks = append(s.Details.InviteLinks, link)
	return link, nil
}

func (w *Workflow) uniqueCode(s *models.Startup) (string, error) {
	gen := w.NewCode
	if gen == nil {
		gen = GenerateCode
	}
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		if _, taken := FindInvite(s, code); !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique invite code after %d attempts", maxCodeAttempts)
}

// RedeemInviteLink adds userID to the team with the invite's role. The code stays valid
// for other users until it expires.
func (w *Workflow) RedeemInviteLink(s *models.Startup, userID, code, position string) (*MembershipResult, error) {
	link, ok := FindInvite(s, code)
	if !ok {
		return nil, ErrInviteNotFound
	}
	now := w.now()
	if link.Expired(now) {
		return nil, ErrInviteExpired
	}
	r := NewRoster(s)
	if _, member := r.RoleOf(userID); member {
		return nil, ErrAlreadyMember
	}

	m := models.TeamMembership{
		UserID:   userID,
		Role:     link.Role,
		Position: position,
		JoinedAt: now,
	}
	r.add(m)
	return result(s, m), nil
}

// FindInvite looks up an invite link on the startup by its code
func FindInvite(s *models.Startup, code string) (models.InviteLink, bool) {
	if code == "" {
		return models.InviteLink{}, false
	}
	for _, l := range s.Details.InviteLinks {
		if l.Code == code {
			return l, true
		}
	}
	return models.InviteLink{}, false
}

// PruneExpiredInvites drops invite links that expired before cutoff and returns how many
// were removed.
func PruneExpiredInvites(s *models.Startup, cutoff time.Time) int {
	kept := s.Details.InviteLinks[:0:0]
	for _, l := range s.Details.InviteLinks {
		if l.ExpiresAt.Before(cutoff) {
			continue
		}
		kept = append(kept, l)
	}
	removed := len(s.Details.InviteLinks) - len(kept)
	s.Details.InviteLinks = kept
	return removed
}
