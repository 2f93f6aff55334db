package membership

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package wraps exactly one of them,
// so callers can branch with errors.Is and still show the specific message.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrExpired          = errors.New("expired")
	ErrValidation       = errors.New("validation failed")
)

var (
	ErrNotOwner          = fmt.Errorf("%w: only a startup OWNER can do this", ErrPermissionDenied)
	ErrOwnerImmutable    = fmt.Errorf("%w: cannot modify an OWNER", ErrPermissionDenied)
	ErrAlreadyMember     = fmt.Errorf("%w: user is already a team member", ErrConflict)
	ErrAlreadyPending    = fmt.Errorf("%w: a join request is already pending", ErrConflict)
	ErrNoPendingRequest  = fmt.Errorf("%w: no pending join request for user", ErrNotFound)
	ErrMemberNotFound    = fmt.Errorf("%w: user is not a team member", ErrNotFound)
	ErrInviteNotFound    = fmt.Errorf("%w: invite code not recognised", ErrNotFound)
	ErrInviteExpired     = fmt.Errorf("%w: invite code has expired", ErrExpired)
	ErrInvalidRole       = fmt.Errorf("%w: role must be one of OWNER, EDITOR, VIEWER", ErrValidation)
	ErrInvalidInviteRole = fmt.Errorf("%w: invite role must be EDITOR or VIEWER", ErrValidation)
	ErrInvalidDecision   = fmt.Errorf("%w: status must be ACCEPTED or REJECTED", ErrValidation)
	ErrInvalidExpiry     = fmt.Errorf("%w: expiresInDays must be between 1 and %d", ErrValidation, MaxInviteDays)
)
