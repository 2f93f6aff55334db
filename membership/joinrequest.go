package membership

import (
	"github.com/sparkup/sparkup-api/models"
)

// RequestToJoin appends a PENDING join request from userID. Members and users with a
// request already pending are rejected with a Conflict error.
func (w *Workflow) RequestToJoin(s *models.Startup, userID, message string) (models.JoinRequest, error) {
	r := NewRoster(s)
	if _, ok := r.RoleOf(userID); ok {
		return models.JoinRequest{}, ErrAlreadyMember
	}
	if pendingRequest(s, userID) >= 0 {
		return models.JoinRequest{}, ErrAlreadyPending
	}

	req := models.JoinRequest{
		UserID:      userID,
		Message:     message,
		Status:      models.JoinRequestPending,
		RequestedAt: w.now(),
	}
	s.Details.JoinRequests = append(s.Details.JoinRequests, req)
	return req, nil
}

// HandleJoinRequest lets an OWNER decide the target's pending request. Accepting adds the
// target to the team as a VIEWER with the given position; the returned result is nil for
// a rejection. A request leaves PENDING exactly once, so deciding it again finds nothing.
func (w *Workflow) HandleJoinRequest(s *models.Startup, callerID, targetID string, decision models.JoinRequestStatus, position string) (*MembershipResult, error) {
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}
	r := NewRoster(s)
	if err := r.requireOwner(callerID); err != nil {
		return nil, err
	}
	idx := pendingRequest(s, targetID)
	if idx < 0 {
		return nil, ErrNoPendingRequest
	}
	if decision == models.JoinRequestAccepted {
		if _, ok := r.RoleOf(targetID); ok {
			return nil, ErrAlreadyMember
		}
	}

	now := w.now()
	req := &s.Details.JoinRequests[idx]
	req.Status = decision
	req.DecidedAt = &now
	req.DecidedBy = callerID

	if decision == models.JoinRequestRejected {
		return nil, nil
	}

	m := models.TeamMembership{
		UserID:   targetID,
		Role:     models.RoleViewer,
		Position: position,
		JoinedAt: now,
	}
	r.add(m)
	return result(s, m), nil
}

// JoinRequests returns the startup's join requests, optionally filtered by status
func JoinRequests(s *models.Startup, status models.JoinRequestStatus) []models.JoinRequest {
	out := make([]models.JoinRequest, 0, len(s.Details.JoinRequests))
	for _, req := range s.Details.JoinRequests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out
}

func pendingRequest(s *models.Startup, userID string) int {
	for i, req := range s.Details.JoinRequests {
		if req.UserID == userID && req.Status == models.JoinRequestPending {
			return i
		}
	}
	return -1
}
