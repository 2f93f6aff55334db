package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/logging"
	"github.com/sparkup/sparkup-api/membership"
	"github.com/sparkup/sparkup-api/models"
)

type joinRequestBody struct {
	StartupID string `json:"startupId"`
	Message   string `json:"message"`
}

type joinInviteBody struct {
	InviteCode string `json:"inviteCode"`
	StartupID  string `json:"startupId"`
	Position   string `json:"position"`
}

type decisionBody struct {
	StartupID string `json:"startupId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	Position  string `json:"position"`
}

type createInviteBody struct {
	StartupID     string `json:"startupId"`
	Role          string `json:"role"`
	ExpiresInDays int    `json:"expiresInDays"`
}

type teamMemberBody struct {
	StartupID string `json:"startupId"`
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	Position  string `json:"position"`
}

// inviteResponse is returned to the OWNER that created an invite link
type inviteResponse struct {
	Code      string      `json:"code"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// membershipResponse confirms a membership change
type membershipResponse struct {
	Message   string                 `json:"message"`
	StartupID string                 `json:"startupId"`
	Member    *models.TeamMembership `json:"member,omitempty"`
}

// decodeMembership reads the JSON body and returns the authenticated caller id
func decodeMembership(r *http.Request, body interface{}) (string, error) {
	callerID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		return "", errUnauthenticated
	}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return callerID, nil
}

func requireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: userId is required", errBadRequest)
	}
	return nil
}

// RequestToJoinHandler files a PENDING join request for the caller
func (s Startup) RequestToJoinHandler(w http.ResponseWriter, r *http.Request) {
	var body joinRequestBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to request to join", err)
		return
	}
	filter, err := startupFilter(body.StartupID)
	if err != nil {
		writeError(w, "failed to request to join", err)
		return
	}
	message, err := cleanText("message", body.Message, maxMessageLength)
	if err != nil {
		writeError(w, "failed to request to join", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	_, err = s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		_, err := s.Flow.RequestToJoin(st, callerID, message)
		return teamChange{}, err
	})
	if err != nil {
		writeError(w, "failed to request to join", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, membershipResponse{
		Message:   "join request sent",
		StartupID: body.StartupID,
	})
}

// JoinViaInviteHandler redeems an invite code for the caller. Without a startupId the
// startup is found by the code itself.
func (s Startup) JoinViaInviteHandler(w http.ResponseWriter, r *http.Request) {
	var body joinInviteBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to join startup", err)
		return
	}
	code := strings.TrimSpace(body.InviteCode)
	if code == "" {
		writeError(w, "failed to join startup", fmt.Errorf("%w: inviteCode is required", errBadRequest))
		return
	}
	position, err := cleanText("position", body.Position, maxPositionLength)
	if err != nil {
		writeError(w, "failed to join startup", err)
		return
	}

	filter := bson.M{"startup.inviteLinks.code": code}
	if body.StartupID != "" {
		if filter, err = startupFilter(body.StartupID); err != nil {
			writeError(w, "failed to join startup", err)
			return
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var joined *membership.MembershipResult
	var invitedBy string
	startup, err := s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		res, err := s.Flow.RedeemInviteLink(st, callerID, code, position)
		if err != nil {
			return teamChange{}, err
		}
		link, _ := membership.FindInvite(st, code)
		joined, invitedBy = res, link.CreatedBy
		return teamChange{userID: callerID, mirror: &res.Mirror}, nil
	})
	if err != nil {
		if body.StartupID == "" && isNoDocuments(err) {
			err = membership.ErrInviteNotFound
		}
		writeError(w, "failed to join startup", err)
		return
	}

	s.Notifier.Notify(r.Context(), invitedBy, callerID, models.NotificationInviteRedeemed,
		fmt.Sprintf("A new %s joined %s with your invite link", strings.ToLower(string(joined.Member.Role)), startup.Details.Name),
		startup.ID.Hex())

	api.WriteJSON(w, http.StatusOK, membershipResponse{
		Message:   "joined startup",
		StartupID: startup.ID.Hex(),
		Member:    &joined.Member,
	})
}

// HandleJoinRequestHandler lets an OWNER accept or reject a pending join request
func (s Startup) HandleJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to handle join request", err)
		return
	}
	filter, err := startupFilter(body.StartupID)
	if err != nil {
		writeError(w, "failed to handle join request", err)
		return
	}
	if err := requireUserID(body.UserID); err != nil {
		writeError(w, "failed to handle join request", err)
		return
	}
	decision, ok := models.ParseJoinRequestStatus(body.Status)
	if !ok || !decision.IsDecision() {
		writeError(w, "failed to handle join request", membership.ErrInvalidDecision)
		return
	}
	position, err := cleanText("position", body.Position, maxPositionLength)
	if err != nil {
		writeError(w, "failed to handle join request", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	startup, err := s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		res, err := s.Flow.HandleJoinRequest(st, callerID, body.UserID, decision, position)
		if err != nil || res == nil {
			return teamChange{}, err
		}
		return teamChange{userID: body.UserID, mirror: &res.Mirror}, nil
	})
	if err != nil {
		writeError(w, "failed to handle join request", err)
		return
	}

	accepted := decision == models.JoinRequestAccepted
	kind, verb := models.NotificationJoinRequestRejected, "rejected"
	if accepted {
		kind, verb = models.NotificationJoinRequestAccepted, "accepted"
	}
	s.Notifier.Notify(r.Context(), body.UserID, callerID, kind,
		fmt.Sprintf("Your request to join %s was %s", startup.Details.Name, verb),
		startup.ID.Hex())
	s.Notifier.EmailJoinDecision(r.Context(), body.UserID, startup, accepted)

	api.WriteJSON(w, http.StatusOK, membershipResponse{
		Message:   "join request " + verb,
		StartupID: startup.ID.Hex(),
	})
}

// CreateInviteLinkHandler mints an invite code for an OWNER
func (s Startup) CreateInviteLinkHandler(w http.ResponseWriter, r *http.Request) {
	var body createInviteBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to create invite link", err)
		return
	}
	filter, err := startupFilter(body.StartupID)
	if err != nil {
		writeError(w, "failed to create invite link", err)
		return
	}
	role, ok := models.ParseRole(body.Role)
	if !ok {
		writeError(w, "failed to create invite link", membership.ErrInvalidInviteRole)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var link models.InviteLink
	_, err = s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		var err error
		link, err = s.Flow.CreateInviteLink(st, callerID, role, body.ExpiresInDays)
		return teamChange{}, err
	})
	if err != nil {
		writeError(w, "failed to create invite link", err)
		return
	}

	logging.FromContext(r.Context()).Infow("invite link created",
		"startupId", body.StartupID,
		"role", link.Role,
		"expiresAt", link.ExpiresAt)
	api.WriteJSON(w, http.StatusOK, inviteResponse{Code: link.Code, Role: link.Role, ExpiresAt: link.ExpiresAt})
}

// UpdateRoleHandler changes a member's role
func (s Startup) UpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	var body teamMemberBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to update role", err)
		return
	}
	filter, err := startupFilter(body.StartupID)
	if err != nil {
		writeError(w, "failed to update role", err)
		return
	}
	if err := requireUserID(body.UserID); err != nil {
		writeError(w, "failed to update role", err)
		return
	}
	role, ok := models.ParseRole(body.Role)
	if !ok {
		writeError(w, "failed to update role", membership.ErrInvalidRole)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var updated *membership.MembershipResult
	startup, err := s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		res, err := s.Flow.UpdateRole(st, callerID, body.UserID, role)
		if err != nil {
			return teamChange{}, err
		}
		updated = res
		return teamChange{userID: body.UserID, mirror: &res.Mirror}, nil
	})
	if err != nil {
		writeError(w, "failed to update role", err)
		return
	}

	s.Notifier.Notify(r.Context(), body.UserID, callerID, models.NotificationRoleChanged,
		fmt.Sprintf("Your role in %s is now %s", startup.Details.Name, updated.Member.Role),
		startup.ID.Hex())

	api.WriteJSON(w, http.StatusOK, membershipResponse{
		Message:   "role updated",
		StartupID: startup.ID.Hex(),
		Member:    &updated.Member,
	})
}

// UpdatePositionHandler changes a member's position
func (s Startup) UpdatePositionHandler(w http.ResponseWriter, r *http.Request) {
	var body teamMemberBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to update position", err)
		return
	}
	filter, err := startupFilter(body.StartupID)
	if err != nil {
		writeError(w, "failed to update position", err)
		return
	}
	if err := requireUserID(body.UserID); err != nil {
		writeError(w, "failed to update position", err)
		return
	}
	position, err := cleanText("position", body.Position, maxPositionLength)
	if err != nil {
		writeError(w, "failed to update position", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var updated *membership.MembershipResult
	startup, err := s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		res, err := s.Flow.UpdatePosition(st, callerID, body.UserID, position)
		if err != nil {
			return teamChange{}, err
		}
		updated = res
		return teamChange{userID: body.UserID, mirror: &res.Mirror}, nil
	})
	if err != nil {
		writeError(w, "failed to update position", err)
		return
	}

	s.Notifier.Notify(r.Context(), body.UserID, callerID, models.NotificationPositionChanged,
		fmt.Sprintf("Your position in %s was updated", startup.Details.Name),
		startup.ID.Hex())

	api.WriteJSON(w, http.StatusOK, membershipResponse{
		Message:   "position updated",
		StartupID: startup.ID.Hex(),
		Member:    &updated.Member,
	})
}

// RemoveMemberHandler takes a non-OWNER member off the team
func (s Startup) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	var body teamMemberBody
	callerID, err := decodeMembership(r, &body)
	if err != nil {
		writeError(w, "failed to remove member", err)
		return
	}
	filter, err := startupFilter(body.StartupID)
	if err != nil {
		writeError(w, "failed to remove member", err)
		return
	}
	if err := requireUserID(body.UserID); err != nil {
		writeError(w, "failed to remove member", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	startup, err := s.mutate(ctx, filter, func(st *models.Startup) (teamChange, error) {
		if _, err := s.Flow.RemoveMember(st, callerID, body.UserID); err != nil {
			return teamChange{}, err
		}
		return teamChange{userID: body.UserID, removed: true}, nil
	})
	if err != nil {
		writeError(w, "failed to remove member", err)
		return
	}

	s.Notifier.Notify(r.Context(), body.UserID, callerID, models.NotificationMemberRemoved,
		fmt.Sprintf("You were removed from %s", startup.Details.Name),
		startup.ID.Hex())

	api.WriteJSON(w, http.StatusOK, membershipResponse{
		Message:   "member removed",
		StartupID: startup.ID.Hex(),
	})
}
