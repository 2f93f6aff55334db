package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/membership"
	"github.com/sparkup/sparkup-api/models"
)

// Startup exposes the startup and team membership endpoints
type Startup struct {
	DB       databases.StartupDatabase
	UDB      databases.UserDatabase
	Tx       databases.Transactor
	Flow     *membership.Workflow
	Notifier *Notifier
}

type createStartupRequest struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Industry       string           `json:"industry"`
	Logo           string           `json:"logo"`
	Fundraised     float64          `json:"fundraised"`
	TimelineStatus string           `json:"timelineStatus"`
	Location       *models.GeoPoint `json:"location"`
	Position       string           `json:"position"`
}

func (req createStartupRequest) details() (models.StartupDetails, string, error) {
	var d models.StartupDetails
	var err error
	if d.Name, err = cleanText("name", req.Name, maxNameLength); err != nil {
		return d, "", err
	}
	if d.Name == "" {
		return d, "", fmt.Errorf("%w: name is required", errBadRequest)
	}
	if d.Description, err = cleanText("description", req.Description, maxDescriptionLength); err != nil {
		return d, "", err
	}
	if d.Industry, err = cleanText("industry", req.Industry, maxNameLength); err != nil {
		return d, "", err
	}
	if d.TimelineStatus, err = cleanText("timelineStatus", req.TimelineStatus, maxNameLength); err != nil {
		return d, "", err
	}
	if d.Logo, err = cleanURL("logo", req.Logo); err != nil {
		return d, "", err
	}
	if req.Fundraised < 0 || math.IsNaN(req.Fundraised) || math.IsInf(req.Fundraised, 0) {
		return d, "", fmt.Errorf("%w: fundraised must be a non-negative number", errBadRequest)
	}
	d.Fundraised = req.Fundraised
	if req.Location != nil {
		c := req.Location.Coordinates
		if len(c) != 2 || c[0] < -180 || c[0] > 180 || c[1] < -90 || c[1] > 90 {
			return d, "", fmt.Errorf("%w: location must be a [longitude, latitude] point", errBadRequest)
		}
		d.Location = &models.GeoPoint{Type: "Point", Coordinates: c}
	}
	position, err := cleanText("position", req.Position, maxPositionLength)
	if err != nil {
		return d, "", err
	}
	return d, position, nil
}

// CreateStartupHandler creates a startup with the caller seeded as its OWNER
func (s Startup) CreateStartupHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "failed to create startup", errUnauthenticated)
		return
	}

	var req createStartupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "failed to decode request body", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	details, position, err := req.details()
	if err != nil {
		writeError(w, "failed to create startup", err)
		return
	}

	now := time.Now().UTC()
	startup := models.Startup{ID: primitive.NewObjectID(), Details: details}
	startup.Details.CreatedBy = callerID
	startup.Details.CreatedAt = now
	startup.Details.UpdatedAt = now
	seeded := s.Flow.SeedOwner(&startup, callerID, position)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	err = s.Tx.WithTransaction(ctx, func(tctx context.Context) error {
		if err := s.DB.InsertOne(tctx, startup); err != nil {
			return err
		}
		if err := s.UDB.SetStartup(tctx, callerID, seeded.Mirror); err != nil {
			return fmt.Errorf("failed to update user startups: %w", err)
		}
		return nil
	})
	if err != nil {
		writeError(w, "failed to create startup", err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, startup)
}

// StartupsHandler returns a page of startups, newest first
func (s Startup) StartupsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, limit = databases.NormalizePage(page, limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	startups, err := s.DB.Find(ctx, bson.M{}, page, limit)
	if err != nil {
		writeError(w, "failed to get startups", err)
		return
	}
	total, err := s.DB.CountDocuments(ctx, bson.M{})
	if err != nil {
		writeError(w, "failed to count startups", err)
		return
	}
	for i := range startups {
		startups[i].Details.InviteLinks = nil
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	api.WriteJSON(w, http.StatusOK, models.StartupsPage{
		Startups: startups,
		Pagination: models.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	})
}

// StartupHandler returns a single startup. Invite links are only shown to OWNERs.
func (s Startup) StartupHandler(w http.ResponseWriter, r *http.Request) {
	startup, ok := s.loadStartup(w, r)
	if !ok {
		return
	}
	callerID, _ := api.UserIDFromContext(r.Context())
	if !membership.HasRole(startup, callerID, models.RoleOwner) {
		startup.Details.InviteLinks = nil
	}
	api.WriteJSON(w, http.StatusOK, startup)
}

// StartupTeamHandler returns the startup's team in join order
func (s Startup) StartupTeamHandler(w http.ResponseWriter, r *http.Request) {
	startup, ok := s.loadStartup(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, startup.Details.Team)
}

// StartupJoinRequestsHandler lists join requests, optionally filtered by ?status=, for OWNERs
func (s Startup) StartupJoinRequestsHandler(w http.ResponseWriter, r *http.Request) {
	var status models.JoinRequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := models.ParseJoinRequestStatus(raw)
		if !ok {
			writeError(w, "failed to get join requests", fmt.Errorf("%w: unknown status %q", errBadRequest, raw))
			return
		}
		status = st
	}

	startup, ok := s.loadStartup(w, r)
	if !ok {
		return
	}
	callerID, _ := api.UserIDFromContext(r.Context())
	if !membership.HasRole(startup, callerID, models.RoleOwner) {
		writeError(w, "failed to get join requests", membership.ErrNotOwner)
		return
	}
	api.WriteJSON(w, http.StatusOK, membership.JoinRequests(startup, status))
}

func (s Startup) loadStartup(w http.ResponseWriter, r *http.Request) (*models.Startup, bool) {
	filter, err := startupFilter(mux.Vars(r)["startupId"])
	if err != nil {
		writeError(w, "failed to get startup", err)
		return nil, false
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	startup, err := s.DB.FindOne(ctx, filter)
	if err != nil {
		writeError(w, "failed to get startup", err)
		return nil, false
	}
	return startup, true
}

func startupFilter(startupID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(startupID)
	if err != nil {
		return nil, fmt.Errorf("%w: startupId must be a valid id", errBadRequest)
	}
	return bson.M{"_id": oid}, nil
}

// teamChange tells mutate how the affected user's startups mirror has to follow a
// workflow step
type teamChange struct {
	userID  string
	mirror  *models.UserStartup
	removed bool
}

// mutate loads the startup matching filter, applies a workflow step to it and writes the
// startup and the affected user's mirror back in one transaction. The startup write only
// succeeds if nobody changed the document since it was loaded.
func (s Startup) mutate(ctx context.Context, filter bson.M, apply func(*models.Startup) (teamChange, error)) (*models.Startup, error) {
	var saved *models.Startup
	err := s.Tx.WithTransaction(ctx, func(tctx context.Context) error {
		startup, err := s.DB.FindOne(tctx, filter)
		if err != nil {
			return err
		}
		change, err := apply(startup)
		if err != nil {
			return err
		}
		if err := s.DB.SaveMembership(tctx, startup); err != nil {
			return err
		}

		switch {
		case change.removed:
			err = s.UDB.RemoveStartup(tctx, change.userID, startup.ID.Hex())
		case change.mirror != nil:
			err = s.UDB.SetStartup(tctx, change.userID, *change.mirror)
		}
		if err != nil {
			return fmt.Errorf("failed to update user startups: %w", err)
		}
		saved = startup
		return nil
	})
	return saved, err
}
