package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Startup holds the structure for the startup collection in mongo
type Startup struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details StartupDetails     `json:"startup" bson:"startup"`
	Version int32              `json:"__v" bson:"__v"`
}

// StartupDetails holds the structure for the inner startup document
type StartupDetails struct {
	Name           string           `json:"name" bson:"name"`
	Description    string           `json:"description" bson:"description"`
	Industry       string           `json:"industry" bson:"industry"`
	Logo           string           `json:"logo" bson:"logo"`
	Fundraised     float64          `json:"fundraised" bson:"fundraised"`
	TimelineStatus string           `json:"timelineStatus" bson:"timelineStatus"`
	Location       *GeoPoint        `json:"location,omitempty" bson:"location,omitempty"`
	Team           []TeamMembership `json:"team" bson:"team"`
	JoinRequests   []JoinRequest    `json:"joinRequests" bson:"joinRequests"`
	InviteLinks    []InviteLink     `json:"inviteLinks,omitempty" bson:"inviteLinks"`
	CreatedBy      string           `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// GeoPoint is a GeoJSON point, coordinates are [longitude, latitude]
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// TeamMembership binds a user to a startup with a role and a position
type TeamMembership struct {
	UserID   string    `json:"userId" bson:"userId"`
	Role     Role      `json:"role" bson:"role"`
	Position string    `json:"position" bson:"position"`
	JoinedAt time.Time `json:"joinedAt" bson:"joinedAt"`
}

// JoinRequest is a user-initiated proposal to become a team member
type JoinRequest struct {
	UserID      string            `json:"userId" bson:"userId"`
	Message     string            `json:"message,omitempty" bson:"message,omitempty"`
	Status      JoinRequestStatus `json:"status" bson:"status"`
	RequestedAt time.Time         `json:"requestedAt" bson:"requestedAt"`
	DecidedAt   *time.Time        `json:"decidedAt,omitempty" bson:"decidedAt,omitempty"`
	DecidedBy   string            `json:"decidedBy,omitempty" bson:"decidedBy,omitempty"`
}

// InviteLink grants a predefined role to whoever redeems its code before it expires
type InviteLink struct {
	Code      string    `json:"code" bson:"code"`
	Role      Role      `json:"role" bson:"role"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedBy string    `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the link can no longer be redeemed at the given time
func (l InviteLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// StartupsPage is a paginated list of startups
type StartupsPage struct {
	Startups   []Startup  `json:"startups"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes where a page sits in the full result set
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}
