package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the user collection in mongo
type User struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details UserDetails        `json:"user" bson:"user"`
	Version int32              `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as defined in the user collection in mongo
type UserDetails struct {
	Email         string         `json:"email" bson:"email"`
	Name          string         `json:"name" bson:"name"`
	Password      string         `json:"-" bson:"password"`
	Startups      []UserStartup  `json:"startups" bson:"startups"`
	Notifications []Notification `json:"notifications,omitempty" bson:"notifications"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// UserStartup mirrors the user's TeamMembership in one startup
type UserStartup struct {
	StartupID string    `json:"startupId" bson:"startupId"`
	Role      Role      `json:"role" bson:"role"`
	Position  string    `json:"position" bson:"position"`
	JoinedAt  time.Time `json:"joinedAt" bson:"joinedAt"`
}

// MirrorOf builds the user-side mirror entry for a membership in the given startup
func MirrorOf(startupID primitive.ObjectID, m TeamMembership) UserStartup {
	return UserStartup{
		StartupID: startupID.Hex(),
		Role:      m.Role,
		Position:  m.Position,
		JoinedAt:  m.JoinedAt,
	}
}

// Notification types
const (
	NotificationJoinRequestAccepted = "join_request_accepted"
	NotificationJoinRequestRejected = "join_request_rejected"
	NotificationInviteRedeemed      = "invite_redeemed"
	NotificationRoleChanged         = "team_role_changed"
	NotificationPositionChanged     = "team_position_changed"
	NotificationMemberRemoved       = "team_member_removed"
)

// Notification is a message delivered to a user's inbox
type Notification struct {
	ID         string    `json:"_id" bson:"_id"`
	SentFromID string    `json:"sentFromID" bson:"sentFromID"`
	SentToID   string    `json:"sentToID" bson:"sentToID"`
	Type       string    `json:"type" bson:"type"`
	Message    string    `json:"message" bson:"message"`
	StartupID  string    `json:"startupId,omitempty" bson:"startupId,omitempty"`
	Seen       bool      `json:"seen" bson:"seen"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
