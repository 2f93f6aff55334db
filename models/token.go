package models

import (
	"time"
)

// Token is returned to a caller after a successful basic-auth exchange
type Token struct {
	Token     string    `json:"token"`
	UserID    string    `json:"_id"`
	ExpiresAt time.Time `json:"expiresAt"`
}
