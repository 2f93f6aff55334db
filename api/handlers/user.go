package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/config"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/logging"
	"github.com/sparkup/sparkup-api/models"
)

const minPasswordLength = 8

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterHandler creates a new account
func (u User) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil || addr.Address != strings.TrimSpace(req.Email) {
		config.ErrorStatus("invalid email address", http.StatusBadRequest, w, fmt.Errorf("invalid email %q", req.Email))
		return
	}
	name, err := cleanText("name", req.Name, maxNameLength)
	if err != nil {
		writeError(w, "invalid name", err)
		return
	}
	if len(req.Password) < minPasswordLength {
		config.ErrorStatus("password too short", http.StatusBadRequest, w, fmt.Errorf("password must be at least %d characters", minPasswordLength))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID: primitive.NewObjectID(),
		Details: models.UserDetails{
			Email:     strings.ToLower(addr.Address),
			Name:      name,
			Password:  string(hashedPassword),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := u.DB.InsertOne(ctx, user); err != nil {
		if errors.Is(err, databases.ErrDuplicateKey) {
			config.ErrorStatus("email already exists", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	logging.FromContext(r.Context()).Infow("user registered", "userId", user.ID.Hex())
	user.Details.Notifications = nil
	api.WriteJSON(w, http.StatusCreated, user)
}

// MeHandler returns the authenticated user
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := u.caller(w, r)
	if !ok {
		return
	}
	user.Details.Notifications = nil
	api.WriteJSON(w, http.StatusOK, user)
}

// UserStartupsHandler returns a user's startup memberships as mirrored on the user document
func (u User) UserStartupsHandler(w http.ResponseWriter, r *http.Request) {
	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		writeError(w, "failed to get user by ID", err)
		return
	}

	startups := user.Details.Startups
	if startups == nil {
		startups = []models.UserStartup{}
	}
	api.WriteJSON(w, http.StatusOK, startups)
}

// NotificationsHandler returns the caller's notifications, newest first
func (u User) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := u.caller(w, r)
	if !ok {
		return
	}

	stored := user.Details.Notifications
	notifications := make([]models.Notification, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		notifications = append(notifications, stored[i])
	}
	api.WriteJSON(w, http.StatusOK, notifications)
}

// MarkNotificationReadHandler marks one of the caller's notifications as seen
func (u User) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "failed to mark notification as read", errUnauthenticated)
		return
	}
	notificationID := mux.Vars(r)["notificationId"]
	if notificationID == "" {
		config.ErrorStatus("notificationId is required", http.StatusBadRequest, w, fmt.Errorf("notificationId is required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if err := u.DB.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		writeError(w, "failed to mark notification as read", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read successfully"})
}

func (u User) caller(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "failed to get user", errUnauthenticated)
		return nil, false
	}
	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return nil, false
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		writeError(w, "failed to get user by ID", err)
		return nil, false
	}
	return user, true
}
