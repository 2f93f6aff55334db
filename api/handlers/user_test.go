package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sparkup/sparkup-api/api/handlers"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/databases/mocks"
	"github.com/sparkup/sparkup-api/models"
)

func TestUser_RegisterHandler(t *testing.T) {
	udb := &mocks.UserDatabase{}
	var stored models.User
	udb.On("InsertOne", mock.Anything, mock.AnythingOfType("models.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(models.User) }).
		Return(nil)

	u := handlers.User{DB: udb}
	rr := do(t, u.RegisterHandler, "POST", "/api/auth/register", "", map[string]string{
		"email":    "Alice@Example.com",
		"name":     "Alice",
		"password": "correct horse",
	}, nil)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "alice@example.com", stored.Details.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Details.Password), []byte("correct horse")))
	assert.NotContains(t, rr.Body.String(), "password")
	assert.NotContains(t, rr.Body.String(), stored.Details.Password)
	udb.AssertExpectations(t)
}

func TestUser_RegisterHandlerDuplicate(t *testing.T) {
	udb := &mocks.UserDatabase{}
	udb.On("InsertOne", mock.Anything, mock.AnythingOfType("models.User")).Return(databases.ErrDuplicateKey)

	u := handlers.User{DB: udb}
	rr := do(t, u.RegisterHandler, "POST", "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "correct horse",
	}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUser_RegisterHandlerValidation(t *testing.T) {
	u := handlers.User{DB: &mocks.UserDatabase{}}
	tests := []struct {
		name string
		body map[string]string
	}{
		{"invalid email", map[string]string{"email": "alice", "password": "correct horse"}},
		{"display name email", map[string]string{"email": "Alice <alice@example.com>", "password": "correct horse"}},
		{"short password", map[string]string{"email": "alice@example.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, u.RegisterHandler, "POST", "/api/auth/register", "", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestUser_MeHandler(t *testing.T) {
	users := newMemUsers(alice)
	u := handlers.User{DB: users}

	rr := do(t, u.MeHandler, "GET", "/api/users/me", alice, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me models.User
	decode(t, rr, &me)
	assert.Equal(t, alice, me.ID.Hex())

	rr = do(t, u.MeHandler, "GET", "/api/users/me", bob, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, u.MeHandler, "GET", "/api/users/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUser_UserStartupsHandler(t *testing.T) {
	f := newFixture()
	id := f.createStartup(t, alice)
	u := handlers.User{DB: f.users}

	rr := do(t, u.UserStartupsHandler, "GET", "/api/users/"+alice+"/startups", bob, nil, map[string]string{"userId": alice})
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []models.UserStartup
	decode(t, rr, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, id.Hex(), entries[0].StartupID)
	assert.Equal(t, models.RoleOwner, entries[0].Role)

	rr = do(t, u.UserStartupsHandler, "GET", "/api/users/x/startups", bob, nil, map[string]string{"userId": "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_NotificationsHandler(t *testing.T) {
	f := newFixture()
	id := f.createStartup(t, alice)
	f.join(t, bob, id)
	require.Equal(t, http.StatusOK, f.decide(t, alice, id, bob, "ACCEPTED", ""))
	rr := do(t, f.s.RemoveMemberHandler, "DELETE", "/api/startups/team/member", alice,
		map[string]string{"startupId": id.Hex(), "userId": bob}, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	u := handlers.User{DB: f.users}
	rr = do(t, u.NotificationsHandler, "GET", "/api/users/me/notifications", bob, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var notifications []models.Notification
	decode(t, rr, &notifications)
	require.Len(t, notifications, 2)
	assert.Equal(t, models.NotificationMemberRemoved, notifications[0].Type, "newest first")
	assert.Equal(t, models.NotificationJoinRequestAccepted, notifications[1].Type)

	vars := map[string]string{"notificationId": notifications[1].ID}
	rr = do(t, u.MarkNotificationReadHandler, "PUT", "/read", bob, nil, vars)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	stored := f.users.get(t, bob).Details.Notifications
	assert.True(t, stored[0].Seen)
	assert.False(t, stored[1].Seen)

	rr = do(t, u.MarkNotificationReadHandler, "PUT", "/read", bob, nil, map[string]string{"notificationId": "missing"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUser_MarkNotificationReadHandlerError(t *testing.T) {
	udb := &mocks.UserDatabase{}
	udb.On("MarkNotificationRead", mock.Anything, alice, "n1").Return(errors.New("mocked-error"))

	u := handlers.User{DB: udb}
	rr := do(t, u.MarkNotificationReadHandler, "PUT", "/read", alice, nil, map[string]string{"notificationId": "n1"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
