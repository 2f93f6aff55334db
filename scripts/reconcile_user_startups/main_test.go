package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sparkup/sparkup-api/databases/mocks"
	"github.com/sparkup/sparkup-api/models"
)

func TestReconcile(t *testing.T) {
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	alice, bob, carol := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	startup := models.Startup{
		ID: primitive.NewObjectID(),
		Details: models.StartupDetails{Team: []models.TeamMembership{
			{UserID: alice.Hex(), Role: models.RoleOwner, JoinedAt: joined},
			{UserID: bob.Hex(), Role: models.RoleEditor, Position: "CTO", JoinedAt: joined},
		}},
	}
	aliceMirror := models.MirrorOf(startup.ID, startup.Details.Team[0])
	bobMirror := models.MirrorOf(startup.ID, startup.Details.Team[1])

	users := []models.User{
		{ID: alice, Details: models.UserDetails{Startups: []models.UserStartup{aliceMirror}}},
		{ID: bob, Details: models.UserDetails{Startups: []models.UserStartup{}}},
		{ID: carol, Details: models.UserDetails{Startups: []models.UserStartup{bobMirror}}},
	}

	sdb := &mocks.StartupDatabase{}
	udb := &mocks.UserDatabase{}
	sdb.On("Find", mock.Anything, mock.Anything, 1, pageSize).Return([]models.Startup{startup}, nil)
	udb.On("Find", mock.Anything, mock.Anything, 1, pageSize).Return(users, nil)
	udb.On("ReplaceStartups", mock.Anything, bob.Hex(), []models.UserStartup{bobMirror}).Return(nil)
	udb.On("ReplaceStartups", mock.Anything, carol.Hex(), []models.UserStartup{}).Return(nil)

	r, err := reconcile(context.Background(), sdb, udb, false)
	require.NoError(t, err)
	assert.Equal(t, report{Startups: 1, Users: 3, Updated: 2}, r)
	udb.AssertExpectations(t)
}

func TestReconcileSkipsStartupsReadTwice(t *testing.T) {
	alice := primitive.NewObjectID()
	startup := models.Startup{
		ID: primitive.NewObjectID(),
		Details: models.StartupDetails{Team: []models.TeamMembership{
			{UserID: alice.Hex(), Role: models.RoleOwner},
		}},
	}
	first := make([]models.Startup, pageSize)
	for i := range first {
		first[i] = models.Startup{ID: primitive.NewObjectID()}
	}
	first[pageSize-1] = startup

	sdb := &mocks.StartupDatabase{}
	udb := &mocks.UserDatabase{}
	sdb.On("Find", mock.Anything, mock.Anything, 1, pageSize).Return(first, nil)
	sdb.On("Find", mock.Anything, mock.Anything, 2, pageSize).Return([]models.Startup{startup}, nil)
	udb.On("Find", mock.Anything, mock.Anything, 1, pageSize).Return([]models.User{{ID: alice}}, nil)
	udb.On("ReplaceStartups", mock.Anything, alice.Hex(),
		[]models.UserStartup{models.MirrorOf(startup.ID, startup.Details.Team[0])}).Return(nil)

	r, err := reconcile(context.Background(), sdb, udb, false)
	require.NoError(t, err)
	assert.Equal(t, pageSize+1, r.Startups)
	assert.Equal(t, 1, r.Updated)
	udb.AssertExpectations(t)
}

func TestReconcileDryRun(t *testing.T) {
	alice := primitive.NewObjectID()
	sdb := &mocks.StartupDatabase{}
	udb := &mocks.UserDatabase{}
	sdb.On("Find", mock.Anything, mock.Anything, 1, pageSize).Return([]models.Startup{}, nil)
	udb.On("Find", mock.Anything, mock.Anything, 1, pageSize).Return([]models.User{
		{ID: alice, Details: models.UserDetails{Startups: []models.UserStartup{{StartupID: "gone"}}}},
	}, nil)

	r, err := reconcile(context.Background(), sdb, udb, true)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Updated)
	udb.AssertNotCalled(t, "ReplaceStartups", mock.Anything, mock.Anything, mock.Anything)
}

func TestSameStartups(t *testing.T) {
	a := models.UserStartup{StartupID: "a", Role: models.RoleOwner}
	b := models.UserStartup{StartupID: "b", Role: models.RoleViewer}
	assert.True(t, sameStartups([]models.UserStartup{a, b}, []models.UserStartup{b, a}))
	assert.False(t, sameStartups([]models.UserStartup{a}, []models.UserStartup{b}))
	changed := b
	changed.Position = "CTO"
	assert.False(t, sameStartups([]models.UserStartup{a, b}, []models.UserStartup{a, changed}))
	assert.True(t, sameStartups(nil, []models.UserStartup{}))
}
