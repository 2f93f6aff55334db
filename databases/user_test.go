package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/databases/mocks"
	"github.com/sparkup/sparkup-api/models"
)

func userHelpers() (*mocks.DatabaseHelper, *mocks.CollectionHelper) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	dbHelper.On("Collection", "users").Return(collectionHelper)
	return dbHelper, collectionHelper
}

func TestUserDatabase_FindOne(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	srHelperErr := &mocks.SingleResultHelper{}
	srHelperCorrect := &mocks.SingleResultHelper{}

	srHelperErr.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	srHelperCorrect.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.Details.Email = "alice@example.com"
	})

	collectionHelper.On("FindOne", context.Background(), bson.M{"error": true}).Return(srHelperErr)
	collectionHelper.On("FindOne", context.Background(), bson.M{"error": false}).Return(srHelperCorrect)

	userDB := databases.NewUserDatabase(dbHelper)

	user, err := userDB.FindOne(context.Background(), bson.M{"error": true})
	assert.Nil(t, user)
	assert.EqualError(t, err, "mocked-error")

	user, err = userDB.FindOne(context.Background(), bson.M{"error": false})
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Details.Email)
}

func TestUserDatabase_InsertOneDuplicate(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	collectionHelper.On("InsertOne", context.Background(), mock.Anything).Return(nil, dupErr)

	err := databases.NewUserDatabase(dbHelper).InsertOne(context.Background(), models.User{})
	assert.ErrorIs(t, err, databases.ErrDuplicateKey)
}

func TestUserDatabase_SetStartupUpdatesExistingEntry(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	uID := primitive.NewObjectID()
	entry := models.UserStartup{StartupID: "s1", Role: models.RoleEditor, Position: "CTO"}

	collectionHelper.On("UpdateOne", context.Background(),
		bson.M{"_id": uID, "user.startups.startupId": "s1"}, mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 1}, nil).Once()

	err := databases.NewUserDatabase(dbHelper).SetStartup(context.Background(), uID.Hex(), entry)
	assert.NoError(t, err)
	collectionHelper.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestUserDatabase_SetStartupAppendsMissingEntry(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	uID := primitive.NewObjectID()
	entry := models.UserStartup{StartupID: "s1", Role: models.RoleViewer}

	collectionHelper.On("UpdateOne", context.Background(),
		bson.M{"_id": uID, "user.startups.startupId": "s1"}, mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 0}, nil).Once()
	collectionHelper.On("UpdateOne", context.Background(),
		bson.M{"_id": uID, "user.startups.startupId": bson.M{"$ne": "s1"}}, mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()

	err := databases.NewUserDatabase(dbHelper).SetStartup(context.Background(), uID.Hex(), entry)
	assert.NoError(t, err)
	collectionHelper.AssertExpectations(t)
}

func TestUserDatabase_SetStartupMissingUser(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	collectionHelper.On("UpdateOne", context.Background(), mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	err := databases.NewUserDatabase(dbHelper).SetStartup(context.Background(), primitive.NewObjectID().Hex(), models.UserStartup{StartupID: "s1"})
	assert.ErrorIs(t, err, databases.ErrNoDocuments)
}

func TestUserDatabase_InvalidID(t *testing.T) {
	dbHelper, _ := userHelpers()
	userDB := databases.NewUserDatabase(dbHelper)

	assert.ErrorIs(t, userDB.SetStartup(context.Background(), "not-an-id", models.UserStartup{}), databases.ErrInvalidID)
	assert.ErrorIs(t, userDB.RemoveStartup(context.Background(), "not-an-id", "s1"), databases.ErrInvalidID)
	assert.ErrorIs(t, userDB.PushNotification(context.Background(), "not-an-id", models.Notification{}), databases.ErrInvalidID)
}

func TestUserDatabase_RemoveStartup(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	uID := primitive.NewObjectID()
	collectionHelper.On("UpdateOne", context.Background(), bson.M{"_id": uID}, mock.MatchedBy(func(update bson.M) bool {
		pull, ok := update["$pull"].(bson.M)
		return ok && assert.ObjectsAreEqual(bson.M{"startupId": "s1"}, pull["user.startups"])
	})).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	err := databases.NewUserDatabase(dbHelper).RemoveStartup(context.Background(), uID.Hex(), "s1")
	assert.NoError(t, err)
}

func TestUserDatabase_MarkNotificationRead(t *testing.T) {
	dbHelper, collectionHelper := userHelpers()
	uID := primitive.NewObjectID()
	collectionHelper.On("UpdateOne", context.Background(),
		bson.M{"_id": uID, "user.notifications._id": "n1"},
		bson.M{"$set": bson.M{"user.notifications.$.seen": true}},
	).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	collectionHelper.On("UpdateOne", context.Background(),
		bson.M{"_id": uID, "user.notifications._id": "missing"}, mock.Anything,
	).Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	userDB := databases.NewUserDatabase(dbHelper)
	assert.NoError(t, userDB.MarkNotificationRead(context.Background(), uID.Hex(), "n1"))
	assert.ErrorIs(t, userDB.MarkNotificationRead(context.Background(), uID.Hex(), "missing"), databases.ErrNoDocuments)
}
