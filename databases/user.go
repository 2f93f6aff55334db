package databases

// go generate: mockery --name UserDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sparkup/sparkup-api/models"
)

const userName = "users"

// maxNotifications is how many notifications a user document keeps, newest last
const maxNotifications = 100

// UserDatabase contains the methods to use with the user database
type UserDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.User, error)
	Find(ctx context.Context, filter interface{}, page, limit int) ([]models.User, error)
	InsertOne(ctx context.Context, user models.User) error
	SetStartup(ctx context.Context, userID string, entry models.UserStartup) error
	RemoveStartup(ctx context.Context, userID, startupID string) error
	ReplaceStartups(ctx context.Context, userID string, entries []models.UserStartup) error
	PushNotification(ctx context.Context, userID string, notification models.Notification) error
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	EnsureIndexes(ctx context.Context) error
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	user := &models.User{}
	err := u.db.Collection(userName).FindOne(ctx, filter).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userDatabase) Find(ctx context.Context, filter interface{}, page, limit int) ([]models.User, error) {
	sort := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := u.db.Collection(userName).Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts(), sort)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err = cur.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *userDatabase) InsertOne(ctx context.Context, user models.User) error {
	if user.Details.Startups == nil {
		user.Details.Startups = []models.UserStartup{}
	}
	if user.Details.Notifications == nil {
		user.Details.Notifications = []models.Notification{}
	}
	_, err := u.db.Collection(userName).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// SetStartup writes the user's mirror entry for a startup, updating it in place when it
// exists and appending it otherwise.
func (u *userDatabase) SetStartup(ctx context.Context, userID string, entry models.UserStartup) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	coll := u.db.Collection(userName)

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user.startups.startupId": entry.StartupID},
		bson.M{"$set": bson.M{
			"user.startups.$.role":     entry.Role,
			"user.startups.$.position": entry.Position,
			"user.updatedAt":           now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user.startups.startupId": bson.M{"$ne": entry.StartupID}},
		bson.M{
			"$push": bson.M{"user.startups": entry},
			"$set":  bson.M{"user.updatedAt": now},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (u *userDatabase) RemoveStartup(ctx context.Context, userID, startupID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := u.db.Collection(userName).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$pull": bson.M{"user.startups": bson.M{"startupId": startupID}},
			"$set":  bson.M{"user.updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (u *userDatabase) ReplaceStartups(ctx context.Context, userID string, entries []models.UserStartup) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []models.UserStartup{}
	}
	res, err := u.db.Collection(userName).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"user.startups": entries, "user.updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (u *userDatabase) PushNotification(ctx context.Context, userID string, notification models.Notification) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := u.db.Collection(userName).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"user.notifications": bson.M{
			"$each":  []models.Notification{notification},
			"$slice": -maxNotifications,
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (u *userDatabase) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := u.db.Collection(userName).UpdateOne(ctx,
		bson.M{"_id": oid, "user.notifications._id": notificationID},
		bson.M{"$set": bson.M{"user.notifications.$.seen": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (u *userDatabase) EnsureIndexes(ctx context.Context) error {
	return u.db.Collection(userName).CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user.email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
