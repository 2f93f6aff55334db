package databases

// go generate: mockery --name StartupDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sparkup/sparkup-api/models"
)

const startupName = "startups"

// StartupDatabase contains the methods to use with the startup database
type StartupDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Startup, error)
	Find(ctx context.Context, filter interface{}, page, limit int) ([]models.Startup, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, startup models.Startup) error
	SaveMembership(ctx context.Context, startup *models.Startup) error
	PullExpiredInvites(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type startupDatabase struct {
	db DatabaseHelper
}

// NewStartupDatabase initializes a new instance of startup database with the provided db connection
func NewStartupDatabase(db DatabaseHelper) StartupDatabase {
	return &startupDatabase{
		db: db,
	}
}

func (s *startupDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Startup, error) {
	startup := &models.Startup{}
	err := s.db.Collection(startupName).FindOne(ctx, filter).Decode(startup)
	if err != nil {
		return nil, err
	}
	return startup, nil
}

func (s *startupDatabase) Find(ctx context.Context, filter interface{}, page, limit int) ([]models.Startup, error) {
	sort := options.Find().SetSort(bson.D{{Key: "startup.createdAt", Value: -1}})
	cur, err := s.db.Collection(startupName).Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts(), sort)
	if err != nil {
		return nil, err
	}
	startups := []models.Startup{}
	if err = cur.Decode(&startups); err != nil {
		return nil, err
	}
	return startups, nil
}

func (s *startupDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return s.db.Collection(startupName).CountDocuments(ctx, filter)
}

func (s *startupDatabase) InsertOne(ctx context.Context, startup models.Startup) error {
	fillStartupSlices(&startup)
	_, err := s.db.Collection(startupName).InsertOne(ctx, startup)
	return err
}

// SaveMembership writes the team, join requests and invite links of a startup back,
// provided nobody else has written the document since it was loaded. On success the
// in-memory version is advanced to match the stored one.
func (s *startupDatabase) SaveMembership(ctx context.Context, startup *models.Startup) error {
	fillStartupSlices(startup)
	now := time.Now().UTC()
	filter := bson.M{"_id": startup.ID, "__v": startup.Version}
	update := bson.M{
		"$set": bson.M{
			"startup.team":         startup.Details.Team,
			"startup.joinRequests": startup.Details.JoinRequests,
			"startup.inviteLinks":  startup.Details.InviteLinks,
			"startup.updatedAt":    now,
		},
		"$inc": bson.M{"__v": 1},
	}
	res, err := s.db.Collection(startupName).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStaleWrite
	}
	startup.Version++
	startup.Details.UpdatedAt = now
	return nil
}

// PullExpiredInvites removes invite links that expired before cutoff from every startup
// and returns the number of startups touched.
func (s *startupDatabase) PullExpiredInvites(ctx context.Context, cutoff time.Time) (int64, error) {
	expired := bson.M{"expiresAt": bson.M{"$lt": cutoff}}
	filter := bson.M{"startup.inviteLinks": bson.M{"$elemMatch": expired}}
	update := bson.M{
		"$pull": bson.M{"startup.inviteLinks": expired},
		"$inc":  bson.M{"__v": 1},
	}
	res, err := s.db.Collection(startupName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *startupDatabase) EnsureIndexes(ctx context.Context) error {
	return s.db.Collection(startupName).CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "startup.inviteLinks.code", Value: 1}}},
		{Keys: bson.D{{Key: "startup.team.userId", Value: 1}}},
		{Keys: bson.D{{Key: "startup.createdAt", Value: -1}}},
	})
}

// fillStartupSlices keeps the embedded arrays as [] rather than null so that later
// $push and $pull updates have an array to work on
func fillStartupSlices(s *models.Startup) {
	if s.Details.Team == nil {
		s.Details.Team = []models.TeamMembership{}
	}
	if s.Details.JoinRequests == nil {
		s.Details.JoinRequests = []models.JoinRequest{}
	}
	if s.Details.InviteLinks == nil {
		s.Details.InviteLinks = []models.InviteLink{}
	}
}
