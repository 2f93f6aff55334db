package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/models"
)

// memStartups keeps startups in memory and applies the same version check on save as
// the mongo implementation
type memStartups struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Startup
}

func newMemStartups() *memStartups {
	return &memStartups{docs: map[primitive.ObjectID]models.Startup{}}
}

func cloneStartup(s models.Startup) models.Startup {
	s.Details.Team = append([]models.TeamMembership{}, s.Details.Team...)
	s.Details.JoinRequests = append([]models.JoinRequest{}, s.Details.JoinRequests...)
	s.Details.InviteLinks = append([]models.InviteLink{}, s.Details.InviteLinks...)
	return s
}

func (m *memStartups) FindOne(ctx context.Context, filter interface{}) (*models.Startup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := filter.(bson.M)
	if id, ok := f["_id"].(primitive.ObjectID); ok {
		s, ok := m.docs[id]
		if !ok {
			return nil, databases.ErrNoDocuments
		}
		c := cloneStartup(s)
		return &c, nil
	}
	if code, ok := f["startup.inviteLinks.code"].(string); ok {
		for _, s := range m.docs {
			for _, l := range s.Details.InviteLinks {
				if l.Code == code {
					c := cloneStartup(s)
					return &c, nil
				}
			}
		}
	}
	return nil, databases.ErrNoDocuments
}

func (m *memStartups) Find(ctx context.Context, filter interface{}, page, limit int) ([]models.Startup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Startup, 0, len(m.docs))
	for _, s := range m.docs {
		all = append(all, cloneStartup(s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Startup{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *memStartups) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), nil
}

func (m *memStartups) InsertOne(ctx context.Context, startup models.Startup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[startup.ID] = cloneStartup(startup)
	return nil
}

func (m *memStartups) SaveMembership(ctx context.Context, startup *models.Startup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.docs[startup.ID]
	if !ok || current.Version != startup.Version {
		return databases.ErrStaleWrite
	}
	startup.Version++
	m.docs[startup.ID] = cloneStartup(*startup)
	return nil
}

func (m *memStartups) PullExpiredInvites(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *memStartups) EnsureIndexes(ctx context.Context) error { return nil }

func (m *memStartups) get(t *testing.T, id primitive.ObjectID) models.Startup {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.docs[id]
	require.True(t, ok, "startup %s not stored", id.Hex())
	return cloneStartup(s)
}

// memUsers keeps users in memory, keyed by hex id
type memUsers struct {
	mu   sync.Mutex
	docs map[string]models.User
}

func newMemUsers(ids ...string) *memUsers {
	m := &memUsers{docs: map[string]models.User{}}
	for _, id := range ids {
		oid, _ := primitive.ObjectIDFromHex(id)
		m.docs[id] = models.User{
			ID:      oid,
			Details: models.UserDetails{Email: id + "@example.com", Name: id, Startups: []models.UserStartup{}},
		}
	}
	return m
}

func (m *memUsers) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := filter.(bson.M)
	if id, ok := f["_id"].(primitive.ObjectID); ok {
		if u, ok := m.docs[id.Hex()]; ok {
			return &u, nil
		}
	}
	return nil, databases.ErrNoDocuments
}

func (m *memUsers) Find(ctx context.Context, filter interface{}, page, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.docs {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) InsertOne(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.docs {
		if u.Details.Email == user.Details.Email {
			return databases.ErrDuplicateKey
		}
	}
	m.docs[user.ID.Hex()] = user
	return nil
}

func (m *memUsers) update(userID string, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.docs[userID]
	if !ok {
		return databases.ErrNoDocuments
	}
	fn(&u)
	m.docs[userID] = u
	return nil
}

func (m *memUsers) SetStartup(ctx context.Context, userID string, entry models.UserStartup) error {
	return m.update(userID, func(u *models.User) {
		for i, s := range u.Details.Startups {
			if s.StartupID == entry.StartupID {
				u.Details.Startups[i] = entry
				return
			}
		}
		u.Details.Startups = append(u.Details.Startups, entry)
	})
}

func (m *memUsers) RemoveStartup(ctx context.Context, userID, startupID string) error {
	return m.update(userID, func(u *models.User) {
		kept := []models.UserStartup{}
		for _, s := range u.Details.Startups {
			if s.StartupID != startupID {
				kept = append(kept, s)
			}
		}
		u.Details.Startups = kept
	})
}

func (m *memUsers) ReplaceStartups(ctx context.Context, userID string, entries []models.UserStartup) error {
	return m.update(userID, func(u *models.User) { u.Details.Startups = entries })
}

func (m *memUsers) PushNotification(ctx context.Context, userID string, notification models.Notification) error {
	return m.update(userID, func(u *models.User) {
		u.Details.Notifications = append(u.Details.Notifications, notification)
	})
}

func (m *memUsers) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	found := false
	err := m.update(userID, func(u *models.User) {
		for i := range u.Details.Notifications {
			if u.Details.Notifications[i].ID == notificationID {
				u.Details.Notifications[i].Seen = true
				found = true
			}
		}
	})
	if err == nil && !found {
		return databases.ErrNoDocuments
	}
	return err
}

func (m *memUsers) EnsureIndexes(ctx context.Context) error { return nil }

func (m *memUsers) get(t *testing.T, id string) models.User {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.docs[id]
	require.True(t, ok, "user %s not stored", id)
	return u
}

// do runs handler with body encoded as JSON, the caller on the context and the given
// route variables
func do(t *testing.T, handler http.HandlerFunc, method, path, callerID string, body interface{}, vars map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if callerID != "" {
		req = req.WithContext(api.WithUserID(req.Context(), callerID))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return oid
}
