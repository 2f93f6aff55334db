package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/databases/mocks"
)

// fakeSession records how the transactor drives a session. Methods it does not
// override panic through the nil embedded Session.
type fakeSession struct {
	mongo.Session
	txCalls int
	ended   bool
}

func (s *fakeSession) WithTransaction(ctx context.Context, fn func(mongo.SessionContext) (interface{}, error), opts ...*options.TransactionOptions) (interface{}, error) {
	s.txCalls++
	return fn(mongo.NewSessionContext(ctx, s))
}

func (s *fakeSession) EndSession(ctx context.Context) {
	s.ended = true
}

func TestNewTransactorDisabled(t *testing.T) {
	tx := databases.NewTransactor(nil, false)
	assert.IsType(t, databases.DirectTransactor{}, tx)

	calls := 0
	boom := errors.New("boom")
	err := tx.WithTransaction(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestNewTransactorSession(t *testing.T) {
	sess := &fakeSession{}
	client := &mocks.ClientHelper{}
	client.On("StartSession").Return(sess, nil)
	tx := databases.NewTransactor(client, true)

	var got context.Context
	err := tx.WithTransaction(context.Background(), func(ctx context.Context) error {
		got = ctx
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sess.txCalls)
	assert.True(t, sess.ended)
	assert.NotNil(t, mongo.SessionFromContext(got), "work runs on the session context")
	client.AssertExpectations(t)
}

func TestNewTransactorSessionWorkError(t *testing.T) {
	sess := &fakeSession{}
	client := &mocks.ClientHelper{}
	client.On("StartSession").Return(sess, nil)
	tx := databases.NewTransactor(client, true)

	boom := errors.New("boom")
	err := tx.WithTransaction(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, sess.ended, "session is ended when the work fails")
}

func TestNewTransactorStartSessionError(t *testing.T) {
	client := &mocks.ClientHelper{}
	client.On("StartSession").Return(nil, errors.New("no replica set"))
	tx := databases.NewTransactor(client, true)

	called := false
	err := tx.WithTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.EqualError(t, err, "no replica set")
	assert.False(t, called)
}

func TestNormalizePage(t *testing.T) {
	page, limit := databases.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = databases.NormalizePage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
}
