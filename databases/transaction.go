package databases

// go generate: mockery --name Transactor

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a unit of work that must either be applied to every collection it
// touches or to none of them
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type sessionTransactor struct {
	client ClientHelper
}

// NewTransactor returns a Transactor backed by mongo sessions. When enabled is false,
// for deployments without a replica set, the work runs directly on ctx.
func NewTransactor(client ClientHelper, enabled bool) Transactor {
	if !enabled {
		return DirectTransactor{}
	}
	return &sessionTransactor{client: client}
}

// WithTransaction runs fn inside a multi-document transaction. The driver may call fn
// more than once when the transaction hits a transient error, so fn must re-read what
// it depends on.
func (t *sessionTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// DirectTransactor runs the work without a transaction
type DirectTransactor struct{}

// WithTransaction calls fn once with ctx
func (DirectTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
