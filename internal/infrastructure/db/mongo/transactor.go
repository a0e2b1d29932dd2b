package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a function inside a MongoDB session transaction so the
// password-reset pair (account update + token invalidation) commits or
// aborts together. Requires a replica-set deployment.
type Transactor struct {
	client *mongo.Client
}

func NewTransactor(client *mongo.Client) *Transactor {
	return &Transactor{client: client}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
