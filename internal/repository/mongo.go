package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notFound maps the driver's no-documents error onto domain.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// findPage runs a count and a windowed find with the same filter
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, sort bson.D, page domain.Page) ([]T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sort)
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}

	items, err := findAll[T](ctx, coll, filter, opts)
	return items, total, err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Transactor runs work inside a MongoDB session transaction
type Transactor struct {
	client *mongo.Client
}

func NewTransactor(client *mongo.Client) *Transactor {
	return &Transactor{client: client}
}

func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
