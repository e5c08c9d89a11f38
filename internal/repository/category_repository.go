package repository

import (
	"context"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(model.CategoriesCollection)}
}

// ListActive returns active categories by sort order; limit <= 0 means no limit
func (r *CategoryRepository) ListActive(ctx context.Context, limit int) ([]model.Category, error) {
	defer prometheus.TrackDBOperation("category_list")(time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[model.Category](ctx, r.coll, bson.M{"isActive": true}, opts)
}

// Upsert matches on slug
func (r *CategoryRepository) Upsert(ctx context.Context, category *model.Category) error {
	defer prometheus.TrackDBOperation("category_upsert")(time.Now())

	now := time.Now()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"slug": category.Slug},
		bson.M{
			"$set": bson.M{
				"name":      category.Name,
				"type":      category.Type,
				"icon":      category.Icon,
				"image":     category.Image,
				"sortOrder": category.SortOrder,
				"isActive":  category.IsActive,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
