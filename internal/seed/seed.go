// Package seed loads sample catalogue data and default configuration into a fresh database.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Documents is the sink sample documents are written to
type Documents interface {
	Count(ctx context.Context, collection string) (int64, error)
	InsertMany(ctx context.Context, collection string, docs []interface{}) error
	// StoreIDs returns up to limit active store ids
	StoreIDs(ctx context.Context, limit int) ([]primitive.ObjectID, error)
}

// MongoDocuments writes sample documents straight into MongoDB collections
type MongoDocuments struct {
	DB *mongo.Database
}

func (m MongoDocuments) Count(ctx context.Context, collection string) (int64, error) {
	return m.DB.Collection(collection).CountDocuments(ctx, bson.M{})
}

func (m MongoDocuments) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	_, err := m.DB.Collection(collection).InsertMany(ctx, docs)
	return err
}

func (m MongoDocuments) StoreIDs(ctx context.Context, limit int) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetLimit(int64(limit))
	cur, err := m.DB.Collection(model.StoresCollection).Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// Offers inserts sample offers and offer-family documents. Collections that already hold
// documents are left untouched. It returns the number of documents inserted per collection.
func Offers(ctx context.Context, docs Documents, now time.Time, log *zap.Logger) (map[string]int, error) {
	stores, err := docs.StoreIDs(ctx, 3)
	if err != nil {
		return nil, fmt.Errorf("load stores: %w", err)
	}
	if len(stores) == 0 {
		log.Warn("No active stores found; coin drops and upload-bill stores are skipped")
	}

	inserted := make(map[string]int)
	for _, set := range sampleSets(now, stores) {
		if len(set.docs) == 0 {
			continue
		}
		count, err := docs.Count(ctx, set.collection)
		if err != nil {
			return inserted, fmt.Errorf("count %s: %w", set.collection, err)
		}
		if count > 0 {
			log.Info("Collection already seeded", zap.String("collection", set.collection), zap.Int64("documents", count))
			continue
		}
		if err := docs.InsertMany(ctx, set.collection, set.docs); err != nil {
			return inserted, fmt.Errorf("seed %s: %w", set.collection, err)
		}
		inserted[set.collection] = len(set.docs)
		log.Info("Seeded collection", zap.String("collection", set.collection), zap.Int("documents", len(set.docs)))
	}
	return inserted, nil
}

// Sections upserts the default configuration of every offers page section
func Sections(ctx context.Context, repo domain.SectionConfigRepository) (int, error) {
	for i, key := range service.OffersSectionKeys() {
		cfg := service.DefaultSectionConfig(key, i)
		if err := repo.Upsert(ctx, &cfg); err != nil {
			return i, fmt.Errorf("upsert section %s: %w", key, err)
		}
	}
	return len(service.OffersSectionKeys()), nil
}

// DefaultCategories are the top-level store and product categories
var DefaultCategories = []model.Category{
	{Name: "Food & Dining", Slug: "food-dining", Type: "going_out", Icon: "restaurant-outline"},
	{Name: "Grocery & Essentials", Slug: "grocery-essentials", Type: "home_delivery", Icon: "cart-outline"},
	{Name: "Beauty & Wellness", Slug: "beauty-wellness", Type: "going_out", Icon: "sparkles-outline"},
	{Name: "Healthcare", Slug: "healthcare", Type: "going_out", Icon: "medkit-outline"},
	{Name: "Fashion", Slug: "fashion", Type: "going_out", Icon: "shirt-outline"},
	{Name: "Fitness & Sports", Slug: "fitness-sports", Type: "going_out", Icon: "barbell-outline"},
	{Name: "Education & Learning", Slug: "education-learning", Type: "going_out", Icon: "school-outline"},
	{Name: "Home Services", Slug: "home-services", Type: "home_delivery", Icon: "construct-outline"},
	{Name: "Electronics", Slug: "electronics", Type: "home_delivery", Icon: "phone-portrait-outline"},
	{Name: "Footwear", Slug: "footwear", Type: "going_out", Icon: "footsteps-outline"},
}

// Categories upserts DefaultCategories, matching on slug
func Categories(ctx context.Context, repo domain.CategoryRepository) (int, error) {
	for i := range DefaultCategories {
		category := DefaultCategories[i]
		category.SortOrder = i + 1
		category.IsActive = true
		if err := repo.Upsert(ctx, &category); err != nil {
			return i, fmt.Errorf("upsert category %s: %w", category.Slug, err)
		}
	}
	return len(DefaultCategories), nil
}
