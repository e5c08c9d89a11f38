package repository

import (
	"context"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// HomepageCatalog serves the read-only queries behind the customer homepage
type HomepageCatalog struct {
	db         *mongo.Database
	categories *CategoryRepository
	now        func() time.Time
}

func NewHomepageCatalog(db *mongo.Database) *HomepageCatalog {
	return &HomepageCatalog{db: db, categories: NewCategoryRepository(db), now: time.Now}
}

func publicProducts() bson.M {
	return bson.M{"isActive": true, "isDeleted": bson.M{"$ne": true}}
}

func (c *HomepageCatalog) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("homepage_products")(time.Now())

	filter := publicProducts()
	filter["isFeatured"] = true
	return findAll[model.Product](ctx, c.db.Collection(model.ProductsCollection), filter,
		limited(limit).SetSort(bson.D{{Key: "ratings.average", Value: -1}, {Key: "createdAt", Value: -1}}))
}

func (c *HomepageCatalog) NewArrivals(ctx context.Context, since time.Time, limit int) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("homepage_products")(time.Now())

	filter := publicProducts()
	filter["createdAt"] = bson.M{"$gte": since}
	return findAll[model.Product](ctx, c.db.Collection(model.ProductsCollection), filter,
		limited(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (c *HomepageCatalog) FeaturedStores(ctx context.Context, limit int) ([]model.Store, error) {
	defer prometheus.TrackDBOperation("homepage_stores")(time.Now())

	filter := storeFilter("")
	filter["isFeatured"] = true
	return findAll[model.Store](ctx, c.db.Collection(model.StoresCollection), filter,
		limited(limit).SetSort(bson.D{{Key: "ratings.average", Value: -1}}))
}

func (c *HomepageCatalog) TrendingStores(ctx context.Context, limit int) ([]model.Store, error) {
	defer prometheus.TrackDBOperation("homepage_stores")(time.Now())

	return findAll[model.Store](ctx, c.db.Collection(model.StoresCollection), storeFilter(""),
		limited(limit).SetSort(bson.D{{Key: "analytics.totalOrders", Value: -1}}))
}

func (c *HomepageCatalog) UpcomingEvents(ctx context.Context, limit int) ([]model.Event, error) {
	return findAll[model.Event](ctx, c.db.Collection(model.EventsCollection),
		bson.M{"isActive": true, "date": bson.M{"$gte": c.now()}},
		limited(limit).SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (c *HomepageCatalog) OffersByCategory(ctx context.Context, category string, limit int) ([]model.Offer, error) {
	defer prometheus.TrackDBOperation("homepage_offers")(time.Now())

	filter := model.ActiveOfferFilter(c.now())
	filter["category"] = category
	return findAll[model.Offer](ctx, c.db.Collection(model.OffersCollection), filter,
		limited(limit).SetSort(bson.D{{Key: "metadata.priority", Value: -1}, {Key: "createdAt", Value: -1}}))
}

func (c *HomepageCatalog) Categories(ctx context.Context, limit int) ([]model.Category, error) {
	return c.categories.ListActive(ctx, limit)
}

func (c *HomepageCatalog) TrendingVideos(ctx context.Context, limit int) ([]model.Video, error) {
	defer prometheus.TrackDBOperation("homepage_videos")(time.Now())

	return findAll[model.Video](ctx, c.db.Collection(model.VideosCollection),
		bson.M{"isPublished": true, "moderationStatus": model.ModerationApproved},
		limited(limit).SetSort(bson.D{{Key: "engagement.views", Value: -1}}))
}

func (c *HomepageCatalog) LatestArticles(ctx context.Context, limit int) ([]model.Article, error) {
	return findAll[model.Article](ctx, c.db.Collection(model.ArticlesCollection),
		bson.M{"isPublished": true},
		limited(limit).SetSort(bson.D{{Key: "publishedAt", Value: -1}}))
}
