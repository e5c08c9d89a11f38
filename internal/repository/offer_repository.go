package repository

import (
	"context"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OfferRepository struct {
	coll *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{coll: db.Collection(model.OffersCollection)}
}

func (r *OfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	defer prometheus.TrackDBOperation("offer_insert")(time.Now())

	if offer.ID.IsZero() {
		offer.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, offer)
	return err
}

func (r *OfferRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Offer, error) {
	defer prometheus.TrackDBOperation("offer_get")(time.Now())

	var offer model.Offer
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&offer); err != nil {
		return nil, notFound(err, "offer")
	}
	return &offer, nil
}

func (r *OfferRepository) Save(ctx context.Context, offer *model.Offer) error {
	defer prometheus.TrackDBOperation("offer_update")(time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": offer.ID}, offer)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "offer")
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer prometheus.TrackDBOperation("offer_delete")(time.Now())

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "offer")
	}
	return nil
}

func (r *OfferRepository) List(ctx context.Context, category string, page domain.Page) ([]model.Offer, int64, error) {
	defer prometheus.TrackDBOperation("offer_list")(time.Now())

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return findPage[model.Offer](ctx, r.coll, filter, bson.D{{Key: "createdAt", Value: -1}}, page)
}

type CoinDropRepository struct {
	coll *mongo.Collection
}

func NewCoinDropRepository(db *mongo.Database) *CoinDropRepository {
	return &CoinDropRepository{coll: db.Collection(model.CoinDropsCollection)}
}

func (r *CoinDropRepository) Create(ctx context.Context, drop *model.CoinDrop) error {
	defer prometheus.TrackDBOperation("coindrop_insert")(time.Now())

	if drop.ID.IsZero() {
		drop.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, drop)
	return err
}

func (r *CoinDropRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.CoinDrop, error) {
	var drop model.CoinDrop
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&drop); err != nil {
		return nil, notFound(err, "coin drop")
	}
	return &drop, nil
}

func (r *CoinDropRepository) Save(ctx context.Context, drop *model.CoinDrop) error {
	defer prometheus.TrackDBOperation("coindrop_update")(time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": drop.ID}, drop)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "coin drop")
	}
	return nil
}

func (r *CoinDropRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "coin drop")
	}
	return nil
}

func (r *CoinDropRepository) ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]model.CoinDrop, error) {
	defer prometheus.TrackDBOperation("coindrop_list")(time.Now())
	return findAll[model.CoinDrop](ctx, r.coll, bson.M{"storeId": storeID},
		options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}}))
}

type SectionConfigRepository struct {
	coll *mongo.Collection
}

func NewSectionConfigRepository(db *mongo.Database) *SectionConfigRepository {
	return &SectionConfigRepository{coll: db.Collection(model.OffersSectionConfigCollection)}
}

func (r *SectionConfigRepository) List(ctx context.Context) ([]model.OffersSectionConfig, error) {
	return findAll[model.OffersSectionConfig](ctx, r.coll, bson.M{},
		options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}}))
}

// Upsert matches on sectionKey
func (r *SectionConfigRepository) Upsert(ctx context.Context, cfg *model.OffersSectionConfig) error {
	defer prometheus.TrackDBOperation("section_config_upsert")(time.Now())

	cfg.UpdatedAt = time.Now()
	var saved model.OffersSectionConfig
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"sectionKey": cfg.SectionKey},
		bson.M{"$set": bson.M{
			"isEnabled": cfg.IsEnabled,
			"sortOrder": cfg.SortOrder,
			"maxItems":  cfg.MaxItems,
			"updatedAt": cfg.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return err
	}
	cfg.ID = saved.ID
	return nil
}
