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
)

type StoreRepository struct {
	coll *mongo.Collection
}

func NewStoreRepository(db *mongo.Database) *StoreRepository {
	return &StoreRepository{coll: db.Collection(model.StoresCollection)}
}

func (r *StoreRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Store, error) {
	defer prometheus.TrackDBOperation("store_get")(time.Now())

	var store model.Store
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&store); err != nil {
		return nil, notFound(err, "store")
	}
	return &store, nil
}

func (r *StoreRepository) ListByMerchant(ctx context.Context, merchantID uint) ([]model.Store, error) {
	defer prometheus.TrackDBOperation("store_list")(time.Now())
	return findAll[model.Store](ctx, r.coll, bson.M{"merchantId": merchantID})
}

func (r *StoreRepository) List(ctx context.Context, q domain.StoreQuery) ([]model.Store, int64, error) {
	defer prometheus.TrackDBOperation("store_list")(time.Now())

	filter := bson.M{}
	if q.MerchantID != nil {
		filter["merchantId"] = *q.MerchantID
	}
	if q.Active != nil {
		filter["isActive"] = *q.Active
	}
	return findPage[model.Store](ctx, r.coll, filter, bson.D{{Key: "createdAt", Value: -1}}, q.Page)
}

func (r *StoreRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug})
	return n > 0, err
}

func (r *StoreRepository) Create(ctx context.Context, store *model.Store) error {
	defer prometheus.TrackDBOperation("store_insert")(time.Now())

	if store.ID.IsZero() {
		store.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, store)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *StoreRepository) Save(ctx context.Context, store *model.Store) error {
	defer prometheus.TrackDBOperation("store_update")(time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": store.ID}, store)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "store")
	}
	return nil
}
