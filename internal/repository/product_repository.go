package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(model.ProductsCollection)}
}

func liveProducts() bson.M {
	return bson.M{"isDeleted": bson.M{"$ne": true}}
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_get")(time.Now())

	filter := liveProducts()
	filter["_id"] = id

	var product model.Product
	if err := r.coll.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, notFound(err, "product")
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, q domain.ProductQuery) ([]model.Product, int64, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	filter := liveProducts()
	if q.StoreID != nil {
		filter["store"] = *q.StoreID
	}
	if q.MerchantID != nil {
		filter["merchantId"] = *q.MerchantID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"sku": pattern},
			bson.M{"brand": pattern},
		}
	}
	return findPage[model.Product](ctx, r.coll, filter, bson.D{{Key: "createdAt", Value: -1}}, q.Page)
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_insert")(time.Now())

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, product)
	return err
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	defer prometheus.TrackDBOperation("product_update")(time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "product")
	}
	return nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	filter := liveProducts()
	filter["_id"] = id
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"isDeleted": true,
		"isActive":  false,
		"deletedAt": at,
		"updatedAt": at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "product")
	}
	return nil
}

func (r *ProductRepository) FindBySKUs(ctx context.Context, storeID primitive.ObjectID, skus []string) (map[string]model.Product, error) {
	defer prometheus.TrackDBOperation("product_find_skus")(time.Now())

	found := make(map[string]model.Product, len(skus))
	if len(skus) == 0 {
		return found, nil
	}

	filter := liveProducts()
	filter["store"] = storeID
	filter["sku"] = bson.M{"$in": skus}

	products, err := findAll[model.Product](ctx, r.coll, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.SKU] = p
	}
	return found, nil
}

func (r *ProductRepository) FilterOwned(ctx context.Context, storeID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return []primitive.ObjectID{}, nil
	}

	filter := liveProducts()
	filter["store"] = storeID
	filter["_id"] = bson.M{"$in": ids}

	products, err := findAll[model.Product](ctx, r.coll, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	owned := make(map[primitive.ObjectID]bool, len(products))
	for _, p := range products {
		owned[p.ID] = true
	}
	// preserve request order
	result := make([]primitive.ObjectID, 0, len(products))
	for _, id := range ids {
		if owned[id] {
			result = append(result, id)
			delete(owned, id)
		}
	}
	return result, nil
}

func (r *ProductRepository) WriteBatch(ctx context.Context, creates, updates []*model.Product) error {
	defer prometheus.TrackDBOperation("product_bulk_write")(time.Now())

	writes := make([]mongo.WriteModel, 0, len(creates)+len(updates))
	for _, p := range creates {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(p))
	}
	for _, p := range updates {
		writes = append(writes, mongo.NewReplaceOneModel().SetFilter(bson.M{"_id": p.ID}).SetReplacement(p))
	}
	if len(writes) == 0 {
		return nil
	}

	_, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

func (r *ProductRepository) ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	filter := liveProducts()
	filter["store"] = storeID
	return findAll[model.Product](ctx, r.coll, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}
