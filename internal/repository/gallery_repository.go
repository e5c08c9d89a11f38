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

const (
	storeOwnerField   = "storeId"
	productOwnerField = "productId"
)

// GalleryRepository stores gallery items of one collection, keyed by owner
type GalleryRepository struct {
	coll  *mongo.Collection
	owner string
}

// NewGalleryRepository serves store galleries, owned by storeId
func NewGalleryRepository(db *mongo.Database) *GalleryRepository {
	return &GalleryRepository{coll: db.Collection(model.StoreGalleryCollection), owner: storeOwnerField}
}

// NewProductGalleryRepository serves product galleries, owned by productId
func NewProductGalleryRepository(db *mongo.Database) *GalleryRepository {
	return &GalleryRepository{coll: db.Collection(model.ProductGalleryCollection), owner: productOwnerField}
}

func activeItems(ownerField string, ownerID primitive.ObjectID, visibleOnly bool) bson.M {
	filter := model.NotDeleted()
	filter[ownerField] = ownerID
	if visibleOnly {
		filter["isVisible"] = true
	}
	return filter
}

func galleryListFilter(ownerField string, q domain.GalleryQuery) bson.M {
	filter := activeItems(ownerField, q.OwnerID, q.VisibleOnly)
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.VariantID != "" {
		filter["variantId"] = q.VariantID
	}
	return filter
}

func gallerySort(q domain.GalleryQuery) bson.D {
	dir := 1
	if q.Descending {
		dir = -1
	}
	switch q.SortBy {
	case "uploadedAt":
		return bson.D{{Key: "uploadedAt", Value: dir}}
	case "":
		return bson.D{{Key: "order", Value: dir}, {Key: "uploadedAt", Value: -1}}
	}
	return bson.D{{Key: q.SortBy, Value: dir}, {Key: "uploadedAt", Value: -1}}
}

func unsetCoverFilter(ownerField string, ownerID primitive.ObjectID, category string, keep primitive.ObjectID) bson.M {
	filter := activeItems(ownerField, ownerID, false)
	if category != "" {
		filter["category"] = category
	}
	filter["isCover"] = true
	filter["_id"] = bson.M{"$ne": keep}
	return filter
}

func softDeleteUpdate(at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"deletedAt": at,
		"isVisible": false,
		"isCover":   false,
		"updatedAt": at,
	}}
}

// categoryPipeline groups active items by category. The cover preview prefers the cover
// item and never falls back to a raw video URL.
func categoryPipeline(match bson.M) mongo.Pipeline {
	preview := bson.D{{Key: "$ifNull", Value: bson.A{
		"$thumbnail",
		bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$type", model.GalleryTypeImage}}}, "$url", nil,
		}}},
	}}}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.D{{Key: "preview", Value: preview}}}},
		{{Key: "$addFields", Value: bson.D{{Key: "hasPreview", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$preview", nil}}}, 0, 1,
		}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "hasPreview", Value: -1}, {Key: "isCover", Value: -1}, {Key: "order", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "coverImage", Value: bson.D{{Key: "$first", Value: "$preview"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (r *GalleryRepository) ownerOf(item *model.GalleryItem) primitive.ObjectID {
	if r.owner == productOwnerField && item.ProductID != nil {
		return *item.ProductID
	}
	return item.StoreID
}

func (r *GalleryRepository) Create(ctx context.Context, item *model.GalleryItem) error {
	defer prometheus.TrackDBOperation("gallery_insert")(time.Now())

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, item)
	return err
}

func (r *GalleryRepository) Save(ctx context.Context, item *model.GalleryItem) error {
	defer prometheus.TrackDBOperation("gallery_update")(time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID, r.owner: r.ownerOf(item)}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "gallery item")
	}
	return nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*model.GalleryItem, error) {
	defer prometheus.TrackDBOperation("gallery_get")(time.Now())

	var item model.GalleryItem
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, r.owner: ownerID}).Decode(&item); err != nil {
		return nil, notFound(err, "gallery item")
	}
	return &item, nil
}

func (r *GalleryRepository) List(ctx context.Context, q domain.GalleryQuery) ([]model.GalleryItem, int64, error) {
	defer prometheus.TrackDBOperation("gallery_list")(time.Now())

	return findPage[model.GalleryItem](ctx, r.coll, galleryListFilter(r.owner, q), gallerySort(q), q.Page)
}

func (r *GalleryRepository) Categories(ctx context.Context, ownerID primitive.ObjectID, visibleOnly bool) ([]model.GalleryCategory, error) {
	defer prometheus.TrackDBOperation("gallery_categories")(time.Now())

	cur, err := r.coll.Aggregate(ctx, categoryPipeline(activeItems(r.owner, ownerID, visibleOnly)))
	if err != nil {
		return nil, err
	}
	categories := make([]model.GalleryCategory, 0)
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GalleryRepository) MaxOrder(ctx context.Context, ownerID primitive.ObjectID, category string) (int, error) {
	filter := activeItems(r.owner, ownerID, false)
	filter["category"] = category

	var top model.GalleryItem
	err := r.coll.FindOne(ctx, filter, options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})).Decode(&top)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return top.Order, nil
}

func (r *GalleryRepository) UnsetCover(ctx context.Context, ownerID primitive.ObjectID, category string, keep primitive.ObjectID) (int64, error) {
	defer prometheus.TrackDBOperation("gallery_unset_cover")(time.Now())

	res, err := r.coll.UpdateMany(ctx, unsetCoverFilter(r.owner, ownerID, category, keep),
		bson.M{"$set": bson.M{"isCover": false, "updatedAt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *GalleryRepository) SetOrder(ctx context.Context, ownerID, id primitive.ObjectID, order int) (bool, error) {
	filter := activeItems(r.owner, ownerID, false)
	filter["_id"] = id

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"order": order, "updatedAt": time.Now()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *GalleryRepository) SoftDelete(ctx context.Context, ownerID primitive.ObjectID, ids []primitive.ObjectID, at time.Time) (int64, error) {
	defer prometheus.TrackDBOperation("gallery_delete")(time.Now())

	filter := activeItems(r.owner, ownerID, false)
	filter["_id"] = bson.M{"$in": ids}

	res, err := r.coll.UpdateMany(ctx, filter, softDeleteUpdate(at))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *GalleryRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *GalleryRepository) ListUnordered(ctx context.Context) ([]model.GalleryItem, error) {
	filter := model.NotDeleted()
	filter["order"] = 0
	return findAll[model.GalleryItem](ctx, r.coll, filter, options.Find().
		SetSort(bson.D{{Key: r.owner, Value: 1}, {Key: "category", Value: 1}, {Key: "uploadedAt", Value: 1}}))
}
