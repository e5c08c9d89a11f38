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

type VideoRepository struct {
	coll *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{coll: db.Collection(model.VideosCollection)}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	defer prometheus.TrackDBOperation("video_insert")(time.Now())

	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, video)
	return err
}

func (r *VideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Video, error) {
	defer prometheus.TrackDBOperation("video_get")(time.Now())

	var video model.Video
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, notFound(err, "video")
	}
	return &video, nil
}

func (r *VideoRepository) Save(ctx context.Context, video *model.Video) error {
	defer prometheus.TrackDBOperation("video_update")(time.Now())

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": video.ID}, video)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "video")
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer prometheus.TrackDBOperation("video_delete")(time.Now())

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "video")
	}
	return nil
}

func storeVideos(storeID primitive.ObjectID) bson.M {
	return bson.M{"stores": storeID, "contentType": model.VideoContentMerchant}
}

func (r *VideoRepository) ListByStore(ctx context.Context, q domain.VideoQuery) ([]model.Video, int64, error) {
	defer prometheus.TrackDBOperation("video_list")(time.Now())

	var sort bson.D
	switch q.SortBy {
	case "popular":
		sort = bson.D{{Key: "engagement.likes", Value: -1}, {Key: "publishedAt", Value: -1}}
	case "views":
		sort = bson.D{{Key: "engagement.views", Value: -1}, {Key: "publishedAt", Value: -1}}
	default:
		sort = bson.D{{Key: "publishedAt", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	return findPage[model.Video](ctx, r.coll, storeVideos(q.StoreID), sort, q.Page)
}

func (r *VideoRepository) AllByStore(ctx context.Context, storeID primitive.ObjectID) ([]model.Video, error) {
	defer prometheus.TrackDBOperation("video_list")(time.Now())
	return findAll[model.Video](ctx, r.coll, storeVideos(storeID))
}
