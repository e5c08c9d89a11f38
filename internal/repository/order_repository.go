package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(model.OrdersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	defer prometheus.TrackDBOperation("order_insert")(time.Now())

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("order number %s: %w", order.OrderNumber, domain.ErrConflict)
	}
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_get")(time.Now())

	var order model.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, q domain.OrderQuery) ([]model.Order, int64, error) {
	defer prometheus.TrackDBOperation("order_list")(time.Now())

	filter := bson.M{}
	if q.MerchantID != nil {
		filter["merchantId"] = *q.MerchantID
	}
	if q.StoreID != nil {
		filter["storeId"] = *q.StoreID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	return findPage[model.Order](ctx, r.coll, filter, bson.D{{Key: "createdAt", Value: -1}}, q.Page)
}

// statusTimestamp names the field stamped when an order enters status
func statusTimestamp(status string) string {
	switch status {
	case model.OrderConfirmed:
		return "confirmedAt"
	case model.OrderDelivered:
		return "deliveredAt"
	case model.OrderCancelled:
		return "cancelledAt"
	}
	return ""
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from string, change model.OrderStatusChange) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_status")(time.Now())

	set := bson.M{"status": change.Status, "updatedAt": change.ChangedAt}
	if field := statusTimestamp(change.Status); field != "" {
		set[field] = change.ChangedAt
	}

	var order model.Order
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set, "$push": bson.M{"statusHistory": change}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("order changed concurrently: %w", domain.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Stats(ctx context.Context, merchantID uint) (*domain.OrderStats, error) {
	defer prometheus.TrackDBOperation("order_stats")(time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"merchantId": merchantID}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$pricing.total"}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status  string  `bson:"_id"`
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &domain.OrderStats{ByStatus: make(map[string]int64, len(model.OrderStatuses))}
	for _, s := range model.OrderStatuses {
		stats.ByStatus[s] = 0
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
		if row.Status == model.OrderDelivered {
			stats.Revenue = row.Revenue
			stats.DeliveredCount = row.Count
		}
	}
	if stats.DeliveredCount > 0 {
		stats.AvgOrderValue = stats.Revenue / float64(stats.DeliveredCount)
	}
	return stats, nil
}
