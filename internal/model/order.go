package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderReady          = "ready"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
	OrderRefunded       = "refunded"
)

// OrderStatuses lists every order status in lifecycle order
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
	OrderOutForDelivery, OrderDelivered, OrderCancelled, OrderRefunded,
}

type OrderCustomer struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type OrderItem struct {
	ProductID   primitive.ObjectID `json:"productId" bson:"productId"`
	ProductName string             `json:"productName" bson:"productName"`
	SKU         string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Price       float64            `json:"price" bson:"price"`
	Total       float64            `json:"total" bson:"total"`
}

type OrderPricing struct {
	Subtotal float64 `json:"subtotal" bson:"subtotal"`
	Tax      float64 `json:"tax" bson:"tax"`
	Shipping float64 `json:"shipping" bson:"shipping"`
	Discount float64 `json:"discount" bson:"discount"`
	Total    float64 `json:"total" bson:"total"`
	Currency string  `json:"currency" bson:"currency"`
}

type OrderStatusChange struct {
	Status    string    `json:"status" bson:"status"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	ChangedBy uint      `json:"changedBy" bson:"changedBy"`
	ChangedAt time.Time `json:"changedAt" bson:"changedAt"`
}

// Order is a merchant order aggregating line items
type Order struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	MerchantID    uint                `json:"merchantId" bson:"merchantId"`
	StoreID       primitive.ObjectID  `json:"storeId" bson:"storeId"`
	OrderNumber   string              `json:"orderNumber" bson:"orderNumber"`
	Customer      OrderCustomer       `json:"customer" bson:"customer"`
	Items         []OrderItem         `json:"items" bson:"items"`
	Pricing       OrderPricing        `json:"pricing" bson:"pricing"`
	Status        string              `json:"status" bson:"status"`
	PaymentStatus string              `json:"paymentStatus" bson:"paymentStatus"`
	StatusHistory []OrderStatusChange `json:"statusHistory" bson:"statusHistory"`
	ConfirmedAt   *time.Time          `json:"confirmedAt,omitempty" bson:"confirmedAt,omitempty"`
	DeliveredAt   *time.Time          `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CancelledAt   *time.Time          `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

var OrderIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "orderNumber", Value: 1}},
		Options: options.Index().SetName("uniq_orderNumber").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "merchantId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_merchantId_status_createdAt"),
	},
	{
		Keys:    bson.D{{Key: "items.productId", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_items_productId_status"),
	},
}
