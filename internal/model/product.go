package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Product statuses accepted by merchant CRUD and bulk import
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// ProductStatuses lists every valid product status
var ProductStatuses = []string{ProductStatusActive, ProductStatusInactive, ProductStatusDraft, ProductStatusArchived}

type ProductPricing struct {
	Original float64 `json:"original" bson:"original"`
	Selling  float64 `json:"selling" bson:"selling"`
	Cost     float64 `json:"cost,omitempty" bson:"cost,omitempty"`
	Discount float64 `json:"discount,omitempty" bson:"discount,omitempty"`
	Currency string  `json:"currency" bson:"currency"`
}

type ProductInventory struct {
	Stock             int  `json:"stock" bson:"stock"`
	IsAvailable       bool `json:"isAvailable" bson:"isAvailable"`
	LowStockThreshold int  `json:"lowStockThreshold" bson:"lowStockThreshold"`
	Unlimited         bool `json:"unlimited" bson:"unlimited"`
}

type ProductAnalytics struct {
	Views        int `json:"views" bson:"views"`
	Purchases    int `json:"purchases" bson:"purchases"`
	Conversions  int `json:"conversions" bson:"conversions"`
	WishlistAdds int `json:"wishlistAdds" bson:"wishlistAdds"`
	ShareCount   int `json:"shareCount" bson:"shareCount"`
}

type ProductCashback struct {
	Percentage float64 `json:"percentage" bson:"percentage"`
	MaxAmount  float64 `json:"maxAmount,omitempty" bson:"maxAmount,omitempty"`
}

// Product belongs to exactly one store and one category
type Product struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Slug             string             `json:"slug" bson:"slug"`
	Description      string             `json:"description" bson:"description"`
	ShortDescription string             `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	SKU              string             `json:"sku" bson:"sku"`
	Barcode          string             `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Brand            string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Store            primitive.ObjectID `json:"store" bson:"store"`
	MerchantID       uint               `json:"merchantId" bson:"merchantId"`
	Category         primitive.ObjectID `json:"category" bson:"category"`
	Subcategory      string             `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Images           []string           `json:"images,omitempty" bson:"images,omitempty"`
	Tags             []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Pricing          ProductPricing     `json:"pricing" bson:"pricing"`
	Inventory        ProductInventory   `json:"inventory" bson:"inventory"`
	Ratings          RatingSummary      `json:"ratings" bson:"ratings"`
	Analytics        ProductAnalytics   `json:"analytics" bson:"analytics"`
	Cashback         ProductCashback    `json:"cashback" bson:"cashback"`
	Weight           float64            `json:"weight,omitempty" bson:"weight,omitempty"`
	Status           string             `json:"status" bson:"status"`
	Visibility       string             `json:"visibility" bson:"visibility"`
	IsFeatured       bool               `json:"isFeatured" bson:"isFeatured"`
	IsActive         bool               `json:"isActive" bson:"isActive"`
	IsDeleted        bool               `json:"isDeleted" bson:"isDeleted"`
	DeletedAt        *time.Time         `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

var ProductIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "store", Value: 1}, {Key: "sku", Value: 1}},
		Options: options.Index().SetName("idx_store_sku"),
	},
	{
		Keys:    bson.D{{Key: "store", Value: 1}, {Key: "isDeleted", Value: 1}},
		Options: options.Index().SetName("idx_store_isDeleted"),
	},
	{
		Keys:    bson.D{{Key: "merchantId", Value: 1}, {Key: "isDeleted", Value: 1}},
		Options: options.Index().SetName("idx_merchantId_isDeleted"),
	},
	{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}},
		Options: options.Index().SetName("idx_category_isActive"),
	},
	{
		Keys:    bson.D{{Key: "isFeatured", Value: 1}, {Key: "ratings.average", Value: -1}, {Key: "isActive", Value: 1}, {Key: "isDeleted", Value: 1}},
		Options: options.Index().SetName("idx_featured_rating"),
	},
	{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_createdAt"),
	},
}
