package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	GalleryTypeImage = "image"
	GalleryTypeVideo = "video"

	DefaultGalleryCategory = "general"
)

// ProductGalleryCategories are the only categories a product gallery accepts
var ProductGalleryCategories = []string{"main", "variant", "lifestyle", "details", "packaging", DefaultGalleryCategory}

// GalleryItem is one image or video in a store gallery, or one image in a product gallery.
// At most one active item per (store, category) carries IsCover; a product has a single cover.
type GalleryItem struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	StoreID     primitive.ObjectID  `json:"storeId" bson:"storeId"`
	ProductID   *primitive.ObjectID `json:"productId,omitempty" bson:"productId,omitempty"`
	VariantID   string              `json:"variantId,omitempty" bson:"variantId,omitempty"`
	MerchantID  uint                `json:"merchantId" bson:"merchantId"`
	URL         string              `json:"url" bson:"url"`
	Thumbnail   string              `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	PublicID    string              `json:"publicId" bson:"publicId"`
	Type        string              `json:"type" bson:"type"`
	Category    string              `json:"category" bson:"category"`
	Title       string              `json:"title,omitempty" bson:"title,omitempty"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Tags        []string            `json:"tags" bson:"tags"`
	Order       int                 `json:"order" bson:"order"`
	IsVisible   bool                `json:"isVisible" bson:"isVisible"`
	IsCover     bool                `json:"isCover" bson:"isCover"`
	Views       int                 `json:"views" bson:"views"`
	Likes       int                 `json:"likes" bson:"likes"`
	Shares      int                 `json:"shares" bson:"shares"`
	UploadedAt  time.Time           `json:"uploadedAt" bson:"uploadedAt"`
	DeletedAt   *time.Time          `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsDeleted reports whether the item has been soft deleted
func (g *GalleryItem) IsDeleted() bool {
	return g.DeletedAt != nil
}

// NormalizeGalleryCategory lower-cases and trims a category, defaulting to general
func NormalizeGalleryCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return DefaultGalleryCategory
	}
	return c
}

// GalleryCategory summarises one category of a store gallery
type GalleryCategory struct {
	Name       string `json:"name" bson:"_id"`
	Count      int    `json:"count" bson:"count"`
	CoverImage string `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
}

var GalleryIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "category", Value: 1}, {Key: "order", Value: 1}},
		Options: options.Index().SetName("idx_storeId_category_order"),
	},
	{
		Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "isVisible", Value: 1}, {Key: "deletedAt", Value: 1}},
		Options: options.Index().SetName("idx_storeId_isVisible_deletedAt"),
	},
	{
		Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "category", Value: 1}, {Key: "isCover", Value: 1}},
		Options: options.Index().SetName("idx_storeId_category_isCover"),
	},
}

var ProductGalleryIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "category", Value: 1}, {Key: "order", Value: 1}},
		Options: options.Index().SetName("idx_productId_category_order"),
	},
	{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "variantId", Value: 1}},
		Options: options.Index().SetName("idx_productId_variantId"),
	},
	{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "isCover", Value: 1}, {Key: "deletedAt", Value: 1}},
		Options: options.Index().SetName("idx_productId_isCover_deletedAt"),
	},
}
