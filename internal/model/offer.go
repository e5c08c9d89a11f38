package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OfferStore struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"id,omitempty"`
	Name     string             `json:"name,omitempty" bson:"name,omitempty"`
	Logo     string             `json:"logo,omitempty" bson:"logo,omitempty"`
	Rating   float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	Verified bool               `json:"verified,omitempty" bson:"verified,omitempty"`
}

type OfferValidity struct {
	StartDate time.Time `json:"startDate" bson:"startDate"`
	EndDate   time.Time `json:"endDate" bson:"endDate"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
}

type OfferEngagement struct {
	LikesCount  int `json:"likesCount" bson:"likesCount"`
	SharesCount int `json:"sharesCount" bson:"sharesCount"`
	ViewsCount  int `json:"viewsCount" bson:"viewsCount"`
}

type FlashSale struct {
	IsActive      bool       `json:"isActive" bson:"isActive"`
	EndTime       *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
	OriginalPrice float64    `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	SalePrice     float64    `json:"salePrice,omitempty" bson:"salePrice,omitempty"`
	MaxQuantity   int        `json:"maxQuantity,omitempty" bson:"maxQuantity,omitempty"`
	SoldQuantity  int        `json:"soldQuantity,omitempty" bson:"soldQuantity,omitempty"`
}

type OfferMetadata struct {
	Priority   int        `json:"priority" bson:"priority"`
	IsTrending bool       `json:"isTrending,omitempty" bson:"isTrending,omitempty"`
	Featured   bool       `json:"featured,omitempty" bson:"featured,omitempty"`
	Tags       []string   `json:"tags,omitempty" bson:"tags,omitempty"`
	FlashSale  *FlashSale `json:"flashSale,omitempty" bson:"flashSale,omitempty"`
}

// Offer is a promotional card shown on the homepage and offers page
type Offer struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title" validate:"required,max=100"`
	Subtitle           string             `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Image              string             `json:"image" bson:"image"`
	Category           string             `json:"category" bson:"category" validate:"required,oneof=mega student new_arrival trending food fashion electronics general"`
	Type               string             `json:"type" bson:"type" validate:"required,oneof=cashback discount voucher combo special walk_in"`
	CashbackPercentage float64            `json:"cashbackPercentage" bson:"cashbackPercentage" validate:"gte=0,lte=100"`
	OriginalPrice      float64            `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	DiscountedPrice    float64            `json:"discountedPrice,omitempty" bson:"discountedPrice,omitempty"`
	Location           *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	Store              OfferStore         `json:"store" bson:"store"`
	Validity           OfferValidity      `json:"validity" bson:"validity"`
	Engagement         OfferEngagement    `json:"engagement" bson:"engagement"`
	Metadata           OfferMetadata      `json:"metadata" bson:"metadata"`
	SaleTag            string             `json:"saleTag,omitempty" bson:"saleTag,omitempty"`
	BogoType           string             `json:"bogoType,omitempty" bson:"bogoType,omitempty"`
	IsFreeDelivery     bool               `json:"isFreeDelivery" bson:"isFreeDelivery"`
	DeliveryFee        float64            `json:"deliveryFee,omitempty" bson:"deliveryFee,omitempty"`
	AdminApproved      *bool              `json:"adminApproved,omitempty" bson:"adminApproved,omitempty"`
	IsSuspended        bool               `json:"isSuspended" bson:"isSuspended"`
	CreatedBy          uint               `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ActiveOfferFilter matches offers that are switched on, inside their validity window
// and neither rejected nor suspended by an administrator.
func ActiveOfferFilter(now time.Time) bson.M {
	f := ApprovedFilter()
	f["validity.isActive"] = true
	f["validity.startDate"] = bson.M{"$lte": now}
	f["validity.endDate"] = bson.M{"$gte": now}
	return f
}

// ApprovedFilter matches documents not rejected and not suspended by an administrator
func ApprovedFilter() bson.M {
	return bson.M{
		"adminApproved": bson.M{"$ne": false},
		"isSuspended":   bson.M{"$ne": true},
	}
}

var OfferIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "validity.isActive", Value: 1}, {Key: "validity.startDate", Value: 1}, {Key: "validity.endDate", Value: 1}},
		Options: options.Index().SetName("idx_validity"),
	},
	{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "metadata.priority", Value: -1}},
		Options: options.Index().SetName("idx_category_priority"),
	},
	{
		Keys:    bson.D{{Key: "engagement.viewsCount", Value: -1}},
		Options: options.Index().SetName("idx_views"),
	},
	{
		Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
		Options: options.Index().SetName("geo_location").SetSparse(true),
	},
}

type BankOffer struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BankName           string             `json:"bankName" bson:"bankName"`
	CardType           string             `json:"cardType" bson:"cardType"`
	Title              string             `json:"title" bson:"title"`
	DiscountPercentage float64            `json:"discountPercentage" bson:"discountPercentage"`
	MaxDiscount        float64            `json:"maxDiscount" bson:"maxDiscount"`
	MinOrderValue      float64            `json:"minOrderValue" bson:"minOrderValue"`
	ValidFrom          time.Time          `json:"validFrom" bson:"validFrom"`
	ValidUntil         time.Time          `json:"validUntil" bson:"validUntil"`
	IsActive           bool               `json:"isActive" bson:"isActive"`
	Priority           int                `json:"priority" bson:"priority"`
}

type CoinDrop struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	StoreID         primitive.ObjectID  `json:"storeId" bson:"storeId"`
	ProductID       *primitive.ObjectID `json:"productId,omitempty" bson:"productId,omitempty"`
	Title           string              `json:"title" bson:"title" validate:"required,max=120"`
	Multiplier      float64             `json:"multiplier" bson:"multiplier" validate:"gte=1,lte=10"`
	NormalCashback  float64             `json:"normalCashback" bson:"normalCashback" validate:"gte=0,lte=100"`
	BoostedCashback float64             `json:"boostedCashback" bson:"boostedCashback" validate:"gte=0,lte=100"`
	StartTime       time.Time           `json:"startTime" bson:"startTime" validate:"required"`
	EndTime         time.Time           `json:"endTime" bson:"endTime" validate:"required,gtfield=StartTime"`
	Region          string              `json:"region,omitempty" bson:"region,omitempty"`
	IsActive        bool                `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Phase classifies a coin drop relative to now
func (d *CoinDrop) Phase(now time.Time) string {
	switch {
	case now.Before(d.StartTime):
		return "scheduled"
	case now.After(d.EndTime):
		return "expired"
	case !d.IsActive:
		return "inactive"
	}
	return "active"
}

type DoubleCashbackCampaign struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Subtitle   string             `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Multiplier float64            `json:"multiplier" bson:"multiplier"`
	StartTime  time.Time          `json:"startTime" bson:"startTime"`
	EndTime    time.Time          `json:"endTime" bson:"endTime"`
	Region     string             `json:"region,omitempty" bson:"region,omitempty"`
	Terms      []string           `json:"terms,omitempty" bson:"terms,omitempty"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
}

type ExclusiveZone struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Slug                 string             `json:"slug" bson:"slug"`
	Description          string             `json:"description,omitempty" bson:"description,omitempty"`
	EligibilityType      string             `json:"eligibilityType" bson:"eligibilityType"`
	VerificationRequired bool               `json:"verificationRequired" bson:"verificationRequired"`
	OffersCount          int                `json:"offersCount" bson:"offersCount"`
	Priority             int                `json:"priority" bson:"priority"`
	IsActive             bool               `json:"isActive" bson:"isActive"`
}

type SpecialProfile struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Slug                 string             `json:"slug" bson:"slug"`
	Discount             float64            `json:"discount" bson:"discount"`
	VerificationRequired bool               `json:"verificationRequired" bson:"verificationRequired"`
	Priority             int                `json:"priority" bson:"priority"`
	IsActive             bool               `json:"isActive" bson:"isActive"`
}

type HotspotArea struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	AreaName    string             `json:"areaName" bson:"areaName"`
	Location    *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	OffersCount int                `json:"offersCount" bson:"offersCount"`
	Priority    int                `json:"priority" bson:"priority"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
}

type UploadBillStore struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StoreID         primitive.ObjectID `json:"storeId" bson:"storeId"`
	Name            string             `json:"name" bson:"name"`
	Logo            string             `json:"logo,omitempty" bson:"logo,omitempty"`
	CoinsPerRupee   float64            `json:"coinsPerRupee" bson:"coinsPerRupee"`
	MaxCoinsPerBill int                `json:"maxCoinsPerBill" bson:"maxCoinsPerBill"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
}

type LoyaltyMilestone struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	ProgressType string             `json:"progressType" bson:"progressType"`
	TargetValue  float64            `json:"targetValue" bson:"targetValue"`
	Reward       string             `json:"reward" bson:"reward"`
	Order        int                `json:"order" bson:"order"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
}

type FriendRedemption struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FriendID   string             `json:"friendId" bson:"friendId"`
	FriendName string             `json:"friendName" bson:"friendName"`
	OfferID    primitive.ObjectID `json:"offerId" bson:"offerId"`
	OfferTitle string             `json:"offerTitle" bson:"offerTitle"`
	Savings    float64            `json:"savings" bson:"savings"`
	RedeemedAt time.Time          `json:"redeemedAt" bson:"redeemedAt"`
	IsVisible  bool               `json:"isVisible" bson:"isVisible"`
}

// OffersSectionConfig lets administrators hide, reorder and cap offers page sections
type OffersSectionConfig struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SectionKey string             `json:"sectionKey" bson:"sectionKey"`
	IsEnabled  bool               `json:"isEnabled" bson:"isEnabled"`
	SortOrder  int                `json:"sortOrder" bson:"sortOrder"`
	MaxItems   int                `json:"maxItems" bson:"maxItems"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

var OffersSectionConfigIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "sectionKey", Value: 1}},
		Options: options.Index().SetName("uniq_sectionKey").SetUnique(true),
	},
}

var CoinDropIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "storeId", Value: 1}, {Key: "startTime", Value: -1}},
		Options: options.Index().SetName("idx_storeId_startTime"),
	},
	{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "startTime", Value: 1}, {Key: "endTime", Value: 1}},
		Options: options.Index().SetName("idx_active_window"),
	},
}

var windowedIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "priority", Value: -1}},
		Options: options.Index().SetName("idx_isActive_priority"),
	},
}
