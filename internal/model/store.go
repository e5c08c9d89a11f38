package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoreLocation struct {
	Address        string    `json:"address" bson:"address"`
	City           string    `json:"city" bson:"city"`
	State          string    `json:"state,omitempty" bson:"state,omitempty"`
	Pincode        string    `json:"pincode,omitempty" bson:"pincode,omitempty"`
	Coordinates    *GeoPoint `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	DeliveryRadius float64   `json:"deliveryRadius,omitempty" bson:"deliveryRadius,omitempty"`
	Landmark       string    `json:"landmark,omitempty" bson:"landmark,omitempty"`
}

type StoreContact struct {
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Website  string `json:"website,omitempty" bson:"website,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
}

type StoreOffers struct {
	Cashback       float64 `json:"cashback,omitempty" bson:"cashback,omitempty"`
	MinOrderAmount float64 `json:"minOrderAmount,omitempty" bson:"minOrderAmount,omitempty"`
	MaxCashback    float64 `json:"maxCashback,omitempty" bson:"maxCashback,omitempty"`
	IsPartner      bool    `json:"isPartner" bson:"isPartner"`
	PartnerLevel   string  `json:"partnerLevel,omitempty" bson:"partnerLevel,omitempty"`
}

type DayHours struct {
	Open   string `json:"open" bson:"open"`
	Close  string `json:"close" bson:"close"`
	Closed bool   `json:"closed,omitempty" bson:"closed,omitempty"`
}

type OperationalInfo struct {
	Hours             map[string]DayHours `json:"hours,omitempty" bson:"hours,omitempty"`
	DeliveryTime      string              `json:"deliveryTime,omitempty" bson:"deliveryTime,omitempty"`
	MinimumOrder      float64             `json:"minimumOrder,omitempty" bson:"minimumOrder,omitempty"`
	DeliveryFee       float64             `json:"deliveryFee,omitempty" bson:"deliveryFee,omitempty"`
	FreeDeliveryAbove float64             `json:"freeDeliveryAbove,omitempty" bson:"freeDeliveryAbove,omitempty"`
	PaymentMethods    []string            `json:"paymentMethods,omitempty" bson:"paymentMethods,omitempty"`
}

type DeliveryCategories struct {
	FastDelivery    bool `json:"fastDelivery" bson:"fastDelivery"`
	BudgetFriendly  bool `json:"budgetFriendly" bson:"budgetFriendly"`
	NinetyNineStore bool `json:"ninetyNineStore" bson:"ninetyNineStore"`
	Premium         bool `json:"premium" bson:"premium"`
	Organic         bool `json:"organic" bson:"organic"`
	Alliance        bool `json:"alliance" bson:"alliance"`
	LowestPrice     bool `json:"lowestPrice" bson:"lowestPrice"`
	Mall            bool `json:"mall" bson:"mall"`
	CashStore       bool `json:"cashStore" bson:"cashStore"`
}

type RewardRules struct {
	BaseCashbackPercent float64 `json:"baseCashbackPercent" bson:"baseCashbackPercent"`
	CoinsPerRupee       float64 `json:"coinsPerRupee,omitempty" bson:"coinsPerRupee,omitempty"`
}

type StoreAnalytics struct {
	TotalOrders    int     `json:"totalOrders" bson:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue" bson:"totalRevenue"`
	AvgOrderValue  float64 `json:"avgOrderValue" bson:"avgOrderValue"`
	FollowersCount int     `json:"followersCount" bson:"followersCount"`
}

// Store is a merchant-owned storefront
type Store struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name               string             `json:"name" bson:"name"`
	Slug               string             `json:"slug" bson:"slug"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Logo               string             `json:"logo,omitempty" bson:"logo,omitempty"`
	Banner             []string           `json:"banner,omitempty" bson:"banner,omitempty"`
	Category           primitive.ObjectID `json:"category,omitempty" bson:"category,omitempty"`
	Location           StoreLocation      `json:"location" bson:"location"`
	Contact            StoreContact       `json:"contact" bson:"contact"`
	Ratings            RatingSummary      `json:"ratings" bson:"ratings"`
	Offers             StoreOffers        `json:"offers" bson:"offers"`
	OperationalInfo    OperationalInfo    `json:"operationalInfo" bson:"operationalInfo"`
	DeliveryCategories DeliveryCategories `json:"deliveryCategories" bson:"deliveryCategories"`
	RewardRules        RewardRules        `json:"rewardRules" bson:"rewardRules"`
	Analytics          StoreAnalytics     `json:"analytics" bson:"analytics"`
	Tags               []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Region             string             `json:"region,omitempty" bson:"region,omitempty"`
	MerchantID         uint               `json:"merchantId" bson:"merchantId"`
	IsActive           bool               `json:"isActive" bson:"isActive"`
	IsFeatured         bool               `json:"isFeatured" bson:"isFeatured"`
	IsVerified         bool               `json:"isVerified" bson:"isVerified"`
	AdminApproved      *bool              `json:"adminApproved,omitempty" bson:"adminApproved,omitempty"`
	IsSuspended        bool               `json:"isSuspended" bson:"isSuspended"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CashbackPercent prefers the explicit store cashback over the base reward rule
func (s *Store) CashbackPercent() float64 {
	if s.Offers.Cashback > 0 {
		return s.Offers.Cashback
	}
	return s.RewardRules.BaseCashbackPercent
}

var StoreIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("uniq_slug").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "merchantId", Value: 1}, {Key: "isActive", Value: 1}},
		Options: options.Index().SetName("idx_merchantId_isActive"),
	},
	{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "isFeatured", Value: 1}},
		Options: options.Index().SetName("idx_isActive_isFeatured"),
	},
	{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "analytics.totalOrders", Value: -1}},
		Options: options.Index().SetName("idx_isActive_totalOrders"),
	},
	{
		Keys:    bson.D{{Key: "location.coordinates", Value: "2dsphere"}},
		Options: options.Index().SetName("geo_location"),
	},
}
