package model

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names
const (
	StoresCollection              = "stores"
	CategoriesCollection          = "categories"
	ProductsCollection            = "products"
	StoreGalleryCollection        = "storegalleries"
	ProductGalleryCollection      = "productgalleries"
	VideosCollection              = "videos"
	OrdersCollection              = "orders"
	OffersCollection              = "offers"
	BankOffersCollection          = "bankoffers"
	CoinDropsCollection           = "coindrops"
	DoubleCashbackCollection      = "doublecashbackcampaigns"
	ExclusiveZonesCollection      = "exclusivezones"
	SpecialProfilesCollection     = "specialprofiles"
	HotspotAreasCollection        = "hotspotareas"
	UploadBillStoresCollection    = "uploadbillstores"
	LoyaltyMilestonesCollection   = "loyaltymilestones"
	FriendRedemptionsCollection   = "friendredemptions"
	OffersSectionConfigCollection = "offerssectionconfigs"
	EventsCollection              = "events"
	ArticlesCollection            = "articles"
)

// GeoPoint is a GeoJSON point stored as [longitude, latitude]
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a point from latitude and longitude
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// RatingSummary is the cached ratings aggregate shared by stores and products
type RatingSummary struct {
	Average      float64        `json:"average" bson:"average"`
	Count        int            `json:"count" bson:"count"`
	Distribution map[string]int `json:"distribution,omitempty" bson:"distribution,omitempty"`
}

// NotDeleted matches documents without a soft-delete marker
func NotDeleted() bson.M {
	return bson.M{"deletedAt": bson.M{"$exists": false}}
}
