package model

import "go.mongodb.org/mongo-driver/mongo"

// CollectionIndexes maps each collection to the indexes it needs
var CollectionIndexes = map[string][]mongo.IndexModel{
	StoresCollection:              StoreIndexes,
	CategoriesCollection:          CategoryIndexes,
	ProductsCollection:            ProductIndexes,
	StoreGalleryCollection:        GalleryIndexes,
	ProductGalleryCollection:      ProductGalleryIndexes,
	VideosCollection:              VideoIndexes,
	OrdersCollection:              OrderIndexes,
	OffersCollection:              OfferIndexes,
	CoinDropsCollection:           CoinDropIndexes,
	OffersSectionConfigCollection: OffersSectionConfigIndexes,
	BankOffersCollection:          windowedIndexes,
	ExclusiveZonesCollection:      windowedIndexes,
	SpecialProfilesCollection:     windowedIndexes,
	HotspotAreasCollection:        windowedIndexes,
}
