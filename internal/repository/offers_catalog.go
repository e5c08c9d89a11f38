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

const nearbyRadiusMeters = 10000

// OffersCatalog serves the read-only queries behind the offers and cashback pages
type OffersCatalog struct {
	db  *mongo.Database
	now func() time.Time
}

func NewOffersCatalog(db *mongo.Database) *OffersCatalog {
	return &OffersCatalog{db: db, now: time.Now}
}

func limited(limit int) *options.FindOptions {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func (c *OffersCatalog) offers(ctx context.Context, extra bson.M, sort bson.D, limit int) ([]model.Offer, error) {
	defer prometheus.TrackDBOperation("offers_catalog")(time.Now())

	filter := model.ActiveOfferFilter(c.now())
	for k, v := range extra {
		filter[k] = v
	}
	opts := limited(limit)
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return findAll[model.Offer](ctx, c.db.Collection(model.OffersCollection), filter, opts)
}

func (c *OffersCatalog) DiscountBuckets(ctx context.Context) (*domain.DiscountBuckets, error) {
	defer prometheus.TrackDBOperation("offers_discount_buckets")(time.Now())

	count := func(match bson.M) bson.A {
		return bson.A{bson.M{"$match": match}, bson.M{"$count": "count"}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: model.ActiveOfferFilter(c.now())}},
		{{Key: "$facet", Value: bson.M{
			"off25":        count(bson.M{"cashbackPercentage": bson.M{"$gte": 25, "$lt": 50}}),
			"off50":        count(bson.M{"cashbackPercentage": bson.M{"$gte": 50, "$lt": 80}}),
			"off80":        count(bson.M{"cashbackPercentage": bson.M{"$gte": 80}}),
			"freeDelivery": count(bson.M{"isFreeDelivery": true}),
		}}},
	}

	cur, err := c.db.Collection(model.OffersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	type bucket struct {
		Count int64 `bson:"count"`
	}
	var facets []struct {
		Off25        []bucket `bson:"off25"`
		Off50        []bucket `bson:"off50"`
		Off80        []bucket `bson:"off80"`
		FreeDelivery []bucket `bson:"freeDelivery"`
	}
	if err := cur.All(ctx, &facets); err != nil {
		return nil, err
	}

	first := func(b []bucket) int64 {
		if len(b) == 0 {
			return 0
		}
		return b[0].Count
	}
	result := &domain.DiscountBuckets{}
	if len(facets) > 0 {
		f := facets[0]
		result.Off25 = first(f.Off25)
		result.Off50 = first(f.Off50)
		result.Off80 = first(f.Off80)
		result.FreeDelivery = first(f.FreeDelivery)
	}
	return result, nil
}

func (c *OffersCatalog) TrendingOffers(ctx context.Context, limit int) ([]model.Offer, error) {
	return c.offers(ctx, nil, bson.D{{Key: "engagement.viewsCount", Value: -1}}, limit)
}

func (c *OffersCatalog) NearbyOffers(ctx context.Context, lat, lng float64, limit int) ([]model.Offer, error) {
	near := bson.M{"location": bson.M{"$nearSphere": bson.M{
		"$geometry":    model.NewGeoPoint(lat, lng),
		"$maxDistance": nearbyRadiusMeters,
	}}}
	// $nearSphere sorts by distance
	return c.offers(ctx, near, nil, limit)
}

func (c *OffersCatalog) SaleOffers(ctx context.Context, limit int) ([]model.Offer, error) {
	return c.offers(ctx, bson.M{"saleTag": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
		bson.D{{Key: "metadata.priority", Value: -1}}, limit)
}

func (c *OffersCatalog) BogoOffers(ctx context.Context, limit int) ([]model.Offer, error) {
	return c.offers(ctx, bson.M{"bogoType": bson.M{"$exists": true, "$nin": bson.A{nil, ""}}},
		bson.D{{Key: "metadata.priority", Value: -1}}, limit)
}

func (c *OffersCatalog) FreeDeliveryOffers(ctx context.Context, limit int) ([]model.Offer, error) {
	return c.offers(ctx, bson.M{"isFreeDelivery": true}, bson.D{{Key: "metadata.priority", Value: -1}}, limit)
}

func (c *OffersCatalog) FlashSaleOffers(ctx context.Context, limit int) ([]model.Offer, error) {
	return c.offers(ctx, bson.M{
		"metadata.flashSale.isActive": true,
		"metadata.flashSale.endTime":  bson.M{"$gte": c.now()},
	}, bson.D{{Key: "metadata.flashSale.endTime", Value: 1}}, limit)
}

func (c *OffersCatalog) NewOffers(ctx context.Context, since time.Time, limit int) ([]model.Offer, error) {
	return c.offers(ctx, bson.M{"createdAt": bson.M{"$gte": since}}, bson.D{{Key: "createdAt", Value: -1}}, limit)
}

func (c *OffersCatalog) FriendRedemptions(ctx context.Context, limit int) ([]model.FriendRedemption, error) {
	return findAll[model.FriendRedemption](ctx, c.db.Collection(model.FriendRedemptionsCollection),
		bson.M{"isVisible": true}, limited(limit).SetSort(bson.D{{Key: "redeemedAt", Value: -1}}))
}

func byPriority(limit int) *options.FindOptions {
	return limited(limit).SetSort(bson.D{{Key: "priority", Value: -1}})
}

func (c *OffersCatalog) Hotspots(ctx context.Context, limit int) ([]model.HotspotArea, error) {
	return findAll[model.HotspotArea](ctx, c.db.Collection(model.HotspotAreasCollection),
		bson.M{"isActive": true}, byPriority(limit))
}

// window matches active documents whose start/end times contain now
func (c *OffersCatalog) window(region string) bson.M {
	now := c.now()
	filter := bson.M{
		"isActive":  true,
		"startTime": bson.M{"$lte": now},
		"endTime":   bson.M{"$gte": now},
	}
	if region != "" {
		filter["$or"] = bson.A{
			bson.M{"region": region},
			bson.M{"region": "all"},
			bson.M{"region": bson.M{"$exists": false}},
		}
	}
	return filter
}

func (c *OffersCatalog) DoubleCashback(ctx context.Context, region string, limit int) ([]model.DoubleCashbackCampaign, error) {
	return findAll[model.DoubleCashbackCampaign](ctx, c.db.Collection(model.DoubleCashbackCollection),
		c.window(region), limited(limit).SetSort(bson.D{{Key: "startTime", Value: 1}}))
}

func (c *OffersCatalog) ActiveCoinDrops(ctx context.Context, region string, limit int) ([]model.CoinDrop, error) {
	return findAll[model.CoinDrop](ctx, c.db.Collection(model.CoinDropsCollection),
		c.window(region), limited(limit).SetSort(bson.D{{Key: "multiplier", Value: -1}}))
}

func storeFilter(region string) bson.M {
	filter := bson.M{"isActive": true, "isSuspended": bson.M{"$ne": true}}
	if region != "" {
		filter["region"] = region
	}
	return filter
}

func (c *OffersCatalog) SuperCashbackStores(ctx context.Context, region string, limit int) ([]model.Store, error) {
	defer prometheus.TrackDBOperation("offers_super_cashback")(time.Now())

	filter := storeFilter(region)
	filter["$or"] = bson.A{
		bson.M{"offers.cashback": bson.M{"$gte": 10}},
		bson.M{"rewardRules.baseCashbackPercent": bson.M{"$gte": 10}},
	}
	return findAll[model.Store](ctx, c.db.Collection(model.StoresCollection), filter,
		limited(limit).SetSort(bson.D{
			{Key: "offers.cashback", Value: -1},
			{Key: "rewardRules.baseCashbackPercent", Value: -1},
		}))
}

func (c *OffersCatalog) UploadBillStores(ctx context.Context, region string, limit int) ([]model.UploadBillStore, error) {
	filter := bson.M{"isActive": true}
	if region != "" {
		stores, err := findAll[model.Store](ctx, c.db.Collection(model.StoresCollection), storeFilter(region),
			options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, err
		}
		ids := make([]primitive.ObjectID, 0, len(stores))
		for _, s := range stores {
			ids = append(ids, s.ID)
		}
		filter["storeId"] = bson.M{"$in": ids}
	}
	return findAll[model.UploadBillStore](ctx, c.db.Collection(model.UploadBillStoresCollection), filter,
		limited(limit).SetSort(bson.D{{Key: "coinsPerRupee", Value: -1}}))
}

func (c *OffersCatalog) BankOffers(ctx context.Context, limit int) ([]model.BankOffer, error) {
	now := c.now()
	return findAll[model.BankOffer](ctx, c.db.Collection(model.BankOffersCollection), bson.M{
		"isActive":   true,
		"validFrom":  bson.M{"$lte": now},
		"validUntil": bson.M{"$gte": now},
	}, byPriority(limit))
}

func (c *OffersCatalog) ExclusiveZones(ctx context.Context, limit int) ([]model.ExclusiveZone, error) {
	return findAll[model.ExclusiveZone](ctx, c.db.Collection(model.ExclusiveZonesCollection),
		bson.M{"isActive": true}, byPriority(limit))
}

func (c *OffersCatalog) SpecialProfiles(ctx context.Context, limit int) ([]model.SpecialProfile, error) {
	return findAll[model.SpecialProfile](ctx, c.db.Collection(model.SpecialProfilesCollection),
		bson.M{"isActive": true}, byPriority(limit))
}

func (c *OffersCatalog) LoyaltyMilestones(ctx context.Context, limit int) ([]model.LoyaltyMilestone, error) {
	return findAll[model.LoyaltyMilestone](ctx, c.db.Collection(model.LoyaltyMilestonesCollection),
		bson.M{"isActive": true}, limited(limit).SetSort(bson.D{{Key: "order", Value: 1}}))
}
