package seed

import (
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sampleSet struct {
	collection string
	docs       []interface{}
}

var (
	bangalore    = model.NewGeoPoint(12.9716, 77.5946)
	koramangala  = model.NewGeoPoint(12.9352, 77.6245)
	indiranagar  = model.NewGeoPoint(12.9784, 77.6408)
	hsrLayout    = model.NewGeoPoint(12.9121, 77.6446)
	sampleImages = "https://images.rez.app/samples/"
)

func sampleSets(now time.Time, stores []primitive.ObjectID) []sampleSet {
	day := 24 * time.Hour
	offers := sampleOffers(now)

	redemptions := []model.FriendRedemption{
		{FriendID: "f-1001", FriendName: "Ananya", OfferID: offers[0].ID, OfferTitle: offers[0].Title, Savings: 1001, RedeemedAt: now.Add(-2 * time.Hour), IsVisible: true},
		{FriendID: "f-1002", FriendName: "Rohit", OfferID: offers[2].ID, OfferTitle: offers[2].Title, Savings: 180, RedeemedAt: now.Add(-5 * time.Hour), IsVisible: true},
		{FriendID: "f-1003", FriendName: "Meera", OfferID: offers[4].ID, OfferTitle: offers[4].Title, Savings: 2500, RedeemedAt: now.Add(-day), IsVisible: true},
	}

	var drops []model.CoinDrop
	var billStores []model.UploadBillStore
	for i, storeID := range stores {
		drops = append(drops, model.CoinDrop{
			StoreID:         storeID,
			Title:           fmt.Sprintf("%dX Coins Happy Hour", i+2),
			Multiplier:      float64(i + 2),
			NormalCashback:  5,
			BoostedCashback: float64(5 * (i + 2)),
			StartTime:       now.Add(-time.Hour),
			EndTime:         now.Add(3 * day),
			Region:          "bangalore",
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		billStores = append(billStores, model.UploadBillStore{
			StoreID:         storeID,
			Name:            fmt.Sprintf("Partner Store %d", i+1),
			CoinsPerRupee:   0.5 + float64(i)*0.25,
			MaxCoinsPerBill: 500,
			IsActive:        true,
		})
	}

	return []sampleSet{
		{model.OffersCollection, toDocs(offers)},
		{model.BankOffersCollection, toDocs([]model.BankOffer{
			{BankName: "HDFC Bank", CardType: "credit", Title: "10% off with HDFC credit cards", DiscountPercentage: 10, MaxDiscount: 500, MinOrderValue: 1500, ValidFrom: now.Add(-day), ValidUntil: now.Add(60 * day), IsActive: true, Priority: 10},
			{BankName: "ICICI Bank", CardType: "debit", Title: "5% instant discount on ICICI debit cards", DiscountPercentage: 5, MaxDiscount: 250, MinOrderValue: 999, ValidFrom: now.Add(-day), ValidUntil: now.Add(30 * day), IsActive: true, Priority: 5},
		})},
		{model.DoubleCashbackCollection, toDocs([]model.DoubleCashbackCampaign{
			{Title: "Double Cashback Weekend", Subtitle: "2X cashback at every partner store", Multiplier: 2, StartTime: now.Add(-day), EndTime: now.Add(2 * day), Region: "all", Terms: []string{"Maximum cashback 500 coins"}, IsActive: true},
			{Title: "Bangalore Triple Coins", Subtitle: "3X coins on dining", Multiplier: 3, StartTime: now.Add(-time.Hour), EndTime: now.Add(day), Region: "bangalore", IsActive: true},
		})},
		{model.ExclusiveZonesCollection, toDocs([]model.ExclusiveZone{
			{Name: "Student Zone", Slug: "student", Description: "Extra savings for verified students", EligibilityType: "student", VerificationRequired: true, OffersCount: 24, Priority: 10, IsActive: true},
			{Name: "Corporate Zone", Slug: "corporate", Description: "Deals for working professionals", EligibilityType: "corporate_email", VerificationRequired: true, OffersCount: 18, Priority: 8, IsActive: true},
			{Name: "Women Exclusive", Slug: "women", Description: "Curated offers for women", EligibilityType: "women", OffersCount: 15, Priority: 6, IsActive: true},
		})},
		{model.SpecialProfilesCollection, toDocs([]model.SpecialProfile{
			{Name: "Defence Personnel", Slug: "defence", Discount: 15, VerificationRequired: true, Priority: 10, IsActive: true},
			{Name: "Healthcare Heroes", Slug: "healthcare", Discount: 12, VerificationRequired: true, Priority: 8, IsActive: true},
			{Name: "Senior Citizens", Slug: "senior", Discount: 10, VerificationRequired: true, Priority: 6, IsActive: true},
		})},
		{model.HotspotAreasCollection, toDocs([]model.HotspotArea{
			{Name: "Koramangala Food Street", AreaName: "Koramangala", Location: koramangala, OffersCount: 42, Priority: 10, IsActive: true},
			{Name: "Indiranagar 100ft Road", AreaName: "Indiranagar", Location: indiranagar, OffersCount: 35, Priority: 8, IsActive: true},
			{Name: "HSR Layout Sector 7", AreaName: "HSR Layout", Location: hsrLayout, OffersCount: 21, Priority: 6, IsActive: true},
		})},
		{model.LoyaltyMilestonesCollection, toDocs([]model.LoyaltyMilestone{
			{Title: "First Order", ProgressType: "orders", TargetValue: 1, Reward: "50 bonus coins", Order: 1, IsActive: true},
			{Title: "Regular Shopper", ProgressType: "orders", TargetValue: 10, Reward: "200 bonus coins", Order: 2, IsActive: true},
			{Title: "Big Spender", ProgressType: "spend", TargetValue: 10000, Reward: "Gold tier for 3 months", Order: 3, IsActive: true},
		})},
		{model.FriendRedemptionsCollection, toDocs(redemptions)},
		{model.CoinDropsCollection, toDocs(drops)},
		{model.UploadBillStoresCollection, toDocs(billStores)},
	}
}

func sampleOffers(now time.Time) []model.Offer {
	day := 24 * time.Hour
	validity := model.OfferValidity{StartDate: now.Add(-2 * day), EndDate: now.Add(30 * day), IsActive: true}
	flashEnd := now.Add(6 * time.Hour)

	offers := []model.Offer{
		{
			Title: "Mega Weekend Sale", Subtitle: "Up to 50% off across fashion", Category: "mega", Type: "discount",
			CashbackPercentage: 10, OriginalPrice: 2000, DiscountedPrice: 999, SaleTag: "MEGA SALE",
			Engagement: model.OfferEngagement{ViewsCount: 540, LikesCount: 61},
			Metadata:   model.OfferMetadata{Priority: 10, IsTrending: true, Featured: true, Tags: []string{"fashion", "weekend"}},
		},
		{
			Title: "Student Special: 30% Off", Subtitle: "Show your student ID", Category: "student", Type: "discount",
			CashbackPercentage: 5, OriginalPrice: 500, DiscountedPrice: 350,
			Engagement: model.OfferEngagement{ViewsCount: 210},
			Metadata:   model.OfferMetadata{Priority: 8, Tags: []string{"student"}},
		},
		{
			Title: "Buy 1 Get 1 Coffee", Subtitle: "On all handcrafted beverages", Category: "food", Type: "combo",
			CashbackPercentage: 8, OriginalPrice: 360, DiscountedPrice: 180, BogoType: "buy1get1",
			IsFreeDelivery: true, Location: bangalore,
			Engagement: model.OfferEngagement{ViewsCount: 330},
			Metadata:   model.OfferMetadata{Priority: 7, Tags: []string{"coffee", "bogo"}},
		},
		{
			Title: "Free Delivery on Groceries", Subtitle: "No minimum order", Category: "general", Type: "voucher",
			CashbackPercentage: 3, IsFreeDelivery: true, Location: bangalore,
			Engagement: model.OfferEngagement{ViewsCount: 150},
			Metadata:   model.OfferMetadata{Priority: 5},
		},
		{
			Title: "Flash Deal: Wireless Headphones", Subtitle: "Only for the next few hours", Category: "electronics", Type: "discount",
			CashbackPercentage: 15, OriginalPrice: 4999, DiscountedPrice: 2499, SaleTag: "FLASH",
			Engagement: model.OfferEngagement{ViewsCount: 720, SharesCount: 40},
			Metadata: model.OfferMetadata{Priority: 9, IsTrending: true, FlashSale: &model.FlashSale{
				IsActive: true, EndTime: &flashEnd, OriginalPrice: 4999, SalePrice: 2499, MaxQuantity: 100, SoldQuantity: 37,
			}},
		},
		{
			Title: "New Season Arrivals", Subtitle: "20% cashback on the new collection", Category: "new_arrival", Type: "cashback",
			CashbackPercentage: 20, Image: sampleImages + "new-season.jpg",
			Engagement: model.OfferEngagement{ViewsCount: 95},
			Metadata:   model.OfferMetadata{Priority: 6},
		},
		{
			Title: "Trending Sneakers Drop", Subtitle: "Limited pairs", Category: "trending", Type: "cashback",
			CashbackPercentage: 12, OriginalPrice: 6999, DiscountedPrice: 5599,
			Engagement: model.OfferEngagement{ViewsCount: 910, LikesCount: 140},
			Metadata:   model.OfferMetadata{Priority: 8, IsTrending: true, Tags: []string{"sneakers"}},
		},
	}

	for i := range offers {
		offers[i].ID = primitive.NewObjectID()
		offers[i].Validity = validity
		if offers[i].Image == "" {
			offers[i].Image = fmt.Sprintf("%soffer-%d.jpg", sampleImages, i+1)
		}
		offers[i].CreatedAt = now.Add(-time.Duration(i) * day)
		offers[i].UpdatedAt = now
	}
	return offers
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}
