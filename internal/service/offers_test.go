package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/cache"
	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOffersCatalog struct {
	mu      sync.Mutex
	offers  []model.Offer
	stores  []model.Store
	fail    map[string]error
	limits  map[string]int
	regions map[string]string
}

func newFakeOffersCatalog() *fakeOffersCatalog {
	return &fakeOffersCatalog{fail: map[string]error{}, limits: map[string]int{}, regions: map[string]string{}}
}

func (f *fakeOffersCatalog) record(section, region string, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits[section] = limit
	f.regions[section] = region
	return f.fail[section]
}

func (f *fakeOffersCatalog) list(section string, limit int) ([]model.Offer, error) {
	if err := f.record(section, "", limit); err != nil {
		return nil, err
	}
	if limit < len(f.offers) {
		return f.offers[:limit], nil
	}
	return f.offers, nil
}

func (f *fakeOffersCatalog) DiscountBuckets(_ context.Context) (*domain.DiscountBuckets, error) {
	if err := f.record("discountBuckets", "", 0); err != nil {
		return nil, err
	}
	return &domain.DiscountBuckets{Off25: 4, Off50: 2, Off80: 1, FreeDelivery: 3}, nil
}

func (f *fakeOffersCatalog) TrendingOffers(_ context.Context, limit int) ([]model.Offer, error) {
	return f.list("trendingOffers", limit)
}

func (f *fakeOffersCatalog) NearbyOffers(_ context.Context, _, _ float64, limit int) ([]model.Offer, error) {
	return f.list("nearbyOffers", limit)
}

func (f *fakeOffersCatalog) SaleOffers(_ context.Context, limit int) ([]model.Offer, error) {
	return f.list("saleOffers", limit)
}

func (f *fakeOffersCatalog) BogoOffers(_ context.Context, limit int) ([]model.Offer, error) {
	return f.list("bogoOffers", limit)
}

func (f *fakeOffersCatalog) FreeDeliveryOffers(_ context.Context, limit int) ([]model.Offer, error) {
	return f.list("freeDeliveryOffers", limit)
}

func (f *fakeOffersCatalog) FlashSaleOffers(_ context.Context, limit int) ([]model.Offer, error) {
	return f.list("todaysOffers", limit)
}

func (f *fakeOffersCatalog) NewOffers(_ context.Context, _ time.Time, limit int) ([]model.Offer, error) {
	return f.list("newTodayOffers", limit)
}

func (f *fakeOffersCatalog) FriendRedemptions(_ context.Context, limit int) ([]model.FriendRedemption, error) {
	return []model.FriendRedemption{}, f.record("friendsRedeemed", "", limit)
}

func (f *fakeOffersCatalog) Hotspots(_ context.Context, limit int) ([]model.HotspotArea, error) {
	return []model.HotspotArea{}, f.record("hotspots", "", limit)
}

func (f *fakeOffersCatalog) DoubleCashback(_ context.Context, region string, limit int) ([]model.DoubleCashbackCampaign, error) {
	return []model.DoubleCashbackCampaign{}, f.record("doubleCashback", region, limit)
}

func (f *fakeOffersCatalog) ActiveCoinDrops(_ context.Context, region string, limit int) ([]model.CoinDrop, error) {
	return []model.CoinDrop{}, f.record("coinDrops", region, limit)
}

func (f *fakeOffersCatalog) SuperCashbackStores(_ context.Context, region string, limit int) ([]model.Store, error) {
	if err := f.record("superCashbackStores", region, limit); err != nil {
		return nil, err
	}
	return f.stores, nil
}

func (f *fakeOffersCatalog) UploadBillStores(_ context.Context, region string, limit int) ([]model.UploadBillStore, error) {
	return []model.UploadBillStore{}, f.record("uploadBillStores", region, limit)
}

func (f *fakeOffersCatalog) BankOffers(_ context.Context, limit int) ([]model.BankOffer, error) {
	return []model.BankOffer{}, f.record("bankOffers", "", limit)
}

func (f *fakeOffersCatalog) ExclusiveZones(_ context.Context, limit int) ([]model.ExclusiveZone, error) {
	return []model.ExclusiveZone{}, f.record("exclusiveZones", "", limit)
}

func (f *fakeOffersCatalog) SpecialProfiles(_ context.Context, limit int) ([]model.SpecialProfile, error) {
	return []model.SpecialProfile{}, f.record("specialProfiles", "", limit)
}

func (f *fakeOffersCatalog) LoyaltyMilestones(_ context.Context, limit int) ([]model.LoyaltyMilestone, error) {
	if err := f.record("loyaltyMilestones", "", limit); err != nil {
		return nil, err
	}
	return []model.LoyaltyMilestone{{Title: "First purchase"}}, nil
}

type fakeSectionConfigs struct {
	mu    sync.Mutex
	items map[string]model.OffersSectionConfig
	err   error
}

func newFakeSectionConfigs(configs ...model.OffersSectionConfig) *fakeSectionConfigs {
	f := &fakeSectionConfigs{items: map[string]model.OffersSectionConfig{}}
	for _, c := range configs {
		f.items[c.SectionKey] = c
	}
	return f
}

func (f *fakeSectionConfigs) List(_ context.Context) ([]model.OffersSectionConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.OffersSectionConfig, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeSectionConfigs) Upsert(_ context.Context, cfg *model.OffersSectionConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[cfg.SectionKey] = *cfg
	return nil
}

func newOffersFixture(configs ...model.OffersSectionConfig) (*OffersPageService, *fakeOffersCatalog, *fakeSectionConfigs, *fakeCache) {
	catalog := newFakeOffersCatalog()
	catalog.offers = []model.Offer{
		{Title: "Sneaker sale", OriginalPrice: 2000, DiscountedPrice: 1500},
		{Title: "Coffee combo", CashbackPercentage: 10},
	}
	sections := newFakeSectionConfigs(configs...)
	pageCache := newFakeCache()
	svc := NewOffersPageService(catalog, sections, pageCache, time.Minute, zap.NewNop())
	svc.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, catalog, sections, pageCache
}

func TestOffersPageTabs(t *testing.T) {
	svc, _, _, _ := newOffersFixture()
	ctx := context.Background()

	cases := []struct {
		tab      string
		sections int
	}{
		{TabOffers, 10},
		{TabCashback, 5},
		{TabExclusive, 3},
		{TabAll, 18},
		{"", 18},
	}
	for _, tc := range cases {
		page, err := svc.Page(ctx, OffersQuery{Tab: tc.tab})
		require.NoError(t, err)
		assert.Len(t, page.Sections, tc.sections, "tab %q", tc.tab)
		assert.Equal(t, tc.sections, page.Metadata.TotalSections)
		assert.NotContains(t, page.Sections, "nearbyOffers")
	}
}

func TestOffersPageNearbyNeedsLocation(t *testing.T) {
	svc, catalog, _, pageCache := newOffersFixture()
	lat, lng := 12.97, 77.59

	page, err := svc.Page(context.Background(), OffersQuery{Tab: TabOffers, Lat: &lat, Lng: &lng, Anonymous: true})
	require.NoError(t, err)

	require.Contains(t, page.Sections, "nearbyOffers")
	nearby := page.Sections["nearbyOffers"].Data.([]NearbyOffer)
	require.Len(t, nearby, 2)
	assert.Equal(t, 5.0, nearby[0].DeliveryFee)
	assert.Equal(t, 4.5, nearby[0].Rating)
	assert.Equal(t, 10, catalog.limits["nearbyOffers"])
	assert.Zero(t, pageCache.gets, "located requests bypass the cache")
}

func TestOffersPageSectionConfig(t *testing.T) {
	svc, catalog, _, _ := newOffersFixture(
		model.OffersSectionConfig{SectionKey: "bogoOffers", IsEnabled: false},
		model.OffersSectionConfig{SectionKey: "trendingOffers", IsEnabled: true, MaxItems: 1, SortOrder: 42},
	)

	page, err := svc.Page(context.Background(), OffersQuery{Tab: TabOffers})
	require.NoError(t, err)

	assert.NotContains(t, page.Sections, "bogoOffers")
	assert.NotContains(t, catalog.limits, "bogoOffers")
	assert.Equal(t, 42, page.Sections["trendingOffers"].Order)
	assert.Len(t, page.Sections["trendingOffers"].Data, 1)
	assert.Equal(t, 0, page.Sections["discountBuckets"].Order)
}

func TestOffersPageConfigReadFailureEnablesDefaults(t *testing.T) {
	svc, _, sections, _ := newOffersFixture(model.OffersSectionConfig{SectionKey: "bogoOffers", IsEnabled: false})
	sections.err = errBoom

	page, err := svc.Page(context.Background(), OffersQuery{Tab: TabOffers})
	require.NoError(t, err)
	assert.Contains(t, page.Sections, "bogoOffers")
}

func TestOffersPageSectionFailureIsEmpty(t *testing.T) {
	svc, catalog, _, _ := newOffersFixture()
	catalog.fail["saleOffers"] = errors.New("timeout")

	page, err := svc.Page(context.Background(), OffersQuery{Tab: TabOffers})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{}, page.Sections["saleOffers"].Data)
	assert.Equal(t, 10, page.Metadata.TotalSections)
	// discountBuckets, trendingOffers, bogo, freeDelivery, todays, aiRecommended, newToday
	assert.Equal(t, 7, page.Metadata.PopulatedSections)
}

func TestOffersPagePartialFailureIsNotCached(t *testing.T) {
	svc, catalog, _, pageCache := newOffersFixture()
	ctx := context.Background()
	catalog.fail["saleOffers"] = errors.New("timeout")

	page, err := svc.Page(ctx, OffersQuery{Tab: TabOffers, Anonymous: true})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, page.Sections["saleOffers"].Data)
	assert.False(t, pageCache.has(cache.OffersPageKey("all", TabOffers)))

	delete(catalog.fail, "saleOffers")
	page, err = svc.Page(ctx, OffersQuery{Tab: TabOffers, Anonymous: true})
	require.NoError(t, err)
	assert.NotEqual(t, []interface{}{}, page.Sections["saleOffers"].Data)
	assert.True(t, pageCache.has(cache.OffersPageKey("all", TabOffers)))
}

func TestOffersPageRegionAndCache(t *testing.T) {
	svc, catalog, _, pageCache := newOffersFixture()
	ctx := context.Background()

	_, err := svc.Page(ctx, OffersQuery{Tab: TabCashback, Region: "all", Anonymous: true})
	require.NoError(t, err)
	assert.Equal(t, "", catalog.regions["coinDrops"])
	assert.True(t, pageCache.has(cache.OffersPageKey("all", TabCashback)))

	_, err = svc.Page(ctx, OffersQuery{Tab: TabCashback, Region: "bangalore", Anonymous: true})
	require.NoError(t, err)
	assert.Equal(t, "bangalore", catalog.regions["doubleCashback"])
	assert.True(t, pageCache.has(cache.OffersPageKey("bangalore", TabCashback)))

	catalog.fail["coinDrops"] = errBoom
	cached, err := svc.Page(ctx, OffersQuery{Tab: TabCashback, Anonymous: true})
	require.NoError(t, err)
	assert.Len(t, cached.Sections, 5)

	_, err = svc.UpdateSectionConfig(ctx, "coinDrops", SectionConfigInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{cache.OffersPagePrefix}, pageCache.deleted)
	assert.False(t, pageCache.has(cache.OffersPageKey("all", TabCashback)))
}

func TestOffersSection(t *testing.T) {
	svc, catalog, _, _ := newOffersFixture()
	ctx := context.Background()

	data, err := svc.Section(ctx, "aiRecommendedOffers", OffersQuery{Limit: 1})
	require.NoError(t, err)
	recommended := data.([]RecommendedOffer)
	require.Len(t, recommended, 1)
	assert.Equal(t, 100, recommended[0].MatchScore)
	assert.Equal(t, 1, catalog.limits["trendingOffers"])

	_, err = svc.Section(ctx, "weather", OffersQuery{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Section(ctx, "nearbyOffers", OffersQuery{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSectionConfigs(t *testing.T) {
	svc, _, sections, _ := newOffersFixture()
	ctx := context.Background()

	configs, err := svc.SectionConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, configs, len(OffersSectionKeys()))
	assert.Equal(t, DefaultSectionConfig("discountBuckets", 0), configs[0])
	assert.Equal(t, 20, configs[12].MaxItems)

	disabled := false
	maxItems := 3
	cfg, err := svc.UpdateSectionConfig(ctx, "bankOffers", SectionConfigInput{IsEnabled: &disabled, MaxItems: &maxItems})
	require.NoError(t, err)
	assert.False(t, cfg.IsEnabled)
	assert.Equal(t, 3, cfg.MaxItems)
	assert.Equal(t, 15, cfg.SortOrder)
	assert.False(t, sections.items["bankOffers"].IsEnabled)

	_, err = svc.UpdateSectionConfig(ctx, "weather", SectionConfigInput{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEnrichSale(t *testing.T) {
	sale := EnrichSale(model.Offer{OriginalPrice: 2000, DiscountedPrice: 1500})
	assert.Equal(t, 25.0, sale.DiscountPercentage)
	assert.Equal(t, 1500.0, sale.SalePrice)
	assert.Equal(t, "25% OFF", sale.Tag)

	tagged := EnrichSale(model.Offer{CashbackPercentage: 10, OriginalPrice: 500, SaleTag: "CLEARANCE"})
	assert.Equal(t, 10.0, tagged.DiscountPercentage)
	assert.Equal(t, 500.0, tagged.SalePrice)
	assert.Equal(t, "CLEARANCE", tagged.Tag)
}

func TestRecommendScoreFloor(t *testing.T) {
	offers := make([]model.Offer, 10)
	got := Recommend(offers)
	assert.Equal(t, 100, got[0].MatchScore)
	assert.Equal(t, 80, got[4].MatchScore)
	assert.Equal(t, 65, got[7].MatchScore)
	assert.Equal(t, 65, got[9].MatchScore)
	assert.Equal(t, aiReasons[0], got[5].Reason)
}

func TestSuperCashbackStores(t *testing.T) {
	svc, catalog, _, _ := newOffersFixture()
	mega := model.Store{Name: "Mega Mart"}
	mega.Offers.Cashback = 25
	mega.Location.City = "Pune"
	plain := model.Store{Name: "Corner Shop"}
	plain.RewardRules.BaseCashbackPercent = 8
	plain.Ratings = model.RatingSummary{Average: 3.9, Count: 14}
	catalog.stores = []model.Store{mega, plain}

	data, err := svc.Section(context.Background(), "superCashbackStores", OffersQuery{})
	require.NoError(t, err)
	stores := data.([]SuperCashbackStore)
	require.Len(t, stores, 2)
	assert.Equal(t, "MEGA CASHBACK", stores[0].Badge)
	assert.Equal(t, 4.5, stores[0].Rating)
	assert.Equal(t, "Pune", stores[0].Location)
	assert.Equal(t, "SUPER CASHBACK", stores[1].Badge)
	assert.Equal(t, 8.0, stores[1].CashbackPercentage)
	assert.Equal(t, 3.9, stores[1].Rating)
}
