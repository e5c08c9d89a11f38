package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/cache"
	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Offers page tabs
const (
	TabOffers    = "offers"
	TabCashback  = "cashback"
	TabExclusive = "exclusive"
	TabAll       = "all"
)

const (
	newOffersWindow   = 3 * 24 * time.Hour
	megaCashbackAbove = 20
)

var aiReasons = []string{
	"Popular in your area",
	"Trending this week",
	"Based on your interests",
	"Highly rated by users",
	"Best value offer",
}

type DiscountBucket struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Count       int64  `json:"count"`
	FilterValue string `json:"filterValue"`
}

type SaleOffer struct {
	model.Offer
	DiscountPercentage float64 `json:"discountPercentage"`
	SalePrice          float64 `json:"salePrice"`
	Tag                string  `json:"tag"`
}

type RecommendedOffer struct {
	model.Offer
	MatchScore int    `json:"matchScore"`
	Reason     string `json:"reason"`
}

type NearbyOffer struct {
	model.Offer
	DeliveryTime string  `json:"deliveryTime"`
	Rating       float64 `json:"rating"`
}

type SuperCashbackStore struct {
	ID                 primitive.ObjectID `json:"id"`
	Name               string             `json:"name"`
	Logo               string             `json:"logo,omitempty"`
	Description        string             `json:"description,omitempty"`
	CashbackPercentage float64            `json:"cashbackPercentage"`
	Rating             float64            `json:"rating"`
	TotalReviews       int                `json:"totalReviews"`
	Location           string             `json:"location"`
	IsSuperCashback    bool               `json:"isSuperCashback"`
	Badge              string             `json:"badge"`
}

type MilestoneProgress struct {
	model.LoyaltyMilestone
	CurrentProgress    float64 `json:"currentProgress"`
	ProgressPercentage int     `json:"progressPercentage"`
	IsCompleted        bool    `json:"isCompleted"`
}

// OffersQuery selects the tab and the caller's region and position
type OffersQuery struct {
	Tab       string   `query:"tab" validate:"omitempty,oneof=offers cashback exclusive all"`
	Region    string   `query:"region" validate:"omitempty,max=40"`
	Lat       *float64 `query:"lat" validate:"omitempty,latitude"`
	Lng       *float64 `query:"lng" validate:"omitempty,longitude"`
	Limit     int      `query:"limit" validate:"omitempty,min=1,max=50"`
	Anonymous bool     `query:"-"`
}

type OffersSection struct {
	Data  interface{} `json:"data"`
	Order int         `json:"order"`
}

type OffersPageMetadata struct {
	Timestamp         time.Time `json:"timestamp"`
	FetchDurationMs   int64     `json:"fetchDurationMs"`
	PopulatedSections int       `json:"populatedSections"`
	TotalSections     int       `json:"totalSections"`
}

type OffersPage struct {
	Sections   map[string]OffersSection `json:"sections"`
	HeroBanner interface{}              `json:"heroBanner"`
	Metadata   OffersPageMetadata       `json:"metadata"`
}

type offersSection struct {
	key          string
	tab          string
	defaultLimit int
	// needsLocation sections run only when lat and lng are given
	needsLocation bool
	fetch         func(s *OffersPageService, ctx context.Context, q OffersQuery, limit int) (interface{}, int, error)
}

func offerList(offers []model.Offer, err error) (interface{}, int, error) {
	return offers, len(offers), err
}

var offersSections = []offersSection{
	{key: "discountBuckets", tab: TabOffers, defaultLimit: 4, fetch: (*OffersPageService).discountBuckets},
	{key: "trendingOffers", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		return offerList(s.catalog.TrendingOffers(ctx, limit))
	}},
	{key: "saleOffers", tab: TabOffers, defaultLimit: 10, fetch: (*OffersPageService).saleOffers},
	{key: "bogoOffers", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		return offerList(s.catalog.BogoOffers(ctx, limit))
	}},
	{key: "freeDeliveryOffers", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		return offerList(s.catalog.FreeDeliveryOffers(ctx, limit))
	}},
	{key: "todaysOffers", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		return offerList(s.catalog.FlashSaleOffers(ctx, limit))
	}},
	{key: "aiRecommendedOffers", tab: TabOffers, defaultLimit: 10, fetch: (*OffersPageService).recommendedOffers},
	{key: "friendsRedeemed", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.FriendRedemptions(ctx, limit)
		return items, len(items), err
	}},
	{key: "hotspots", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.Hotspots(ctx, limit)
		return items, len(items), err
	}},
	{key: "newTodayOffers", tab: TabOffers, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		return offerList(s.catalog.NewOffers(ctx, s.now().Add(-newOffersWindow), limit))
	}},
	{key: "nearbyOffers", tab: TabOffers, defaultLimit: 10, needsLocation: true, fetch: (*OffersPageService).nearbyOffers},

	{key: "doubleCashback", tab: TabCashback, defaultLimit: 5, fetch: func(s *OffersPageService, ctx context.Context, q OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.DoubleCashback(ctx, q.Region, limit)
		return items, len(items), err
	}},
	{key: "coinDrops", tab: TabCashback, defaultLimit: 20, fetch: func(s *OffersPageService, ctx context.Context, q OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.ActiveCoinDrops(ctx, q.Region, limit)
		return items, len(items), err
	}},
	{key: "superCashbackStores", tab: TabCashback, defaultLimit: 20, fetch: (*OffersPageService).superCashbackStores},
	{key: "uploadBillStores", tab: TabCashback, defaultLimit: 20, fetch: func(s *OffersPageService, ctx context.Context, q OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.UploadBillStores(ctx, q.Region, limit)
		return items, len(items), err
	}},
	{key: "bankOffers", tab: TabCashback, defaultLimit: 10, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.BankOffers(ctx, limit)
		return items, len(items), err
	}},

	{key: "exclusiveZones", tab: TabExclusive, defaultLimit: 20, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.ExclusiveZones(ctx, limit)
		return items, len(items), err
	}},
	{key: "specialProfiles", tab: TabExclusive, defaultLimit: 20, fetch: func(s *OffersPageService, ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
		items, err := s.catalog.SpecialProfiles(ctx, limit)
		return items, len(items), err
	}},
	{key: "loyaltyMilestones", tab: TabExclusive, defaultLimit: 20, fetch: (*OffersPageService).loyaltyMilestones},
}

// OffersSectionKeys lists every offers page section in default order
func OffersSectionKeys() []string {
	keys := make([]string, len(offersSections))
	for i, s := range offersSections {
		keys[i] = s.key
	}
	return keys
}

func findOffersSection(key string) (offersSection, bool) {
	for _, s := range offersSections {
		if s.key == key {
			return s, true
		}
	}
	return offersSection{}, false
}

type OffersPageService struct {
	catalog  domain.OffersCatalog
	sections domain.SectionConfigRepository
	cache    domain.PageCache
	ttl      time.Duration
	log      *zap.Logger
	now      Clock
}

func NewOffersPageService(catalog domain.OffersCatalog, sections domain.SectionConfigRepository, pageCache domain.PageCache,
	ttl time.Duration, log *zap.Logger) *OffersPageService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &OffersPageService{catalog: catalog, sections: sections, cache: pageCache, ttl: ttl, log: log, now: time.Now}
}

func (s *OffersPageService) discountBuckets(ctx context.Context, _ OffersQuery, _ int) (interface{}, int, error) {
	counts, err := s.catalog.DiscountBuckets(ctx)
	if err != nil {
		return nil, 0, err
	}
	buckets := []DiscountBucket{
		{ID: "db-1", Label: "25% OFF", Icon: "pricetag", Count: counts.Off25, FilterValue: "25"},
		{ID: "db-2", Label: "50% OFF", Icon: "flash", Count: counts.Off50, FilterValue: "50"},
		{ID: "db-3", Label: "80% OFF", Icon: "flame", Count: counts.Off80, FilterValue: "80"},
		{ID: "db-4", Label: "Free Delivery", Icon: "car", Count: counts.FreeDelivery, FilterValue: "free_delivery"},
	}
	return buckets, len(buckets), nil
}

// EnrichSale derives the discount, sale price and display tag of a sale offer
func EnrichSale(offer model.Offer) SaleOffer {
	discount := offer.CashbackPercentage
	if offer.OriginalPrice > 0 && offer.DiscountedPrice > 0 {
		discount = math.Round((offer.OriginalPrice - offer.DiscountedPrice) / offer.OriginalPrice * 100)
	}
	salePrice := offer.DiscountedPrice
	if salePrice == 0 {
		salePrice = offer.OriginalPrice
	}
	tag := offer.SaleTag
	if tag == "" && discount > 0 {
		tag = fmt.Sprintf("%.0f%% OFF", discount)
	}
	return SaleOffer{Offer: offer, DiscountPercentage: discount, SalePrice: salePrice, Tag: tag}
}

func (s *OffersPageService) saleOffers(ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
	offers, err := s.catalog.SaleOffers(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SaleOffer, 0, len(offers))
	for _, o := range offers {
		out = append(out, EnrichSale(o))
	}
	return out, len(out), nil
}

// Recommend ranks offers by position: the score drops 5 points per rank with a floor of 65
func Recommend(offers []model.Offer) []RecommendedOffer {
	out := make([]RecommendedOffer, 0, len(offers))
	for i, o := range offers {
		score := 100 - i*5
		if score < 65 {
			score = 65
		}
		out = append(out, RecommendedOffer{Offer: o, MatchScore: score, Reason: aiReasons[i%len(aiReasons)]})
	}
	return out
}

func (s *OffersPageService) recommendedOffers(ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
	offers, err := s.catalog.TrendingOffers(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	out := Recommend(offers)
	return out, len(out), nil
}

func (s *OffersPageService) nearbyOffers(ctx context.Context, q OffersQuery, limit int) (interface{}, int, error) {
	offers, err := s.catalog.NearbyOffers(ctx, *q.Lat, *q.Lng, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]NearbyOffer, 0, len(offers))
	for _, o := range offers {
		if o.IsFreeDelivery {
			o.DeliveryFee = 0
		} else if o.DeliveryFee == 0 {
			o.DeliveryFee = 5
		}
		rating := o.Store.Rating
		if rating == 0 {
			rating = 4.5
		}
		out = append(out, NearbyOffer{Offer: o, DeliveryTime: "15-30 min", Rating: rating})
	}
	return out, len(out), nil
}

// CashbackBadge labels a store by its cashback percentage
func CashbackBadge(percent float64) string {
	if percent >= megaCashbackAbove {
		return "MEGA CASHBACK"
	}
	return "SUPER CASHBACK"
}

func (s *OffersPageService) superCashbackStores(ctx context.Context, q OffersQuery, limit int) (interface{}, int, error) {
	stores, err := s.catalog.SuperCashbackStores(ctx, q.Region, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SuperCashbackStore, 0, len(stores))
	for i := range stores {
		st := &stores[i]
		rating := st.Ratings.Average
		if rating == 0 {
			rating = 4.5
		}
		percent := st.CashbackPercent()
		out = append(out, SuperCashbackStore{
			ID:                 st.ID,
			Name:               st.Name,
			Logo:               st.Logo,
			Description:        st.Description,
			CashbackPercentage: percent,
			Rating:             rating,
			TotalReviews:       st.Ratings.Count,
			Location:           st.Location.City,
			IsSuperCashback:    true,
			Badge:              CashbackBadge(percent),
		})
	}
	return out, len(out), nil
}

func (s *OffersPageService) loyaltyMilestones(ctx context.Context, _ OffersQuery, limit int) (interface{}, int, error) {
	milestones, err := s.catalog.LoyaltyMilestones(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MilestoneProgress, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, MilestoneProgress{LoyaltyMilestone: m})
	}
	return out, len(out), nil
}

func (q OffersQuery) hasLocation() bool {
	return q.Lat != nil && q.Lng != nil
}

func (q OffersQuery) includes(tab string) bool {
	return q.Tab == TabAll || q.Tab == tab
}

// loadConfigs returns section configs by key. A failed read enables every section.
func (s *OffersPageService) loadConfigs(ctx context.Context) map[string]model.OffersSectionConfig {
	configs := make(map[string]model.OffersSectionConfig)
	list, err := s.sections.List(ctx)
	if err != nil {
		s.log.Warn("Failed to load offers section config; using defaults", zap.Error(err))
		return configs
	}
	for _, c := range list {
		configs[c.SectionKey] = c
	}
	return configs
}

// Page assembles the sections of the requested tab concurrently
func (s *OffersPageService) Page(ctx context.Context, q OffersQuery) (*OffersPage, error) {
	if q.Tab == "" {
		q.Tab = TabAll
	}
	region := q.Region
	if region == "" || region == "all" {
		region = "all"
		q.Region = ""
	}

	key := cache.OffersPageKey(region, q.Tab)
	cacheable := q.Anonymous && !q.hasLocation()
	if cacheable {
		var cached OffersPage
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("Offers page cache read failed", zap.Error(err))
		}
		prometheus.RecordCacheLookup("offers", hit)
		if hit {
			return &cached, nil
		}
	}

	start := s.now()
	configs := s.loadConfigs(ctx)

	type job struct {
		section offersSection
		limit   int
		order   int
	}
	jobs := make([]job, 0, len(offersSections))
	for _, section := range offersSections {
		if !q.includes(section.tab) {
			continue
		}
		if section.needsLocation && !q.hasLocation() {
			continue
		}
		cfg, configured := configs[section.key]
		if configured && !cfg.IsEnabled {
			continue
		}
		j := job{section: section, limit: section.defaultLimit, order: len(jobs)}
		if configured {
			if cfg.MaxItems > 0 {
				j.limit = cfg.MaxItems
			}
			j.order = cfg.SortOrder
		}
		jobs = append(jobs, j)
	}

	results := make([]interface{}, len(jobs))
	counts := make([]int, len(jobs))
	failed := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			data, n, err := j.section.fetch(s, gctx, q, j.limit)
			if err != nil {
				prometheus.RecordSectionError("offers", j.section.key)
				s.log.Warn("Offers section failed",
					zap.String("section", j.section.key),
					zap.Error(err))
				results[i] = []interface{}{}
				failed[i] = true
				return nil
			}
			results[i] = data
			counts[i] = n
			return nil
		})
	}
	_ = g.Wait()

	page := &OffersPage{
		Sections: make(map[string]OffersSection, len(jobs)),
		Metadata: OffersPageMetadata{Timestamp: start, TotalSections: len(jobs)},
	}
	complete := true
	for i, j := range jobs {
		page.Sections[j.section.key] = OffersSection{Data: results[i], Order: j.order}
		if counts[i] > 0 {
			page.Metadata.PopulatedSections++
		}
		if failed[i] {
			complete = false
		}
	}
	elapsed := s.now().Sub(start)
	page.Metadata.FetchDurationMs = elapsed.Milliseconds()
	prometheus.ObservePageBuild("offers", elapsed)

	// a page with a failed section is served but not cached
	if cacheable && complete {
		if err := s.cache.Set(ctx, key, page, s.ttl); err != nil {
			s.log.Warn("Offers page cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

// Section serves one section on its own with the same filters as the page
func (s *OffersPageService) Section(ctx context.Context, key string, q OffersQuery) (interface{}, error) {
	section, ok := findOffersSection(key)
	if !ok {
		return nil, fmt.Errorf("offers section %s: %w", key, domain.ErrNotFound)
	}
	if section.needsLocation && !q.hasLocation() {
		return nil, domain.Invalid("lat", "lat and lng are required")
	}
	if q.Region == "all" {
		q.Region = ""
	}
	limit := section.defaultLimit
	if q.Limit > 0 {
		limit = q.Limit
	}
	data, _, err := section.fetch(s, ctx, q, limit)
	if err != nil {
		return nil, wrap("fetch "+key, err)
	}
	return data, nil
}

type SectionConfigInput struct {
	IsEnabled *bool `json:"isEnabled"`
	SortOrder *int  `json:"sortOrder" validate:"omitempty,min=0,max=1000"`
	MaxItems  *int  `json:"maxItems" validate:"omitempty,min=1,max=100"`
}

// SectionConfigs returns the stored configuration merged with defaults for unconfigured sections
func (s *OffersPageService) SectionConfigs(ctx context.Context) ([]model.OffersSectionConfig, error) {
	list, err := s.sections.List(ctx)
	if err != nil {
		return nil, wrap("list section configs", err)
	}
	stored := make(map[string]model.OffersSectionConfig, len(list))
	for _, c := range list {
		stored[c.SectionKey] = c
	}

	out := make([]model.OffersSectionConfig, 0, len(offersSections))
	for i, section := range offersSections {
		if c, ok := stored[section.key]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, DefaultSectionConfig(section.key, i))
	}
	return out, nil
}

// DefaultSectionConfig is the configuration a section has before an administrator edits it
func DefaultSectionConfig(key string, order int) model.OffersSectionConfig {
	section, _ := findOffersSection(key)
	return model.OffersSectionConfig{SectionKey: key, IsEnabled: true, SortOrder: order, MaxItems: section.defaultLimit}
}

// UpdateSectionConfig stores the change and drops every cached offers page
func (s *OffersPageService) UpdateSectionConfig(ctx context.Context, key string, in SectionConfigInput) (*model.OffersSectionConfig, error) {
	configs, err := s.SectionConfigs(ctx)
	if err != nil {
		return nil, err
	}

	var cfg *model.OffersSectionConfig
	for i := range configs {
		if configs[i].SectionKey == key {
			cfg = &configs[i]
			break
		}
	}
	if cfg == nil {
		return nil, fmt.Errorf("offers section %s: %w", key, domain.ErrNotFound)
	}

	if in.IsEnabled != nil {
		cfg.IsEnabled = *in.IsEnabled
	}
	if in.SortOrder != nil {
		cfg.SortOrder = *in.SortOrder
	}
	if in.MaxItems != nil {
		cfg.MaxItems = *in.MaxItems
	}
	cfg.UpdatedAt = s.now()

	if err := s.sections.Upsert(ctx, cfg); err != nil {
		return nil, wrap("save section config", err)
	}
	if err := s.cache.DeletePrefix(ctx, cache.OffersPagePrefix); err != nil {
		s.log.Warn("Failed to invalidate offers page cache", zap.Error(err))
	}

	s.log.Info("Offers section config updated",
		zap.String("section", key),
		zap.Bool("enabled", cfg.IsEnabled),
		zap.Int("sort_order", cfg.SortOrder),
		zap.Int("max_items", cfg.MaxItems))
	return cfg, nil
}
