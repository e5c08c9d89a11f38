package domain

import (
	"context"
	"io"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is an offset/limit window
type Page struct {
	Limit  int
	Offset int
}

type StoreRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Store, error)
	ListByMerchant(ctx context.Context, merchantID uint) ([]model.Store, error)
	List(ctx context.Context, query StoreQuery) ([]model.Store, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, store *model.Store) error
	Save(ctx context.Context, store *model.Store) error
}

type StoreQuery struct {
	MerchantID *uint
	Active     *bool
	Page       Page
}

type GalleryQuery struct {
	OwnerID     primitive.ObjectID
	Category    string
	Type        string
	VariantID   string
	VisibleOnly bool
	SortBy      string
	Descending  bool
	Page        Page
}

// GalleryRepository stores gallery items keyed by their owner: the store for store
// galleries and the product for product galleries.
type GalleryRepository interface {
	Create(ctx context.Context, item *model.GalleryItem) error
	Save(ctx context.Context, item *model.GalleryItem) error
	// GetByID returns soft-deleted items too
	GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*model.GalleryItem, error)
	List(ctx context.Context, query GalleryQuery) ([]model.GalleryItem, int64, error)
	Categories(ctx context.Context, ownerID primitive.ObjectID, visibleOnly bool) ([]model.GalleryCategory, error)
	MaxOrder(ctx context.Context, ownerID primitive.ObjectID, category string) (int, error)
	// UnsetCover clears isCover on every active item of the owner except keep.
	// An empty category clears across all categories.
	UnsetCover(ctx context.Context, ownerID primitive.ObjectID, category string, keep primitive.ObjectID) (int64, error)
	SetOrder(ctx context.Context, ownerID, id primitive.ObjectID, order int) (bool, error)
	SoftDelete(ctx context.Context, ownerID primitive.ObjectID, ids []primitive.ObjectID, at time.Time) (int64, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	// ListUnordered returns active items with order 0, grouped by owner and category
	ListUnordered(ctx context.Context) ([]model.GalleryItem, error)
}

type ProductQuery struct {
	StoreID    *primitive.ObjectID
	MerchantID *uint
	Status     string
	Search     string
	Page       Page
}

type ProductRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	List(ctx context.Context, query ProductQuery) ([]model.Product, int64, error)
	Create(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// FindBySKUs returns the non-deleted products of a store keyed by SKU
	FindBySKUs(ctx context.Context, storeID primitive.ObjectID, skus []string) (map[string]model.Product, error)
	// FilterOwned returns the subset of ids that belong to the store
	FilterOwned(ctx context.Context, storeID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error)
	// WriteBatch inserts creates and replaces updates in a single round trip
	WriteBatch(ctx context.Context, creates, updates []*model.Product) error
	ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]model.Product, error)
}

type CategoryRepository interface {
	ListActive(ctx context.Context, limit int) ([]model.Category, error)
	Upsert(ctx context.Context, category *model.Category) error
}

// Transactor runs fn inside a database transaction, committing only when fn returns nil
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type VideoQuery struct {
	StoreID primitive.ObjectID
	SortBy  string
	Page    Page
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Video, error)
	Save(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByStore(ctx context.Context, query VideoQuery) ([]model.Video, int64, error)
	AllByStore(ctx context.Context, storeID primitive.ObjectID) ([]model.Video, error)
}

type OrderQuery struct {
	MerchantID *uint
	StoreID    *primitive.ObjectID
	Status     string
	Page       Page
}

// OrderStats is the per-merchant order rollup
type OrderStats struct {
	ByStatus       map[string]int64 `json:"byStatus"`
	TotalOrders    int64            `json:"totalOrders"`
	Revenue        float64          `json:"revenue"`
	AvgOrderValue  float64          `json:"avgOrderValue"`
	DeliveredCount int64            `json:"deliveredCount"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	List(ctx context.Context, query OrderQuery) ([]model.Order, int64, error)
	// UpdateStatus applies change only if the order is still in status from; otherwise ErrConflict
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from string, change model.OrderStatusChange) (*model.Order, error)
	Stats(ctx context.Context, merchantID uint) (*OrderStats, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Offer, error)
	Save(ctx context.Context, offer *model.Offer) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, category string, page Page) ([]model.Offer, int64, error)
}

type CoinDropRepository interface {
	Create(ctx context.Context, drop *model.CoinDrop) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.CoinDrop, error)
	Save(ctx context.Context, drop *model.CoinDrop) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]model.CoinDrop, error)
}

type SectionConfigRepository interface {
	List(ctx context.Context) ([]model.OffersSectionConfig, error)
	Upsert(ctx context.Context, cfg *model.OffersSectionConfig) error
}

type MerchantQuery struct {
	Status string
	Page   Page
}

type MerchantRepository interface {
	Create(ctx context.Context, merchant *model.Merchant) error
	GetByID(ctx context.Context, id uint) (*model.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*model.Merchant, error)
	List(ctx context.Context, query MerchantQuery) ([]model.Merchant, int64, error)
	Save(ctx context.Context, merchant *model.Merchant) error
}

type AuditQuery struct {
	MerchantID *uint
	Action     string
	Page       Page
}

type AuditRepository interface {
	Record(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, query AuditQuery) ([]model.AuditLog, int64, error)
}

// UploadInput describes one file handed to the media host
type UploadInput struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
}

// UploadResult identifies a stored media object
type UploadResult struct {
	URL      string
	PublicID string
}

// MediaStore is the external media host
type MediaStore interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// PageCache stores rendered read models for anonymous visitors
type PageCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Event is a domain event published to the message bus
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	MerchantID uint        `json:"merchantId,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Event types
const (
	EventGalleryUploaded    = "gallery.uploaded"
	EventGalleryDeleted     = "gallery.deleted"
	EventVideoPublished     = "video.published"
	EventVideoDeleted       = "video.deleted"
	EventProductsImported   = "products.imported"
	EventOrderStatusChanged = "order.status_changed"
)

// PublisherPort sends domain events
type PublisherPort interface {
	Publish(ctx context.Context, event Event) error
}

// DiscountBuckets holds active offer counts per discount band
type DiscountBuckets struct {
	Off25        int64
	Off50        int64
	Off80        int64
	FreeDelivery int64
}

// OffersCatalog reads the public offers and cashback collections.
// Every offer query applies model.ActiveOfferFilter.
type OffersCatalog interface {
	DiscountBuckets(ctx context.Context) (*DiscountBuckets, error)
	TrendingOffers(ctx context.Context, limit int) ([]model.Offer, error)
	NearbyOffers(ctx context.Context, lat, lng float64, limit int) ([]model.Offer, error)
	SaleOffers(ctx context.Context, limit int) ([]model.Offer, error)
	BogoOffers(ctx context.Context, limit int) ([]model.Offer, error)
	FreeDeliveryOffers(ctx context.Context, limit int) ([]model.Offer, error)
	FlashSaleOffers(ctx context.Context, limit int) ([]model.Offer, error)
	NewOffers(ctx context.Context, since time.Time, limit int) ([]model.Offer, error)
	FriendRedemptions(ctx context.Context, limit int) ([]model.FriendRedemption, error)
	Hotspots(ctx context.Context, limit int) ([]model.HotspotArea, error)
	DoubleCashback(ctx context.Context, region string, limit int) ([]model.DoubleCashbackCampaign, error)
	ActiveCoinDrops(ctx context.Context, region string, limit int) ([]model.CoinDrop, error)
	SuperCashbackStores(ctx context.Context, region string, limit int) ([]model.Store, error)
	UploadBillStores(ctx context.Context, region string, limit int) ([]model.UploadBillStore, error)
	BankOffers(ctx context.Context, limit int) ([]model.BankOffer, error)
	ExclusiveZones(ctx context.Context, limit int) ([]model.ExclusiveZone, error)
	SpecialProfiles(ctx context.Context, limit int) ([]model.SpecialProfile, error)
	LoyaltyMilestones(ctx context.Context, limit int) ([]model.LoyaltyMilestone, error)
}

// HomepageCatalog reads the collections shown on the customer homepage
type HomepageCatalog interface {
	FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	NewArrivals(ctx context.Context, since time.Time, limit int) ([]model.Product, error)
	FeaturedStores(ctx context.Context, limit int) ([]model.Store, error)
	TrendingStores(ctx context.Context, limit int) ([]model.Store, error)
	UpcomingEvents(ctx context.Context, limit int) ([]model.Event, error)
	OffersByCategory(ctx context.Context, category string, limit int) ([]model.Offer, error)
	Categories(ctx context.Context, limit int) ([]model.Category, error)
	TrendingVideos(ctx context.Context, limit int) ([]model.Video, error)
	LatestArticles(ctx context.Context, limit int) ([]model.Article, error)
}
