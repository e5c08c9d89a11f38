package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/cache"
	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.uber.org/zap"
)

const (
	defaultAdminLimit = 20
	maxAdminLimit     = 100
)

// Merchant review actions and the status each one moves to
var merchantActions = map[string]string{
	"approve":    model.MerchantApproved,
	"reject":     model.MerchantRejected,
	"suspend":    model.MerchantSuspended,
	"reactivate": model.MerchantApproved,
}

type AdminListQuery struct {
	Status   string `query:"status" validate:"omitempty,max=30"`
	Category string `query:"category" validate:"omitempty,max=40"`
	Action   string `query:"action" validate:"omitempty,max=80"`
	Merchant uint   `query:"merchantId"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (q AdminListQuery) pagination(total int64) Pagination {
	return NewPagination(q.Page, q.Limit, defaultAdminLimit, maxAdminLimit, total)
}

type MerchantReviewInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

type OfferInput struct {
	Title              string    `json:"title" validate:"required,max=100"`
	Subtitle           string    `json:"subtitle" validate:"max=200"`
	Description        string    `json:"description" validate:"max=2000"`
	Image              string    `json:"image" validate:"required,url"`
	Category           string    `json:"category" validate:"required,oneof=mega student new_arrival trending food fashion electronics general"`
	Type               string    `json:"type" validate:"required,oneof=cashback discount voucher combo special walk_in"`
	CashbackPercentage float64   `json:"cashbackPercentage" validate:"gte=0,lte=100"`
	OriginalPrice      float64   `json:"originalPrice" validate:"gte=0"`
	DiscountedPrice    float64   `json:"discountedPrice" validate:"gte=0"`
	StartDate          time.Time `json:"startDate" validate:"required"`
	EndDate            time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	StoreID            string    `json:"storeId" validate:"omitempty,objectid"`
	Lat                *float64  `json:"lat" validate:"omitempty,latitude"`
	Lng                *float64  `json:"lng" validate:"omitempty,longitude"`
	Priority           int       `json:"priority" validate:"gte=0"`
	Tags               []string  `json:"tags" validate:"omitempty,dive,max=50"`
	SaleTag            string    `json:"saleTag" validate:"max=40"`
	BogoType           string    `json:"bogoType" validate:"max=40"`
	IsFreeDelivery     bool      `json:"isFreeDelivery"`
	DeliveryFee        float64   `json:"deliveryFee" validate:"gte=0"`
	IsTrending         bool      `json:"isTrending"`
	Featured           bool      `json:"featured"`
}

type MerchantPage struct {
	Merchants  []model.Merchant `json:"merchants"`
	Pagination Pagination       `json:"pagination"`
}

type StorePage struct {
	Stores     []model.Store `json:"stores"`
	Pagination Pagination    `json:"pagination"`
}

type OfferPage struct {
	Offers     []model.Offer `json:"offers"`
	Pagination Pagination    `json:"pagination"`
}

type AuditPage struct {
	Logs       []model.AuditLog `json:"logs"`
	Pagination Pagination       `json:"pagination"`
}

type AdminService struct {
	merchants domain.MerchantRepository
	stores    *StoreService
	offers    domain.OfferRepository
	audit     domain.AuditRepository
	cache     domain.PageCache
	log       *zap.Logger
	now       Clock
}

func NewAdminService(merchants domain.MerchantRepository, stores *StoreService, offers domain.OfferRepository,
	audit domain.AuditRepository, pageCache domain.PageCache, log *zap.Logger) *AdminService {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &AdminService{
		merchants: merchants,
		stores:    stores,
		offers:    offers,
		audit:     audit,
		cache:     pageCache,
		log:       log,
		now:       time.Now,
	}
}

func (s *AdminService) ListMerchants(ctx context.Context, q AdminListQuery) (*MerchantPage, error) {
	p := q.pagination(0)
	merchants, total, err := s.merchants.List(ctx, domain.MerchantQuery{Status: q.Status, Page: p.Window()})
	if err != nil {
		return nil, wrap("list merchants", err)
	}
	return &MerchantPage{Merchants: merchants, Pagination: q.pagination(total)}, nil
}

// ReviewMerchant applies approve, reject, suspend or reactivate and records it in the audit log
func (s *AdminService) ReviewMerchant(ctx context.Context, adminID, merchantID uint, action string, in MerchantReviewInput, ip string) (*model.Merchant, error) {
	to, ok := merchantActions[action]
	if !ok {
		return nil, domain.Invalid("action", "must be one of approve, reject, suspend, reactivate")
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if action == "reactivate" && merchant.Status != model.MerchantSuspended {
		return nil, fmt.Errorf("%w from %s to %s", domain.ErrInvalidTransition, merchant.Status, to)
	}
	from := merchant.Status
	if err := domain.MerchantTransitions.Check(from, to); err != nil {
		return nil, err
	}

	merchant.Status = to
	merchant.StatusReason = in.Reason
	if err := s.merchants.Save(ctx, merchant); err != nil {
		return nil, wrap("save merchant", err)
	}

	recordAudit(ctx, s.log, s.audit, AuditEntry{
		MerchantID: merchant.ID,
		ActorID:    adminID,
		Action:     "merchant." + action,
		Resource:   "merchant",
		ResourceID: fmt.Sprint(merchant.ID),
		Details:    map[string]string{"from": from, "to": to, "reason": in.Reason},
		IPAddress:  ip,
	})
	s.log.Info("Merchant status changed",
		zap.Uint("merchant_id", merchant.ID),
		zap.Uint("admin_id", adminID),
		zap.String("from", from),
		zap.String("to", to))
	return merchant, nil
}

func (s *AdminService) ListStores(ctx context.Context, q AdminListQuery) (*StorePage, error) {
	query := domain.StoreQuery{Page: q.pagination(0).Window()}
	if q.Merchant != 0 {
		query.MerchantID = &q.Merchant
	}
	stores, total, err := s.stores.List(ctx, query)
	if err != nil {
		return nil, wrap("list stores", err)
	}
	return &StorePage{Stores: stores, Pagination: q.pagination(total)}, nil
}

// ModerateStore sets approval or suspension and drops cached public pages that list stores
func (s *AdminService) ModerateStore(ctx context.Context, adminID uint, storeID string, approved, suspended *bool, ip string) (*model.Store, error) {
	store, err := s.stores.Moderate(ctx, storeID, approved, suspended)
	if err != nil {
		return nil, err
	}
	s.invalidatePages(ctx)

	recordAudit(ctx, s.log, s.audit, AuditEntry{
		MerchantID: store.MerchantID,
		ActorID:    adminID,
		Action:     "store.moderate",
		Resource:   "store",
		ResourceID: store.ID.Hex(),
		Details:    map[string]interface{}{"adminApproved": store.AdminApproved, "isSuspended": store.IsSuspended},
		IPAddress:  ip,
	})
	s.log.Info("Store moderated",
		zap.String("store_id", store.ID.Hex()),
		zap.Bool("suspended", store.IsSuspended))
	return store, nil
}

func (s *AdminService) invalidatePages(ctx context.Context) {
	for _, prefix := range []string{cache.OffersPagePrefix, cache.HomepagePrefix} {
		if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
			s.log.Warn("Failed to invalidate page cache", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

func (s *AdminService) ListOffers(ctx context.Context, q AdminListQuery) (*OfferPage, error) {
	offers, total, err := s.offers.List(ctx, q.Category, q.pagination(0).Window())
	if err != nil {
		return nil, wrap("list offers", err)
	}
	return &OfferPage{Offers: offers, Pagination: q.pagination(total)}, nil
}

func (s *AdminService) applyOffer(ctx context.Context, offer *model.Offer, in OfferInput) error {
	offer.Title = in.Title
	offer.Subtitle = in.Subtitle
	offer.Description = in.Description
	offer.Image = in.Image
	offer.Category = in.Category
	offer.Type = in.Type
	offer.CashbackPercentage = in.CashbackPercentage
	offer.OriginalPrice = in.OriginalPrice
	offer.DiscountedPrice = in.DiscountedPrice
	offer.Validity.StartDate = in.StartDate
	offer.Validity.EndDate = in.EndDate
	offer.Metadata.Priority = in.Priority
	offer.Metadata.Tags = in.Tags
	offer.Metadata.IsTrending = in.IsTrending
	offer.Metadata.Featured = in.Featured
	offer.SaleTag = in.SaleTag
	offer.BogoType = in.BogoType
	offer.IsFreeDelivery = in.IsFreeDelivery
	offer.DeliveryFee = in.DeliveryFee
	offer.Location = nil
	if in.Lat != nil && in.Lng != nil {
		offer.Location = model.NewGeoPoint(*in.Lat, *in.Lng)
	}

	offer.Store = model.OfferStore{}
	if in.StoreID != "" {
		id, err := parseID("storeId", in.StoreID)
		if err != nil {
			return err
		}
		store, err := s.stores.stores.GetByID(ctx, id)
		if err != nil {
			return err
		}
		offer.Store = model.OfferStore{
			ID:       store.ID,
			Name:     store.Name,
			Logo:     store.Logo,
			Rating:   store.Ratings.Average,
			Verified: store.IsVerified,
		}
	}
	return nil
}

func (s *AdminService) CreateOffer(ctx context.Context, adminID uint, in OfferInput) (*model.Offer, error) {
	now := s.now()
	offer := &model.Offer{CreatedBy: adminID, CreatedAt: now, UpdatedAt: now}
	offer.Validity.IsActive = true
	if err := s.applyOffer(ctx, offer, in); err != nil {
		return nil, err
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, wrap("create offer", err)
	}
	s.invalidatePages(ctx)
	s.log.Info("Offer created",
		zap.String("offer_id", offer.ID.Hex()),
		zap.String("category", offer.Category))
	return offer, nil
}

func (s *AdminService) offer(ctx context.Context, offerID string) (*model.Offer, error) {
	id, err := parseID("offerId", offerID)
	if err != nil {
		return nil, err
	}
	return s.offers.GetByID(ctx, id)
}

func (s *AdminService) saveOffer(ctx context.Context, offer *model.Offer) error {
	offer.UpdatedAt = s.now()
	if err := s.offers.Save(ctx, offer); err != nil {
		return wrap("save offer", err)
	}
	s.invalidatePages(ctx)
	return nil
}

func (s *AdminService) UpdateOffer(ctx context.Context, offerID string, in OfferInput) (*model.Offer, error) {
	offer, err := s.offer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := s.applyOffer(ctx, offer, in); err != nil {
		return nil, err
	}
	if err := s.saveOffer(ctx, offer); err != nil {
		return nil, err
	}
	s.log.Info("Offer updated", zap.String("offer_id", offer.ID.Hex()))
	return offer, nil
}

func (s *AdminService) DeleteOffer(ctx context.Context, offerID string) error {
	offer, err := s.offer(ctx, offerID)
	if err != nil {
		return err
	}
	if err := s.offers.Delete(ctx, offer.ID); err != nil {
		return wrap("delete offer", err)
	}
	s.invalidatePages(ctx)
	s.log.Info("Offer deleted", zap.String("offer_id", offer.ID.Hex()))
	return nil
}

// ToggleOffer flips validity.isActive
func (s *AdminService) ToggleOffer(ctx context.Context, offerID string) (*model.Offer, error) {
	offer, err := s.offer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	offer.Validity.IsActive = !offer.Validity.IsActive
	if err := s.saveOffer(ctx, offer); err != nil {
		return nil, err
	}
	s.log.Info("Offer toggled",
		zap.String("offer_id", offer.ID.Hex()),
		zap.Bool("active", offer.Validity.IsActive))
	return offer, nil
}

// ReviewOffer sets adminApproved; rejected offers disappear from every public listing
func (s *AdminService) ReviewOffer(ctx context.Context, adminID uint, offerID string, approved bool, ip string) (*model.Offer, error) {
	offer, err := s.offer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	offer.AdminApproved = &approved
	if err := s.saveOffer(ctx, offer); err != nil {
		return nil, err
	}

	action := "offer.approve"
	if !approved {
		action = "offer.reject"
	}
	recordAudit(ctx, s.log, s.audit, AuditEntry{
		ActorID:    adminID,
		Action:     action,
		Resource:   "offer",
		ResourceID: offer.ID.Hex(),
		IPAddress:  ip,
	})
	return offer, nil
}

func (s *AdminService) ListAudit(ctx context.Context, q AdminListQuery) (*AuditPage, error) {
	query := domain.AuditQuery{Action: q.Action, Page: q.pagination(0).Window()}
	if q.Merchant != 0 {
		query.MerchantID = &q.Merchant
	}
	logs, total, err := s.audit.List(ctx, query)
	if err != nil {
		return nil, wrap("list audit logs", err)
	}
	return &AuditPage{Logs: logs, Pagination: q.pagination(total)}, nil
}
