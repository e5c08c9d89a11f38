package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/jaevor/go-nanoid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type StoreLocationInput struct {
	Address        string   `json:"address" validate:"required"`
	City           string   `json:"city" validate:"required"`
	State          string   `json:"state"`
	Pincode        string   `json:"pincode"`
	Lat            *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng            *float64 `json:"lng" validate:"omitempty,longitude"`
	DeliveryRadius float64  `json:"deliveryRadius" validate:"gte=0"`
}

func (in StoreLocationInput) toModel() model.StoreLocation {
	loc := model.StoreLocation{
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Pincode:        in.Pincode,
		DeliveryRadius: in.DeliveryRadius,
	}
	if in.Lat != nil && in.Lng != nil {
		loc.Coordinates = model.NewGeoPoint(*in.Lat, *in.Lng)
	}
	return loc
}

type CreateStoreInput struct {
	Name        string             `json:"name" validate:"required,min=2,max=100"`
	Description string             `json:"description" validate:"max=1000"`
	Logo        string             `json:"logo" validate:"omitempty,url"`
	Category    string             `json:"category" validate:"omitempty,objectid"`
	Location    StoreLocationInput `json:"location" validate:"required"`
	Contact     model.StoreContact `json:"contact"`
	Cashback    float64            `json:"cashback" validate:"gte=0,lte=100"`
	Tags        []string           `json:"tags"`
	Region      string             `json:"region"`
}

type UpdateStoreInput struct {
	Name        *string             `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	Logo        *string             `json:"logo" validate:"omitempty,url"`
	Location    *StoreLocationInput `json:"location"`
	Contact     *model.StoreContact `json:"contact"`
	Cashback    *float64            `json:"cashback" validate:"omitempty,gte=0,lte=100"`
	Tags        []string            `json:"tags"`
	Region      *string             `json:"region"`
}

type StoreService struct {
	stores domain.StoreRepository
	log    *zap.Logger
	now    Clock
	suffix func() string
}

func NewStoreService(stores domain.StoreRepository, log *zap.Logger) *StoreService {
	suffix, err := nanoid.CustomASCII("abcdefghijklmnopqrstuvwxyz0123456789", 5)
	if err != nil {
		panic(err)
	}
	return &StoreService{stores: stores, log: log, now: time.Now, suffix: suffix}
}

// Owned loads the store and checks it belongs to merchantID.
// A missing store is ErrNotFound; a foreign one is ErrForbidden.
func (s *StoreService) Owned(ctx context.Context, storeID primitive.ObjectID, merchantID uint) (*model.Store, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.MerchantID != merchantID {
		s.log.Warn("Cross-merchant store access attempt",
			zap.Uint("requesting_merchant_id", merchantID),
			zap.Uint("store_merchant_id", store.MerchantID),
			zap.String("store_id", storeID.Hex()))
		return nil, domain.ErrForbidden
	}
	return store, nil
}

// OwnedHex is Owned for a path parameter
func (s *StoreService) OwnedHex(ctx context.Context, storeID string, merchantID uint) (*model.Store, error) {
	id, err := parseID("storeId", storeID)
	if err != nil {
		return nil, err
	}
	return s.Owned(ctx, id, merchantID)
}

// Public returns an active store; inactive and suspended stores read as missing
func (s *StoreService) Public(ctx context.Context, storeID string) (*model.Store, error) {
	id, err := parseID("storeId", storeID)
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !store.IsActive || store.IsSuspended {
		return nil, fmt.Errorf("store: %w", domain.ErrNotFound)
	}
	return store, nil
}

func (s *StoreService) ListOwn(ctx context.Context, merchantID uint) ([]model.Store, error) {
	return s.stores.ListByMerchant(ctx, merchantID)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name and joins alphanumeric runs with dashes
func Slugify(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "store"
	}
	return slug
}

func (s *StoreService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	slug := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.stores.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + "-" + s.suffix()
	}
	return "", fmt.Errorf("slug %s: %w", base, domain.ErrConflict)
}

func (s *StoreService) Create(ctx context.Context, merchantID uint, in CreateStoreInput) (*model.Store, error) {
	slug, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, wrap("generate slug", err)
	}

	now := s.now()
	store := &model.Store{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Description: in.Description,
		Logo:        in.Logo,
		Location:    in.Location.toModel(),
		Contact:     in.Contact,
		Offers:      model.StoreOffers{Cashback: in.Cashback},
		Tags:        in.Tags,
		Region:      in.Region,
		MerchantID:  merchantID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Category != "" {
		store.Category, _ = primitive.ObjectIDFromHex(in.Category)
	}

	if err := s.stores.Create(ctx, store); err != nil {
		return nil, wrap("create store", err)
	}

	s.log.Info("Store created successfully",
		zap.String("store_id", store.ID.Hex()),
		zap.String("slug", store.Slug),
		zap.Uint("merchant_id", merchantID))
	return store, nil
}

func (s *StoreService) Update(ctx context.Context, merchantID uint, storeID string, in UpdateStoreInput) (*model.Store, error) {
	store, err := s.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		store.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		store.Description = *in.Description
	}
	if in.Logo != nil {
		store.Logo = *in.Logo
	}
	if in.Location != nil {
		store.Location = in.Location.toModel()
	}
	if in.Contact != nil {
		store.Contact = *in.Contact
	}
	if in.Cashback != nil {
		store.Offers.Cashback = *in.Cashback
	}
	if in.Tags != nil {
		store.Tags = in.Tags
	}
	if in.Region != nil {
		store.Region = *in.Region
	}
	store.UpdatedAt = s.now()

	if err := s.stores.Save(ctx, store); err != nil {
		return nil, wrap("update store", err)
	}
	return store, nil
}

// SetActive toggles public visibility; deleting a store deactivates it
func (s *StoreService) SetActive(ctx context.Context, merchantID uint, storeID string, active bool) (*model.Store, error) {
	store, err := s.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}

	store.IsActive = active
	store.UpdatedAt = s.now()
	if err := s.stores.Save(ctx, store); err != nil {
		return nil, wrap("update store", err)
	}

	s.log.Info("Store visibility changed",
		zap.String("store_id", store.ID.Hex()),
		zap.Bool("active", active))
	return store, nil
}

func (s *StoreService) List(ctx context.Context, q domain.StoreQuery) ([]model.Store, int64, error) {
	return s.stores.List(ctx, q)
}

// Moderate sets the admin approval and suspension flags
func (s *StoreService) Moderate(ctx context.Context, storeID string, approved, suspended *bool) (*model.Store, error) {
	id, err := parseID("storeId", storeID)
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if approved != nil {
		v := *approved
		store.AdminApproved = &v
	}
	if suspended != nil {
		store.IsSuspended = *suspended
	}
	store.UpdatedAt = s.now()

	if err := s.stores.Save(ctx, store); err != nil {
		return nil, wrap("moderate store", err)
	}
	return store, nil
}
