package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.uber.org/zap"
)

const (
	defaultProductLimit      = 20
	maxProductLimit          = 100
	defaultLowStockThreshold = 5
	defaultCurrency          = "INR"
)

type ProductInput struct {
	StoreID           string   `json:"storeId" validate:"required,objectid"`
	Name              string   `json:"name" validate:"required,min=2,max=200"`
	Description       string   `json:"description" validate:"required,min=10"`
	ShortDescription  string   `json:"shortDescription" validate:"max=300"`
	SKU               string   `json:"sku" validate:"max=64"`
	Barcode           string   `json:"barcode"`
	Brand             string   `json:"brand"`
	Category          string   `json:"category" validate:"required,objectid"`
	Subcategory       string   `json:"subcategory"`
	Price             float64  `json:"price" validate:"gte=0"`
	CompareAtPrice    float64  `json:"compareAtPrice" validate:"gte=0"`
	CostPrice         float64  `json:"costPrice" validate:"gte=0"`
	Stock             int      `json:"stock" validate:"gte=0"`
	LowStockThreshold *int     `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Images            []string `json:"images" validate:"omitempty,dive,url"`
	Tags              []string `json:"tags"`
	Weight            float64  `json:"weight" validate:"gte=0"`
	Status            string   `json:"status" validate:"omitempty,oneof=active inactive draft archived"`
	IsFeatured        bool     `json:"isFeatured"`
}

type ProductUpdateInput struct {
	Name              *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description       *string  `json:"description" validate:"omitempty,min=10"`
	ShortDescription  *string  `json:"shortDescription" validate:"omitempty,max=300"`
	Brand             *string  `json:"brand"`
	Price             *float64 `json:"price" validate:"omitempty,gte=0"`
	CompareAtPrice    *float64 `json:"compareAtPrice" validate:"omitempty,gte=0"`
	CostPrice         *float64 `json:"costPrice" validate:"omitempty,gte=0"`
	Stock             *int     `json:"stock" validate:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Images            []string `json:"images" validate:"omitempty,dive,url"`
	Tags              []string `json:"tags"`
	Status            *string  `json:"status" validate:"omitempty,oneof=active inactive draft archived"`
	IsFeatured        *bool    `json:"isFeatured"`
}

type ProductListQuery struct {
	StoreID string `query:"storeId" validate:"omitempty,objectid"`
	Status  string `query:"status" validate:"omitempty,oneof=active inactive draft archived"`
	Search  string `query:"search"`
	Page    int    `query:"page" validate:"omitempty,min=1"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type ProductPage struct {
	Products   []model.Product `json:"products"`
	Pagination Pagination      `json:"pagination"`
}

// BuildPricing derives selling/original/discount from a price and an optional compare-at price
func BuildPricing(price, compareAt, cost float64) model.ProductPricing {
	original := price
	if compareAt > price {
		original = compareAt
	}
	discount := 0.0
	if original > 0 {
		discount = math.Round((original - price) / original * 100)
	}
	return model.ProductPricing{
		Original: original,
		Selling:  price,
		Cost:     cost,
		Discount: discount,
		Currency: defaultCurrency,
	}
}

func inventory(stock int, threshold *int) model.ProductInventory {
	low := defaultLowStockThreshold
	if threshold != nil {
		low = *threshold
	}
	return model.ProductInventory{Stock: stock, IsAvailable: stock > 0, LowStockThreshold: low}
}

type ProductService struct {
	stores   *StoreService
	products domain.ProductRepository
	skus     func(name string) string
	log      *zap.Logger
	now      Clock
}

func NewProductService(stores *StoreService, products domain.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{stores: stores, products: products, skus: NewSKUGenerator(), log: log, now: time.Now}
}

// owned loads a live product and checks ownership through its store
func (s *ProductService) owned(ctx context.Context, merchantID uint, productID string) (*model.Product, error) {
	product, _, err := s.OwnedWithStore(ctx, merchantID, productID)
	return product, err
}

// OwnedWithStore is owned, also returning the product's store
func (s *ProductService) OwnedWithStore(ctx context.Context, merchantID uint, productID string) (*model.Product, *model.Store, error) {
	id, err := parseID("productId", productID)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	store, err := s.stores.Owned(ctx, product.Store, merchantID)
	if err != nil {
		return nil, nil, err
	}
	return product, store, nil
}

func (s *ProductService) List(ctx context.Context, merchantID uint, q ProductListQuery) (*ProductPage, error) {
	query := domain.ProductQuery{MerchantID: &merchantID, Status: q.Status, Search: strings.TrimSpace(q.Search)}
	if q.StoreID != "" {
		store, err := s.stores.OwnedHex(ctx, q.StoreID, merchantID)
		if err != nil {
			return nil, err
		}
		query.StoreID = &store.ID
	}

	window := NewPagination(q.Page, q.Limit, defaultProductLimit, maxProductLimit, 0)
	query.Page = window.Window()
	products, total, err := s.products.List(ctx, query)
	if err != nil {
		return nil, wrap("list products", err)
	}
	return &ProductPage{
		Products:   products,
		Pagination: NewPagination(window.Page, window.Limit, defaultProductLimit, maxProductLimit, total),
	}, nil
}

func (s *ProductService) Get(ctx context.Context, merchantID uint, productID string) (*model.Product, error) {
	return s.owned(ctx, merchantID, productID)
}

func (s *ProductService) Create(ctx context.Context, merchantID uint, in ProductInput) (*model.Product, error) {
	store, err := s.stores.OwnedHex(ctx, in.StoreID, merchantID)
	if err != nil {
		return nil, err
	}
	category, err := parseID("category", in.Category)
	if err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" {
		sku = s.skus(in.Name)
	}
	status := in.Status
	if status == "" {
		status = model.ProductStatusActive
	}

	now := s.now()
	product := &model.Product{
		Name:             strings.TrimSpace(in.Name),
		Slug:             Slugify(in.Name),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		SKU:              sku,
		Barcode:          in.Barcode,
		Brand:            in.Brand,
		Store:            store.ID,
		MerchantID:       merchantID,
		Category:         category,
		Subcategory:      in.Subcategory,
		Images:           in.Images,
		Tags:             in.Tags,
		Pricing:          BuildPricing(in.Price, in.CompareAtPrice, in.CostPrice),
		Inventory:        inventory(in.Stock, in.LowStockThreshold),
		Cashback:         model.ProductCashback{Percentage: store.CashbackPercent()},
		Weight:           in.Weight,
		Status:           status,
		Visibility:       "public",
		IsFeatured:       in.IsFeatured,
		IsActive:         status == model.ProductStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, wrap("create product", err)
	}

	s.log.Info("Product created successfully",
		zap.String("product_id", product.ID.Hex()),
		zap.String("sku", product.SKU),
		zap.String("store_id", store.ID.Hex()))
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, merchantID uint, productID string, in ProductUpdateInput) (*model.Product, error) {
	product, err := s.owned(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
		product.Slug = Slugify(product.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ShortDescription != nil {
		product.ShortDescription = *in.ShortDescription
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Price != nil || in.CompareAtPrice != nil || in.CostPrice != nil {
		price, compareAt, cost := product.Pricing.Selling, product.Pricing.Original, product.Pricing.Cost
		if in.Price != nil {
			price = *in.Price
		}
		if in.CompareAtPrice != nil {
			compareAt = *in.CompareAtPrice
		}
		if in.CostPrice != nil {
			cost = *in.CostPrice
		}
		product.Pricing = BuildPricing(price, compareAt, cost)
	}
	if in.Stock != nil {
		product.Inventory.Stock = *in.Stock
		product.Inventory.IsAvailable = *in.Stock > 0 || product.Inventory.Unlimited
	}
	if in.LowStockThreshold != nil {
		product.Inventory.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Images != nil {
		product.Images = in.Images
	}
	if in.Tags != nil {
		product.Tags = in.Tags
	}
	if in.Status != nil {
		product.Status = *in.Status
		product.IsActive = product.Status == model.ProductStatusActive
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	product.UpdatedAt = s.now()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, wrap("update product", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, merchantID uint, productID string) error {
	product, err := s.owned(ctx, merchantID, productID)
	if err != nil {
		return err
	}
	if err := s.products.SoftDelete(ctx, product.ID, s.now()); err != nil {
		return wrap("delete product", err)
	}

	s.log.Info("Product deleted", zap.String("product_id", product.ID.Hex()))
	return nil
}
