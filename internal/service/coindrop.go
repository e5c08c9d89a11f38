package service

import (
	"context"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.uber.org/zap"
)

type CoinDropInput struct {
	Title           string    `json:"title" validate:"required,max=120"`
	ProductID       string    `json:"productId" validate:"omitempty,objectid"`
	Multiplier      float64   `json:"multiplier" validate:"required,gte=1,lte=10"`
	NormalCashback  float64   `json:"normalCashback" validate:"gte=0,lte=100"`
	BoostedCashback float64   `json:"boostedCashback" validate:"gte=0,lte=100,gtefield=NormalCashback"`
	StartTime       time.Time `json:"startTime" validate:"required"`
	EndTime         time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Region          string    `json:"region" validate:"omitempty,max=40"`
	IsActive        *bool     `json:"isActive"`
}

type CoinDropStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Scheduled int `json:"scheduled"`
	Expired   int `json:"expired"`
	Inactive  int `json:"inactive"`
}

type CoinDropService struct {
	stores *StoreService
	drops  domain.CoinDropRepository
	log    *zap.Logger
	now    Clock
}

func NewCoinDropService(stores *StoreService, drops domain.CoinDropRepository, log *zap.Logger) *CoinDropService {
	return &CoinDropService{stores: stores, drops: drops, log: log, now: time.Now}
}

func (s *CoinDropService) List(ctx context.Context, merchantID uint, storeID string) ([]model.CoinDrop, error) {
	store, err := s.stores.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}
	drops, err := s.drops.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, wrap("list coin drops", err)
	}
	return drops, nil
}

func (in CoinDropInput) apply(drop *model.CoinDrop) error {
	drop.Title = in.Title
	drop.Multiplier = in.Multiplier
	drop.NormalCashback = in.NormalCashback
	drop.BoostedCashback = in.BoostedCashback
	drop.StartTime = in.StartTime
	drop.EndTime = in.EndTime
	drop.Region = in.Region
	drop.ProductID = nil
	if in.ProductID != "" {
		id, err := parseID("productId", in.ProductID)
		if err != nil {
			return err
		}
		drop.ProductID = &id
	}
	if in.IsActive != nil {
		drop.IsActive = *in.IsActive
	}
	return nil
}

func (s *CoinDropService) Create(ctx context.Context, merchantID uint, storeID string, in CoinDropInput) (*model.CoinDrop, error) {
	store, err := s.stores.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	drop := &model.CoinDrop{StoreID: store.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(drop); err != nil {
		return nil, err
	}
	if drop.Region == "" {
		drop.Region = store.Region
	}

	if err := s.drops.Create(ctx, drop); err != nil {
		return nil, wrap("create coin drop", err)
	}
	s.log.Info("Coin drop created",
		zap.String("store_id", store.ID.Hex()),
		zap.String("coin_drop_id", drop.ID.Hex()),
		zap.Float64("multiplier", drop.Multiplier))
	return drop, nil
}

func (s *CoinDropService) owned(ctx context.Context, merchantID uint, storeID, dropID string) (*model.CoinDrop, error) {
	store, err := s.stores.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}
	id, err := parseID("dropId", dropID)
	if err != nil {
		return nil, err
	}
	drop, err := s.drops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drop.StoreID != store.ID {
		return nil, domain.ErrNotFound
	}
	return drop, nil
}

func (s *CoinDropService) Update(ctx context.Context, merchantID uint, storeID, dropID string, in CoinDropInput) (*model.CoinDrop, error) {
	drop, err := s.owned(ctx, merchantID, storeID, dropID)
	if err != nil {
		return nil, err
	}
	if err := in.apply(drop); err != nil {
		return nil, err
	}
	drop.UpdatedAt = s.now()

	if err := s.drops.Save(ctx, drop); err != nil {
		return nil, wrap("update coin drop", err)
	}
	s.log.Info("Coin drop updated", zap.String("coin_drop_id", drop.ID.Hex()))
	return drop, nil
}

func (s *CoinDropService) Delete(ctx context.Context, merchantID uint, storeID, dropID string) error {
	drop, err := s.owned(ctx, merchantID, storeID, dropID)
	if err != nil {
		return err
	}
	if err := s.drops.Delete(ctx, drop.ID); err != nil {
		return wrap("delete coin drop", err)
	}
	s.log.Info("Coin drop deleted", zap.String("coin_drop_id", drop.ID.Hex()))
	return nil
}

// Stats counts the store's coin drops by phase
func (s *CoinDropService) Stats(ctx context.Context, merchantID uint, storeID string) (*CoinDropStats, error) {
	drops, err := s.List(ctx, merchantID, storeID)
	if err != nil {
		return nil, err
	}
	return CountCoinDrops(drops, s.now()), nil
}

func CountCoinDrops(drops []model.CoinDrop, now time.Time) *CoinDropStats {
	stats := &CoinDropStats{Total: len(drops)}
	for i := range drops {
		switch drops[i].Phase(now) {
		case "active":
			stats.Active++
		case "scheduled":
			stats.Scheduled++
		case "expired":
			stats.Expired++
		default:
			stats.Inactive++
		}
	}
	return stats
}
