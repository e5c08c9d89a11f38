package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"gorm.io/gorm"
)

// MerchantRepository stores merchant accounts in Postgres
type MerchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func gormNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

func (r *MerchantRepository) Create(ctx context.Context, merchant *model.Merchant) error {
	defer prometheus.TrackDBOperation("merchant_insert")(time.Now())

	err := r.db.WithContext(ctx).Create(merchant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("email %s: %w", merchant.Email, domain.ErrConflict)
	}
	return err
}

func (r *MerchantRepository) GetByID(ctx context.Context, id uint) (*model.Merchant, error) {
	defer prometheus.TrackDBOperation("merchant_get")(time.Now())

	var merchant model.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		return nil, gormNotFound(err, "merchant")
	}
	return &merchant, nil
}

func (r *MerchantRepository) GetByEmail(ctx context.Context, email string) (*model.Merchant, error) {
	defer prometheus.TrackDBOperation("merchant_get")(time.Now())

	var merchant model.Merchant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&merchant).Error; err != nil {
		return nil, gormNotFound(err, "merchant")
	}
	return &merchant, nil
}

func (r *MerchantRepository) List(ctx context.Context, q domain.MerchantQuery) ([]model.Merchant, int64, error) {
	defer prometheus.TrackDBOperation("merchant_list")(time.Now())

	tx := r.db.WithContext(ctx).Model(&model.Merchant{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var merchants []model.Merchant
	if err := paged(tx, q.Page).Order("created_at DESC").Find(&merchants).Error; err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}

func (r *MerchantRepository) Save(ctx context.Context, merchant *model.Merchant) error {
	defer prometheus.TrackDBOperation("merchant_update")(time.Now())
	return r.db.WithContext(ctx).Save(merchant).Error
}

func paged(tx *gorm.DB, page domain.Page) *gorm.DB {
	if page.Limit > 0 {
		tx = tx.Limit(page.Limit)
	}
	if page.Offset > 0 {
		tx = tx.Offset(page.Offset)
	}
	return tx
}

// AuditRepository stores the append-only audit trail in Postgres
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	defer prometheus.TrackDBOperation("audit_insert")(time.Now())

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) List(ctx context.Context, q domain.AuditQuery) ([]model.AuditLog, int64, error) {
	defer prometheus.TrackDBOperation("audit_list")(time.Now())

	tx := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if q.MerchantID != nil {
		tx = tx.Where("merchant_id = ?", *q.MerchantID)
	}
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AuditLog
	if err := paged(tx, q.Page).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
