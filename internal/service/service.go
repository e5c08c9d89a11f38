package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Clock returns the current time; tests replace it
type Clock func() time.Time

// parseID converts a hex id, reporting field on failure
func parseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, domain.Invalid(field, "must be a valid id")
	}
	return id, nil
}

// publish sends event and logs instead of failing the caller
func publish(ctx context.Context, log *zap.Logger, events domain.PublisherPort, event domain.Event) {
	if events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := events.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("key", event.Key),
			zap.Error(err))
	}
}

// AuditEntry describes one audited action
type AuditEntry struct {
	MerchantID uint
	ActorID    uint
	Action     string
	Resource   string
	ResourceID string
	Details    interface{}
	IPAddress  string
}

// recordAudit writes entry and logs instead of failing the caller
func recordAudit(ctx context.Context, log *zap.Logger, audit domain.AuditRepository, entry AuditEntry) {
	if audit == nil {
		return
	}

	details := ""
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err == nil {
			details = string(raw)
		}
	}

	err := audit.Record(ctx, &model.AuditLog{
		MerchantID: entry.MerchantID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    details,
		IPAddress:  entry.IPAddress,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		log.Warn("Failed to record audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

// Pagination is the page/limit envelope used by paged listings
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination normalizes page and limit and computes the derived fields
func NewPagination(page, limit, defaultLimit, maxLimit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Window returns the offset/limit for the pagination
func (p Pagination) Window() domain.Page {
	return domain.Page{Limit: p.Limit, Offset: (p.Page - 1) * p.Limit}
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
