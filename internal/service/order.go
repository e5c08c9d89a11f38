package service

import (
	"context"
	"errors"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.uber.org/zap"
)

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 100
)

type OrderListQuery struct {
	Status  string `query:"status" validate:"omitempty,oneof=pending confirmed preparing ready out_for_delivery delivered cancelled refunded"`
	StoreID string `query:"storeId" validate:"omitempty,objectid"`
	Page    int    `query:"page" validate:"omitempty,min=1"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type OrderPage struct {
	Orders     []model.Order `json:"orders"`
	Pagination Pagination    `json:"pagination"`
}

type StatusUpdateInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready out_for_delivery delivered cancelled refunded"`
	Note   string `json:"note" validate:"max=500"`
}

// Actor identifies the caller of an order operation
type Actor struct {
	MerchantID uint
	Admin      bool
}

type OrderService struct {
	orders  domain.OrderRepository
	events  domain.PublisherPort
	audit   domain.AuditRepository
	numbers func(now time.Time) string
	log     *zap.Logger
	now     Clock
}

func NewOrderService(orders domain.OrderRepository, events domain.PublisherPort, audit domain.AuditRepository, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		events:  events,
		audit:   audit,
		numbers: NewOrderNumberGenerator(),
		log:     log,
		now:     time.Now,
	}
}

// List returns the actor's orders; administrators see every merchant's
func (s *OrderService) List(ctx context.Context, actor Actor, q OrderListQuery) (*OrderPage, error) {
	query := domain.OrderQuery{Status: q.Status}
	if !actor.Admin {
		query.MerchantID = &actor.MerchantID
	}
	if q.StoreID != "" {
		id, err := parseID("storeId", q.StoreID)
		if err != nil {
			return nil, err
		}
		query.StoreID = &id
	}

	pagination := NewPagination(q.Page, q.Limit, defaultOrderLimit, maxOrderLimit, 0)
	query.Page = pagination.Window()

	orders, total, err := s.orders.List(ctx, query)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	return &OrderPage{
		Orders:     orders,
		Pagination: NewPagination(pagination.Page, pagination.Limit, defaultOrderLimit, maxOrderLimit, total),
	}, nil
}

func (s *OrderService) Get(ctx context.Context, actor Actor, orderID string) (*model.Order, error) {
	id, err := parseID("orderId", orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && order.MerchantID != actor.MerchantID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) Analytics(ctx context.Context, merchantID uint) (*domain.OrderStats, error) {
	stats, err := s.orders.Stats(ctx, merchantID)
	if err != nil {
		return nil, wrap("order stats", err)
	}
	return stats, nil
}

// UpdateStatus applies a lifecycle transition. A concurrent change between read and write yields ErrConflict.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID string, in StatusUpdateInput) (*model.Order, error) {
	order, err := s.Get(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if err := domain.OrderTransitions.Check(order.Status, in.Status); err != nil {
		return nil, err
	}

	from := order.Status
	updated, err := s.orders.UpdateStatus(ctx, order.ID, from, model.OrderStatusChange{
		Status:    in.Status,
		Note:      in.Note,
		ChangedBy: actor.MerchantID,
		ChangedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, wrap("update order status", err)
	}

	prometheus.RecordOrderTransition(in.Status)
	publish(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventOrderStatusChanged,
		Key:        updated.ID.Hex(),
		MerchantID: updated.MerchantID,
		Payload: map[string]string{
			"orderNumber": updated.OrderNumber,
			"from":        from,
			"to":          in.Status,
		},
	})
	if actor.Admin {
		recordAudit(ctx, s.log, s.audit, AuditEntry{
			MerchantID: updated.MerchantID,
			ActorID:    actor.MerchantID,
			Action:     "order.status",
			Resource:   "order",
			ResourceID: updated.ID.Hex(),
			Details:    map[string]string{"from": from, "to": in.Status, "note": in.Note},
		})
	}

	s.log.Info("Order status updated",
		zap.String("order_id", updated.ID.Hex()),
		zap.String("from", from),
		zap.String("to", in.Status))
	return updated, nil
}

// Create stamps an order number and the initial pending status
func (s *OrderService) Create(ctx context.Context, order *model.Order) error {
	now := s.now()
	if order.OrderNumber == "" {
		order.OrderNumber = s.numbers(now)
	}
	if order.Status == "" {
		order.Status = model.OrderPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = "pending"
	}
	if order.Pricing.Currency == "" {
		order.Pricing.Currency = "INR"
	}
	order.StatusHistory = append(order.StatusHistory, model.OrderStatusChange{Status: order.Status, ChangedAt: now})
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orders.Create(ctx, order); err != nil {
		return wrap("create order", err)
	}
	return nil
}
