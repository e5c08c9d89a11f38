package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrderHandler serves orders for merchants and, unscoped, for admins
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles the order listing; admins see every merchant
func (h *OrderHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	var q service.OrderListQuery
	if err := bind(c, &q); err != nil {
		return fail(c, err)
	}
	log.Info("Listing orders",
		zap.String("status", q.Status),
		zap.String("store_id", q.StoreID),
		zap.Bool("admin", actor(c).Admin))

	page, err := h.orders.List(c.Request().Context(), actor(c), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// Get handles retrieving a single order by ID
func (h *OrderHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Getting order by ID", zap.String("order_id", id))

	order, err := h.orders.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, order)
}

func (h *OrderHandler) Analytics(c echo.Context) error {
	stats, err := h.orders.Analytics(c.Request().Context(), merchantID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, stats)
}

// UpdateStatus handles moving an order along its status table
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	var req service.StatusUpdateInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating order status", zap.String("order_id", id), zap.String("status", req.Status))

	order, err := h.orders.UpdateStatus(c.Request().Context(), actor(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Order status updated", order)
}
