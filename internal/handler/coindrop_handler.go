package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CoinDropHandler serves a store's cashback multiplier events
type CoinDropHandler struct {
	drops *service.CoinDropService
}

func NewCoinDropHandler(drops *service.CoinDropService) *CoinDropHandler {
	return &CoinDropHandler{drops: drops}
}

// List handles the coin drops of one owned store
func (h *CoinDropHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing coin drops", zap.String("store_id", c.Param("storeId")))

	drops, err := h.drops.List(c.Request().Context(), merchantID(c), c.Param("storeId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, drops)
}

// Create handles scheduling a coin drop
func (h *CoinDropHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.CoinDropInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	drop, err := h.drops.Create(c.Request().Context(), merchantID(c), c.Param("storeId"), req)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Coin drop created successfully",
		zap.String("store_id", c.Param("storeId")),
		zap.String("drop_id", drop.ID.Hex()))
	return okMessage(c, http.StatusCreated, "Coin drop created successfully", drop)
}

// Update handles partial updates of a coin drop
func (h *CoinDropHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.CoinDropInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating coin drop", zap.String("store_id", c.Param("storeId")), zap.String("drop_id", c.Param("dropId")))

	drop, err := h.drops.Update(c.Request().Context(), merchantID(c), c.Param("storeId"), c.Param("dropId"), req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Coin drop updated successfully", drop)
}

// Delete handles removing a coin drop
func (h *CoinDropHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Deleting coin drop", zap.String("store_id", c.Param("storeId")), zap.String("drop_id", c.Param("dropId")))

	if err := h.drops.Delete(c.Request().Context(), merchantID(c), c.Param("storeId"), c.Param("dropId")); err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Coin drop deleted successfully", nil)
}

func (h *CoinDropHandler) Stats(c echo.Context) error {
	stats, err := h.drops.Stats(c.Request().Context(), merchantID(c), c.Param("storeId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, stats)
}
