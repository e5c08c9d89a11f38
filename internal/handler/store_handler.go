package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StoreHandler serves the merchant's own stores
type StoreHandler struct {
	stores *service.StoreService
}

func NewStoreHandler(stores *service.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// List handles retrieving every store of the calling merchant
func (h *StoreHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing merchant stores", zap.Uint("merchant_id", merchantID(c)))

	stores, err := h.stores.ListOwn(c.Request().Context(), merchantID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, stores)
}

// Create handles opening a new store
func (h *StoreHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.CreateStoreInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	store, err := h.stores.Create(c.Request().Context(), merchantID(c), req)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Store created successfully",
		zap.String("store_id", store.ID.Hex()),
		zap.String("name", store.Name))
	return okMessage(c, http.StatusCreated, "Store created successfully", store)
}

// Get handles retrieving one owned store
func (h *StoreHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("storeId")
	log.Info("Getting store by ID", zap.String("store_id", id))

	store, err := h.stores.OwnedHex(c.Request().Context(), id, merchantID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, store)
}

// Update handles partial updates of an owned store
func (h *StoreHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("storeId")
	var req service.UpdateStoreInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating store", zap.String("store_id", id))

	store, err := h.stores.Update(c.Request().Context(), merchantID(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Store updated successfully", store)
}

// Delete deactivates the store; its documents are kept
func (h *StoreHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("storeId")
	log.Info("Deleting store", zap.String("store_id", id))

	if _, err := h.stores.SetActive(c.Request().Context(), merchantID(c), id, false); err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Store deleted successfully", nil)
}

// Activate handles reopening a store
func (h *StoreHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

// Deactivate handles closing a store to the public
func (h *StoreHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *StoreHandler) setActive(c echo.Context, active bool) error {
	log := logger.FromEcho(c)
	id := c.Param("storeId")
	log.Info("Changing store status", zap.String("store_id", id), zap.Bool("active", active))

	store, err := h.stores.SetActive(c.Request().Context(), merchantID(c), id, active)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, store)
}
