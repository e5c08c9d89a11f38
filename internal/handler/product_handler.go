package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandler serves merchant product CRUD
type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles retrieving the merchant's products with optional filtering
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	var q service.ProductListQuery
	if err := bind(c, &q); err != nil {
		return fail(c, err)
	}
	log.Info("Listing products", zap.String("store_id", q.StoreID), zap.String("status", q.Status))

	page, err := h.products.List(c.Request().Context(), merchantID(c), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// Get handles retrieving a single product by ID
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("productId")
	log.Info("Getting product by ID", zap.String("product_id", id))

	product, err := h.products.Get(c.Request().Context(), merchantID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, product)
}

// Create handles creating a new product in an owned store
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.ProductInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	product, err := h.products.Create(c.Request().Context(), merchantID(c), req)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Product created successfully",
		zap.String("product_id", product.ID.Hex()),
		zap.String("sku", product.SKU))
	return okMessage(c, http.StatusCreated, "Product created successfully", product)
}

// Update handles partial updates of a product
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("productId")
	var req service.ProductUpdateInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating product", zap.String("product_id", id))

	product, err := h.products.Update(c.Request().Context(), merchantID(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Product updated successfully", product)
}

// Delete handles soft-deleting a product
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("productId")
	log.Info("Deleting product", zap.String("product_id", id))

	if err := h.products.Delete(c.Request().Context(), merchantID(c), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Product deleted successfully", nil)
}
