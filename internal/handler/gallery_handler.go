package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GalleryHandler serves a merchant gallery and, for stores, its public read-only view
type GalleryHandler struct {
	gallery *service.GalleryService
	tempDir string
	param   string
	logKey  string
}

// NewGalleryHandler serves store galleries under /:storeId
func NewGalleryHandler(gallery *service.GalleryService, tempDir string) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, tempDir: tempDir, param: "storeId", logKey: "store_id"}
}

// NewProductGalleryHandler serves product galleries under /:productId
func NewProductGalleryHandler(gallery *service.GalleryService, tempDir string) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, tempDir: tempDir, param: "productId", logKey: "product_id"}
}

func (h *GalleryHandler) owner(c echo.Context) string {
	return c.Param(h.param)
}

func (h *GalleryHandler) ownerField(c echo.Context) zap.Field {
	return zap.String(h.logKey, h.owner(c))
}

type reorderRequest struct {
	Items []service.ReorderEntry `json:"items" validate:"required,min=1,dive"`
}

type bulkDeleteRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,dive,objectid"`
}

// uploadInput reads the non-file multipart fields shared by single and bulk upload
func uploadInput(c echo.Context, values map[string][]string) (service.GalleryUploadInput, error) {
	in := service.GalleryUploadInput{
		Category:    c.FormValue("category"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		VariantID:   strings.TrimSpace(c.FormValue("variantId")),
		Tags:        service.ParseTags(append(values["tags"], values["tags[]"]...)),
	}
	if raw := c.FormValue("isCover"); raw != "" {
		cover, err := strconv.ParseBool(raw)
		if err != nil {
			return in, domain.Invalid("isCover", "must be a boolean")
		}
		in.IsCover = cover
	}
	if raw := c.FormValue("isVisible"); raw != "" {
		visible, err := strconv.ParseBool(raw)
		if err != nil {
			return in, domain.Invalid("isVisible", "must be a boolean")
		}
		in.IsVisible = &visible
	}
	if raw := c.FormValue("order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil || order < 0 {
			return in, domain.Invalid("order", "must be a non-negative integer")
		}
		in.Order = &order
	}
	if len(in.Title) > 200 {
		return in, domain.Invalid("title", "must be at most 200 characters")
	}
	if len(in.Description) > 1000 {
		return in, domain.Invalid("description", "must be at most 1000 characters")
	}
	if len(in.VariantID) > 100 {
		return in, domain.Invalid("variantId", "must be at most 100 characters")
	}
	return in, nil
}

// Upload handles storing a single gallery file
func (h *GalleryHandler) Upload(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Uploading gallery item", h.ownerField(c))

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, domain.Invalid("file", "multipart form is required"))
	}
	files := form.File["file"]
	if len(files) == 0 {
		return fail(c, domain.Invalid("file", "file is required"))
	}
	in, err := uploadInput(c, form.Value)
	if err != nil {
		return fail(c, err)
	}

	file, staged, err := stage(files[0], h.tempDir, log)
	if err != nil {
		return fail(c, err)
	}
	defer staged.Remove()

	item, err := h.gallery.Upload(c.Request().Context(), merchantID(c), h.owner(c), file, in)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusCreated, "Gallery item uploaded successfully", item)
}

// BulkUpload handles storing up to 20 files, reporting each one
func (h *GalleryHandler) BulkUpload(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Bulk uploading gallery items", h.ownerField(c))

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, domain.Invalid("files", "multipart form is required"))
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return fail(c, domain.Invalid("files", "at least one file is required"))
	}
	if len(headers) > service.MaxBulkGalleryFiles {
		return fail(c, domain.Invalid("files", fmt.Sprintf("at most %d files per request", service.MaxBulkGalleryFiles)))
	}
	in, err := uploadInput(c, form.Value)
	if err != nil {
		return fail(c, err)
	}

	titles := form.Value["titles"]
	if len(titles) == 0 {
		titles = make([]string, len(headers))
		for i := range headers {
			titles[i] = c.FormValue(fmt.Sprintf("titles[%d]", i))
		}
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, staged, err := stage(fh, h.tempDir, log)
		if err != nil {
			return fail(c, err)
		}
		defer staged.Remove()
		files = append(files, file)
	}

	result, err := h.gallery.BulkUpload(c.Request().Context(), merchantID(c), h.owner(c), files, titles, in)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Bulk gallery upload finished",
		h.ownerField(c),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.FailedN))
	return okMessage(c, http.StatusCreated, fmt.Sprintf("%d of %d files uploaded", result.Successful, result.Total), result)
}

// List handles the merchant gallery listing, hidden items included
func (h *GalleryHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	var q service.GalleryListQuery
	if err := bind(c, &q); err != nil {
		return fail(c, err)
	}
	log.Info("Listing gallery items", h.ownerField(c), zap.String("category", q.Category))

	page, err := h.gallery.List(c.Request().Context(), merchantID(c), h.owner(c), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// Categories handles the per-category counts and cover previews
func (h *GalleryHandler) Categories(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing gallery categories", h.ownerField(c))

	categories, err := h.gallery.Categories(c.Request().Context(), merchantID(c), h.owner(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, categories)
}

// Get handles retrieving one gallery item
func (h *GalleryHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Getting gallery item", h.ownerField(c), zap.String("item_id", c.Param("itemId")))

	item, err := h.gallery.Get(c.Request().Context(), merchantID(c), h.owner(c), c.Param("itemId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, item)
}

// Update handles partial updates of a gallery item
func (h *GalleryHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	var req service.GalleryUpdateInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	log.Info("Updating gallery item", h.ownerField(c), zap.String("item_id", c.Param("itemId")))

	item, err := h.gallery.Update(c.Request().Context(), merchantID(c), h.owner(c), c.Param("itemId"), req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Gallery item updated successfully", item)
}

// Reorder handles setting the display order of several items
func (h *GalleryHandler) Reorder(c echo.Context) error {
	log := logger.FromEcho(c)
	var req reorderRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	updated, err := h.gallery.Reorder(c.Request().Context(), merchantID(c), h.owner(c), req.Items)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Gallery reordered", h.ownerField(c), zap.Int("requested", len(req.Items)), zap.Int("updated", updated))
	return okMessage(c, http.StatusOK, "Gallery reordered successfully", echo.Map{"updated": updated})
}

// SetCover handles making one item the cover
func (h *GalleryHandler) SetCover(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Setting gallery cover", h.ownerField(c), zap.String("item_id", c.Param("itemId")))

	item, err := h.gallery.SetCover(c.Request().Context(), merchantID(c), h.owner(c), c.Param("itemId"))
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Cover image updated successfully", item)
}

// Delete handles soft-deleting one item and its hosted media
func (h *GalleryHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Deleting gallery item", h.ownerField(c), zap.String("item_id", c.Param("itemId")))

	if err := h.gallery.Delete(c.Request().Context(), merchantID(c), h.owner(c), c.Param("itemId")); err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Gallery item deleted successfully", nil)
}

// BulkDelete handles soft-deleting several items at once
func (h *GalleryHandler) BulkDelete(c echo.Context) error {
	log := logger.FromEcho(c)
	var req bulkDeleteRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	deleted, err := h.gallery.BulkDelete(c.Request().Context(), merchantID(c), h.owner(c), req.ItemIDs)
	if err != nil {
		return fail(c, err)
	}
	log.Info("Gallery items deleted", h.ownerField(c), zap.Int("requested", len(req.ItemIDs)), zap.Int64("deleted", deleted))
	return okMessage(c, http.StatusOK, fmt.Sprintf("%d items deleted", deleted), echo.Map{"deleted": deleted})
}

// PublicList handles visible items of an active store
func (h *GalleryHandler) PublicList(c echo.Context) error {
	var q service.GalleryListQuery
	if err := bind(c, &q); err != nil {
		return fail(c, err)
	}
	q.Category = strings.TrimSpace(q.Category)
	page, err := h.gallery.PublicList(c.Request().Context(), h.owner(c), q)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, page)
}

func (h *GalleryHandler) PublicCategories(c echo.Context) error {
	categories, err := h.gallery.PublicCategories(c.Request().Context(), h.owner(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, categories)
}

func (h *GalleryHandler) PublicGet(c echo.Context) error {
	item, err := h.gallery.PublicGet(c.Request().Context(), h.owner(c), c.Param("itemId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, item)
}
