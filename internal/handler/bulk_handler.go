package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BulkHandler serves product import, export and the import template
type BulkHandler struct {
	bulk *service.BulkService
}

func NewBulkHandler(bulk *service.BulkService) *BulkHandler {
	return &BulkHandler{bulk: bulk}
}

func formatParam(c echo.Context) string {
	if format := c.QueryParam("format"); format != "" {
		return format
	}
	return service.FormatCSV
}

func sendFile(c echo.Context, file *service.ExportFile) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(file.Data)))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// Template returns an empty import sheet with an example row
func (h *BulkHandler) Template(c echo.Context) error {
	file, err := service.Template(formatParam(c))
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, file)
}

// Validate parses and checks an import file without writing anything
func (h *BulkHandler) Validate(c echo.Context) error {
	return h.runImport(c, true)
}

// Import handles writing a product file into an owned store
func (h *BulkHandler) Import(c echo.Context) error {
	return h.runImport(c, false)
}

func (h *BulkHandler) runImport(c echo.Context, validateOnly bool) error {
	log := logger.FromEcho(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, domain.Invalid("file", "file is required"))
	}
	storeID := c.FormValue("storeId")
	if storeID == "" {
		return fail(c, domain.Invalid("storeId", "storeId is required"))
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, fmt.Errorf("open import file: %w", err))
	}
	defer src.Close()

	report, err := h.bulk.Import(c.Request().Context(), merchantID(c), service.ImportRequest{
		StoreID:      storeID,
		Filename:     fh.Filename,
		Body:         src,
		ValidateOnly: validateOnly,
		IPAddress:    c.RealIP(),
	})
	if err != nil {
		return fail(c, err)
	}

	log.Info("Product import processed",
		zap.String("store_id", storeID),
		zap.Bool("validate_only", validateOnly),
		zap.Int("total", report.Total),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed))

	message := fmt.Sprintf("%d of %d products imported", report.Successful, report.Total)
	if validateOnly {
		message = fmt.Sprintf("%d of %d rows valid", report.Total-report.Failed, report.Total)
	}
	return okMessage(c, http.StatusOK, message, report)
}

// Export downloads the store's products in the template columns
func (h *BulkHandler) Export(c echo.Context) error {
	storeID := c.QueryParam("storeId")
	if storeID == "" {
		return fail(c, domain.Invalid("storeId", "storeId is required"))
	}
	file, err := h.bulk.Export(c.Request().Context(), merchantID(c), storeID, formatParam(c))
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, file)
}
