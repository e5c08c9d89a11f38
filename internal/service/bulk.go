package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	RowSuccess = "success"
	RowWarning = "warning"
	RowError   = "error"

	msgBatchAborted = "not imported: batch aborted"
)

type ImportRow struct {
	RowNumber int                 `json:"rowNumber"`
	Status    string              `json:"status"`
	ProductID string              `json:"productId,omitempty"`
	SKU       string              `json:"sku"`
	Action    string              `json:"action,omitempty"`
	Errors    []domain.FieldError `json:"errors"`
	Warnings  []string            `json:"warnings"`

	product *model.Product
}

func (r *ImportRow) fail(field, message string, value interface{}) {
	r.Errors = append(r.Errors, domain.FieldError{Field: field, Message: message, Value: value})
}

type ImportReport struct {
	Total        int         `json:"total"`
	Successful   int         `json:"successful"`
	Failed       int         `json:"failed"`
	Warnings     int         `json:"warnings"`
	Rows         []ImportRow `json:"rows"`
	DurationMs   int64       `json:"durationMs"`
	ValidateOnly bool        `json:"validateOnly"`
}

type ImportRequest struct {
	StoreID      string
	Filename     string
	Body         io.Reader
	ValidateOnly bool
	IPAddress    string
}

type BulkService struct {
	stores     *StoreService
	products   domain.ProductRepository
	categories domain.CategoryRepository
	tx         domain.Transactor
	audit      domain.AuditRepository
	events     domain.PublisherPort
	skus       func(name string) string
	maxRows    int
	batchSize  int
	log        *zap.Logger
	now        Clock
}

func NewBulkService(stores *StoreService, products domain.ProductRepository, categories domain.CategoryRepository,
	tx domain.Transactor, audit domain.AuditRepository, events domain.PublisherPort,
	maxRows, batchSize int, log *zap.Logger) *BulkService {
	if maxRows <= 0 {
		maxRows = 1000
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &BulkService{
		stores:     stores,
		products:   products,
		categories: categories,
		tx:         tx,
		audit:      audit,
		events:     events,
		skus:       NewSKUGenerator(),
		maxRows:    maxRows,
		batchSize:  batchSize,
		log:        log,
		now:        time.Now,
	}
}

// categoryIndex resolves a category by id or by case-insensitive name
type categoryIndex struct {
	byID   map[primitive.ObjectID]model.Category
	byName map[string]model.Category
}

func (s *BulkService) loadCategories(ctx context.Context) (*categoryIndex, error) {
	categories, err := s.categories.ListActive(ctx, 0)
	if err != nil {
		return nil, err
	}
	idx := &categoryIndex{
		byID:   make(map[primitive.ObjectID]model.Category, len(categories)),
		byName: make(map[string]model.Category, len(categories)),
	}
	for _, c := range categories {
		idx.byID[c.ID] = c
		idx.byName[strings.ToLower(strings.TrimSpace(c.Name))] = c
	}
	return idx, nil
}

func (idx *categoryIndex) resolve(value string) (model.Category, bool) {
	if id, err := primitive.ObjectIDFromHex(value); err == nil {
		c, ok := idx.byID[id]
		return c, ok
	}
	c, ok := idx.byName[strings.ToLower(value)]
	return c, ok
}

func (idx *categoryIndex) name(id primitive.ObjectID) string {
	if c, ok := idx.byID[id]; ok {
		return c.Name
	}
	return id.Hex()
}

func parseNonNegative(row *ImportRow, values map[string]string, field string, required bool) float64 {
	raw := values[field]
	if raw == "" {
		if required {
			row.fail(field, "is required", nil)
		}
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		row.fail(field, "must be a number greater than or equal to 0", raw)
		return 0
	}
	return v
}

func parseCount(row *ImportRow, values map[string]string, field string, required bool) (int, bool) {
	raw := values[field]
	if raw == "" {
		if required {
			row.fail(field, "is required", nil)
		}
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		row.fail(field, "must be a whole number greater than or equal to 0", raw)
		return 0, false
	}
	return v, true
}

func splitList(raw string, lower bool) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if lower {
			part = strings.ToLower(part)
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validImageURLs(raw string) []string {
	urls := make([]string, 0)
	for _, candidate := range splitList(raw, false) {
		u, err := url.ParseRequestURI(candidate)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			urls = append(urls, candidate)
		}
	}
	return urls
}

func isTruthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// validateRow checks one data row and builds the product it would write
func (s *BulkService) validateRow(number int, values map[string]string, store *model.Store, categories *categoryIndex, now time.Time) ImportRow {
	row := ImportRow{RowNumber: number, Errors: []domain.FieldError{}, Warnings: []string{}}

	name := values["name"]
	if utf8.RuneCountInString(name) < 2 {
		row.fail("name", "must be at least 2 characters", name)
	}
	description := values["description"]
	if utf8.RuneCountInString(description) < 10 {
		row.fail("description", "must be at least 10 characters", description)
	}

	price := parseNonNegative(&row, values, "price", true)
	stock, _ := parseCount(&row, values, "stock", true)
	cost := parseNonNegative(&row, values, "costPrice", false)
	compareAt := parseNonNegative(&row, values, "compareAtPrice", false)
	weight := parseNonNegative(&row, values, "weight", false)
	var threshold *int
	if v, ok := parseCount(&row, values, "lowStockThreshold", false); ok {
		threshold = &v
	}

	status := strings.ToLower(values["status"])
	if status == "" {
		status = model.ProductStatusActive
	} else if !contains(model.ProductStatuses, status) {
		row.fail("status", "must be one of [active inactive draft archived]", values["status"])
	}

	var category model.Category
	if raw := values["category"]; raw == "" {
		row.fail("category", "is required", nil)
	} else if c, ok := categories.resolve(raw); ok {
		category = c
	} else {
		row.fail("category", fmt.Sprintf("category '%s' not found", raw), raw)
	}

	images := validImageURLs(values["images"])
	if values["images"] != "" && len(images) == 0 {
		row.Warnings = append(row.Warnings, "no valid image URLs provided")
	}

	row.SKU = strings.ToUpper(values["sku"])
	if row.SKU == "" && len(name) > 0 {
		row.SKU = s.skus(name)
		row.Warnings = append(row.Warnings, "SKU not provided; generated "+row.SKU)
	}

	if len(row.Errors) > 0 {
		return row
	}

	row.product = &model.Product{
		Name:             strings.TrimSpace(name),
		Slug:             Slugify(name),
		Description:      description,
		ShortDescription: values["shortDescription"],
		SKU:              row.SKU,
		Barcode:          values["barcode"],
		Brand:            values["brand"],
		Store:            store.ID,
		MerchantID:       store.MerchantID,
		Category:         category.ID,
		Subcategory:      values["subcategory"],
		Images:           images,
		Tags:             splitList(values["tags"], true),
		Pricing:          BuildPricing(price, compareAt, cost),
		Inventory:        inventory(stock, threshold),
		Cashback:         model.ProductCashback{Percentage: store.CashbackPercent()},
		Weight:           weight,
		Status:           status,
		Visibility:       "public",
		IsFeatured:       isTruthy(values["isFeatured"]),
		IsActive:         status == model.ProductStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return row
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Import validates every row first and writes nothing unless all rows are valid.
// Valid imports are written in batches inside a single transaction.
func (s *BulkService) Import(ctx context.Context, merchantID uint, req ImportRequest) (*ImportReport, error) {
	start := s.now()

	store, err := s.stores.OwnedHex(ctx, req.StoreID, merchantID)
	if err != nil {
		return nil, err
	}
	format, err := SheetFormat(req.Filename)
	if err != nil {
		return nil, err
	}
	values, err := ReadSheet(req.Body, format)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, domain.Invalid("file", "file is empty or contains no data rows")
	}
	if len(values) > s.maxRows {
		return nil, domain.Invalid("file", fmt.Sprintf("file contains %d rows; at most %d rows are allowed per import", len(values), s.maxRows))
	}

	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, wrap("load categories", err)
	}

	report := &ImportReport{Total: len(values), Rows: make([]ImportRow, 0, len(values)), ValidateOnly: req.ValidateOnly}
	firstSeen := make(map[string]int)
	skus := make([]string, 0, len(values))
	for i, v := range values {
		row := s.validateRow(i+1, v, store, categories, start)
		if row.SKU != "" {
			if prev, dup := firstSeen[row.SKU]; dup {
				row.fail("sku", fmt.Sprintf("duplicate SKU in file; first used on row %d", prev), row.SKU)
				row.product = nil
			} else {
				firstSeen[row.SKU] = row.RowNumber
				skus = append(skus, row.SKU)
			}
		}
		report.Rows = append(report.Rows, row)
	}

	existing, err := s.products.FindBySKUs(ctx, store.ID, skus)
	if err != nil {
		return nil, wrap("look up existing SKUs", err)
	}

	invalid := 0
	for i := range report.Rows {
		row := &report.Rows[i]
		if len(row.Errors) > 0 {
			row.Status = RowError
			invalid++
			continue
		}
		if current, ok := existing[row.SKU]; ok {
			mergeExisting(row.product, &current)
			row.Action = "updated"
			row.Warnings = append(row.Warnings, "updated existing product")
		} else {
			row.Action = "created"
		}
		row.Status = RowSuccess
		if len(row.Warnings) > 0 {
			row.Status = RowWarning
		}
	}

	switch {
	case req.ValidateOnly:
		s.tally(report, invalid)
	case invalid > 0:
		abort(report)
	default:
		if err := s.write(ctx, report); err != nil {
			s.log.Error("Bulk import write failed; transaction aborted",
				zap.String("store_id", store.ID.Hex()),
				zap.Error(err))
			abort(report)
		} else {
			s.tally(report, 0)
		}
	}

	duration := s.now().Sub(start)
	report.DurationMs = duration.Milliseconds()

	if !req.ValidateOnly {
		prometheus.RecordImport(report.Successful, report.Failed, report.Warnings, duration)
		recordAudit(ctx, s.log, s.audit, AuditEntry{
			MerchantID: merchantID,
			ActorID:    merchantID,
			Action:     "products.import",
			Resource:   "store",
			ResourceID: store.ID.Hex(),
			Details:    map[string]interface{}{"filename": req.Filename, "total": report.Total, "successful": report.Successful, "failed": report.Failed},
			IPAddress:  req.IPAddress,
		})
		if report.Successful > 0 {
			publish(ctx, s.log, s.events, domain.Event{
				Type:       domain.EventProductsImported,
				Key:        store.ID.Hex(),
				MerchantID: merchantID,
				Payload:    map[string]int{"total": report.Total, "successful": report.Successful},
			})
		}
	}

	s.log.Info("Bulk import finished",
		zap.String("store_id", store.ID.Hex()),
		zap.Bool("validate_only", req.ValidateOnly),
		zap.Int("total", report.Total),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Int64("duration_ms", report.DurationMs))
	return report, nil
}

// mergeExisting keeps identity and accumulated counters of the stored product
func mergeExisting(next, current *model.Product) {
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.Ratings = current.Ratings
	next.Analytics = current.Analytics
	if len(next.Images) == 0 {
		next.Images = current.Images
	}
}

func (s *BulkService) write(ctx context.Context, report *ImportReport) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for start := 0; start < len(report.Rows); start += s.batchSize {
			end := start + s.batchSize
			if end > len(report.Rows) {
				end = len(report.Rows)
			}

			var creates, updates []*model.Product
			for i := start; i < end; i++ {
				row := &report.Rows[i]
				if row.Action == "updated" {
					updates = append(updates, row.product)
				} else {
					creates = append(creates, row.product)
				}
			}
			if err := s.products.WriteBatch(txCtx, creates, updates); err != nil {
				return fmt.Errorf("batch starting at row %d: %w", start+1, err)
			}
		}
		return nil
	})
}

func (s *BulkService) tally(report *ImportReport, invalid int) {
	report.Failed = invalid
	report.Successful = report.Total - invalid
	for i := range report.Rows {
		row := &report.Rows[i]
		if row.product != nil && !row.product.ID.IsZero() {
			row.ProductID = row.product.ID.Hex()
		}
		if row.Status == RowWarning {
			report.Warnings++
		}
	}
}

// abort marks every row as not imported, keeping the original errors on failing rows
func abort(report *ImportReport) {
	report.Successful = 0
	report.Failed = report.Total
	report.Warnings = 0
	for i := range report.Rows {
		row := &report.Rows[i]
		row.ProductID = ""
		if len(row.Errors) == 0 {
			row.fail("row", msgBatchAborted, nil)
		}
		row.Status = RowError
	}
}

// Export renders the store's live products with the template columns
func (s *BulkService) Export(ctx context.Context, merchantID uint, storeID, format string) (*ExportFile, error) {
	store, err := s.stores.OwnedHex(ctx, storeID, merchantID)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatCSV
	}

	products, err := s.products.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, wrap("list products", err)
	}
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, wrap("load categories", err)
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, exportRow(p, categories))
	}

	file, err := WriteSheet(format, "products-"+store.Slug, rows, false)
	if err != nil {
		return nil, err
	}
	s.log.Info("Products exported",
		zap.String("store_id", store.ID.Hex()),
		zap.String("format", format),
		zap.Int("products", len(products)))
	return file, nil
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func exportRow(p model.Product, categories *categoryIndex) []string {
	compareAt := ""
	if p.Pricing.Original > p.Pricing.Selling {
		compareAt = formatNumber(p.Pricing.Original)
	}
	return []string{
		p.Name,
		p.Description,
		p.ShortDescription,
		p.SKU,
		strconv.FormatFloat(p.Pricing.Selling, 'f', -1, 64),
		formatNumber(p.Pricing.Cost),
		compareAt,
		categories.name(p.Category),
		p.Subcategory,
		strconv.Itoa(p.Inventory.Stock),
		strconv.Itoa(p.Inventory.LowStockThreshold),
		p.Brand,
		strings.Join(p.Tags, ","),
		p.Status,
		strings.Join(p.Images, ","),
		p.Barcode,
		formatNumber(p.Weight),
		strconv.FormatBool(p.IsFeatured),
	}
}
