package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/media"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	MaxBulkGalleryFiles = 20
	defaultGalleryLimit = 50
	maxGalleryLimit     = 100
)

var (
	imageExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true}
	videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".wmv": true, ".webm": true}
)

// MediaKind classifies an upload as image or video from its extension and mime type
func MediaKind(filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mime := strings.ToLower(contentType)

	switch {
	case imageExtensions[ext] && strings.HasPrefix(mime, "image/"):
		return model.GalleryTypeImage, nil
	case videoExtensions[ext] && strings.HasPrefix(mime, "video/"):
		return model.GalleryTypeVideo, nil
	}
	return "", domain.Invalid("file", "unsupported file type; allowed images: jpeg, jpg, png, gif, webp; videos: mp4, mov, avi, wmv, webm")
}

// ParseTags accepts repeated values, a JSON array string or a comma-separated string
func ParseTags(raw []string) []string {
	tags := make([]string, 0)
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}

	for _, value := range raw {
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "[") {
			var list []string
			if err := json.Unmarshal([]byte(value), &list); err == nil {
				for _, t := range list {
					add(t)
				}
				continue
			}
		}
		for _, t := range strings.Split(value, ",") {
			add(t)
		}
	}
	return tags
}

// UploadFile is one staged multipart file
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type GalleryUploadInput struct {
	Category    string
	Title       string
	Description string
	VariantID   string
	Tags        []string
	IsCover     bool
	IsVisible   *bool
	Order       *int
}

type GalleryUpdateInput struct {
	Title       *string  `json:"title" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	VariantID   *string  `json:"variantId" validate:"omitempty,max=100"`
	Tags        []string `json:"tags"`
	Order       *int     `json:"order" validate:"omitempty,gte=0"`
	IsVisible   *bool    `json:"isVisible"`
	IsCover     *bool    `json:"isCover"`
}

type ReorderEntry struct {
	ID    string `json:"id" validate:"required,objectid"`
	Order int    `json:"order" validate:"gte=0"`
}

type GalleryListQuery struct {
	Category  string `query:"category"`
	Type      string `query:"type" validate:"omitempty,oneof=image video"`
	VariantID string `query:"variantId" validate:"omitempty,max=100"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=order uploadedAt views"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type GalleryPage struct {
	Items      []model.GalleryItem     `json:"items"`
	Total      int64                   `json:"total"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	HasMore    bool                    `json:"hasMore"`
	Categories []model.GalleryCategory `json:"categories"`
}

type FailedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type BulkUploadResult struct {
	Uploaded   []*model.GalleryItem `json:"uploaded"`
	Failed     []FailedUpload       `json:"failed"`
	Total      int                  `json:"total"`
	Successful int                  `json:"successful"`
	FailedN    int                  `json:"failedCount"`
}

// galleryRules is what one kind of gallery accepts
type galleryRules struct {
	kind             string
	folder           string
	logKey           string
	categories       []string
	imagesOnly       bool
	coverPerCategory bool
}

var (
	storeGalleryRules = galleryRules{
		kind:             "store",
		folder:           "gallery",
		logKey:           "store_id",
		coverPerCategory: true,
	}
	productGalleryRules = galleryRules{
		kind:       "product",
		folder:     "products",
		logKey:     "product_id",
		categories: model.ProductGalleryCategories,
		imagesOnly: true,
	}
)

// galleryOwner is the resolved store or product a gallery call operates on
type galleryOwner struct {
	id      primitive.ObjectID
	store   *model.Store
	product *model.Product
}

type ownerResolver func(ctx context.Context, merchantID uint, id string) (*galleryOwner, error)

type publicResolver func(ctx context.Context, id string) (*galleryOwner, error)

type GalleryService struct {
	rules    galleryRules
	resolve  ownerResolver
	public   publicResolver
	items    domain.GalleryRepository
	media    domain.MediaStore
	events   domain.PublisherPort
	log      *zap.Logger
	maxBytes int64
	now      Clock
}

// NewGalleryService serves store galleries: images and videos, one cover per category
func NewGalleryService(stores *StoreService, items domain.GalleryRepository, mediaStore domain.MediaStore,
	events domain.PublisherPort, maxBytes int64, log *zap.Logger) *GalleryService {
	s := &GalleryService{
		rules:    storeGalleryRules,
		items:    items,
		media:    mediaStore,
		events:   events,
		log:      log,
		maxBytes: maxBytes,
		now:      time.Now,
	}
	s.resolve = func(ctx context.Context, merchantID uint, storeID string) (*galleryOwner, error) {
		store, err := stores.OwnedHex(ctx, storeID, merchantID)
		if err != nil {
			return nil, err
		}
		return &galleryOwner{id: store.ID, store: store}, nil
	}
	s.public = func(ctx context.Context, storeID string) (*galleryOwner, error) {
		store, err := stores.Public(ctx, storeID)
		if err != nil {
			return nil, err
		}
		return &galleryOwner{id: store.ID, store: store}, nil
	}
	return s
}

// NewProductGalleryService serves product galleries: images only, one cover per product.
// Ownership is checked through the product's store. There is no public view.
func NewProductGalleryService(products *ProductService, items domain.GalleryRepository, mediaStore domain.MediaStore,
	events domain.PublisherPort, maxBytes int64, log *zap.Logger) *GalleryService {
	s := &GalleryService{
		rules:    productGalleryRules,
		items:    items,
		media:    mediaStore,
		events:   events,
		log:      log,
		maxBytes: maxBytes,
		now:      time.Now,
	}
	s.resolve = func(ctx context.Context, merchantID uint, productID string) (*galleryOwner, error) {
		product, store, err := products.OwnedWithStore(ctx, merchantID, productID)
		if err != nil {
			return nil, err
		}
		return &galleryOwner{id: product.ID, store: store, product: product}, nil
	}
	s.public = func(context.Context, string) (*galleryOwner, error) {
		return nil, fmt.Errorf("public product gallery: %w", domain.ErrNotFound)
	}
	return s
}

// ownerOf is the id a stored item is keyed by in this gallery
func (s *GalleryService) ownerOf(item *model.GalleryItem) primitive.ObjectID {
	if s.rules.kind == productGalleryRules.kind && item.ProductID != nil {
		return *item.ProductID
	}
	return item.StoreID
}

func (s *GalleryService) record(operation string) {
	if s.rules.kind != storeGalleryRules.kind {
		operation = s.rules.kind + "_" + operation
	}
	prometheus.RecordGalleryOperation(operation)
}

func (s *GalleryService) eventPayload(owner *galleryOwner, fields map[string]interface{}) map[string]interface{} {
	if owner.product != nil {
		fields["productId"] = owner.product.ID.Hex()
	}
	return fields
}

// Upload stores one file for an owned store or product and applies the single-cover rule
func (s *GalleryService) Upload(ctx context.Context, merchantID uint, ownerID string, file UploadFile, in GalleryUploadInput) (*model.GalleryItem, error) {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.upload(ctx, owner, file, in)
}

func (s *GalleryService) checkCategory(category string) error {
	if s.rules.categories == nil || contains(s.rules.categories, category) {
		return nil
	}
	return domain.Invalid("category", fmt.Sprintf("must be one of %v", s.rules.categories))
}

func (s *GalleryService) upload(ctx context.Context, owner *galleryOwner, file UploadFile, in GalleryUploadInput) (*model.GalleryItem, error) {
	kind, err := MediaKind(file.Filename, file.ContentType)
	if err != nil {
		return nil, err
	}
	if s.rules.imagesOnly && kind != model.GalleryTypeImage {
		return nil, domain.Invalid("file", "only image files are allowed")
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, domain.Invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}

	category := model.NormalizeGalleryCategory(in.Category)
	if err := s.checkCategory(category); err != nil {
		return nil, err
	}
	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		max, err := s.items.MaxOrder(ctx, owner.id, category)
		if err != nil {
			return nil, wrap("read gallery order", err)
		}
		order = max + 1
	}

	key := media.ObjectKey(s.rules.folder, owner.id.Hex(), uuid.NewString(), file.Filename)
	uploaded, err := s.media.Upload(ctx, domain.UploadInput{
		Key:         key,
		Body:        file.Body,
		Size:        file.Size,
		ContentType: file.ContentType,
	})
	if err != nil {
		return nil, wrap("upload media", err)
	}

	visible := true
	if in.IsVisible != nil {
		visible = *in.IsVisible
	}
	now := s.now()
	item := &model.GalleryItem{
		StoreID:     owner.store.ID,
		MerchantID:  owner.store.MerchantID,
		URL:         uploaded.URL,
		PublicID:    uploaded.PublicID,
		Type:        kind,
		Category:    category,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Tags:        in.Tags,
		Order:       order,
		IsVisible:   visible,
		IsCover:     in.IsCover,
		UploadedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if owner.product != nil {
		productID := owner.product.ID
		item.ProductID = &productID
		item.VariantID = strings.TrimSpace(in.VariantID)
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	// videos keep no thumbnail so category previews never point at the raw video
	if kind == model.GalleryTypeImage {
		item.Thumbnail = uploaded.URL
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.deleteMedia(ctx, uploaded.PublicID)
		return nil, wrap("create gallery item", err)
	}

	if item.IsCover {
		if err := s.enforceCover(ctx, item); err != nil {
			return nil, err
		}
	}

	s.record("upload")
	publish(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventGalleryUploaded,
		Key:        owner.store.ID.Hex(),
		MerchantID: owner.store.MerchantID,
		Payload:    s.eventPayload(owner, map[string]interface{}{"itemId": item.ID.Hex(), "category": category, "type": kind}),
	})
	s.log.Info("Gallery item uploaded successfully",
		zap.String(s.rules.logKey, owner.id.Hex()),
		zap.String("item_id", item.ID.Hex()),
		zap.String("category", category),
		zap.Bool("cover", item.IsCover))
	return item, nil
}

// enforceCover clears isCover on every other active item sharing the cover scope
func (s *GalleryService) enforceCover(ctx context.Context, item *model.GalleryItem) error {
	category := ""
	if s.rules.coverPerCategory {
		category = item.Category
	}
	owner := s.ownerOf(item)
	cleared, err := s.items.UnsetCover(ctx, owner, category, item.ID)
	if err != nil {
		return wrap("unset previous cover", err)
	}
	if cleared > 0 {
		s.log.Debug("Previous cover cleared",
			zap.String(s.rules.logKey, owner.Hex()),
			zap.String("category", item.Category),
			zap.Int64("cleared", cleared))
	}
	return nil
}

// BulkUpload processes each file independently; only the first may become the cover
func (s *GalleryService) BulkUpload(ctx context.Context, merchantID uint, ownerID string, files []UploadFile, titles []string, in GalleryUploadInput) (*BulkUploadResult, error) {
	if len(files) == 0 {
		return nil, domain.Invalid("files", "at least one file is required")
	}
	if len(files) > MaxBulkGalleryFiles {
		return nil, domain.Invalid("files", fmt.Sprintf("at most %d files per request", MaxBulkGalleryFiles))
	}

	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{
		Uploaded: make([]*model.GalleryItem, 0, len(files)),
		Failed:   make([]FailedUpload, 0),
		Total:    len(files),
	}
	for i, file := range files {
		fileInput := in
		fileInput.Order = nil
		fileInput.IsCover = in.IsCover && i == 0
		if i < len(titles) {
			fileInput.Title = titles[i]
		}

		item, err := s.upload(ctx, owner, file, fileInput)
		if err != nil {
			s.log.Warn("Bulk gallery file failed", zap.String("filename", file.Filename), zap.Error(err))
			result.Failed = append(result.Failed, FailedUpload{Filename: file.Filename, Error: publicMessage(err)})
			continue
		}
		result.Uploaded = append(result.Uploaded, item)
	}
	result.Successful = len(result.Uploaded)
	result.FailedN = len(result.Failed)
	return result, nil
}

// publicMessage hides internal failures from per-item reports
func publicMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return "upload failed"
}

func (q GalleryListQuery) toDomain(ownerID primitive.ObjectID, visibleOnly bool) domain.GalleryQuery {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultGalleryLimit
	}
	if limit > maxGalleryLimit {
		limit = maxGalleryLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	category := ""
	if raw := strings.TrimSpace(q.Category); raw != "" && !strings.EqualFold(raw, "all") {
		category = model.NormalizeGalleryCategory(raw)
	}
	return domain.GalleryQuery{
		OwnerID:     ownerID,
		Category:    category,
		Type:        q.Type,
		VariantID:   strings.TrimSpace(q.VariantID),
		VisibleOnly: visibleOnly,
		SortBy:      q.SortBy,
		Descending:  q.SortOrder == "desc",
		Page:        domain.Page{Limit: limit, Offset: offset},
	}
}

func (s *GalleryService) list(ctx context.Context, ownerID primitive.ObjectID, q GalleryListQuery, visibleOnly bool) (*GalleryPage, error) {
	query := q.toDomain(ownerID, visibleOnly)
	items, total, err := s.items.List(ctx, query)
	if err != nil {
		return nil, wrap("list gallery", err)
	}
	categories, err := s.items.Categories(ctx, ownerID, visibleOnly)
	if err != nil {
		return nil, wrap("list gallery categories", err)
	}

	return &GalleryPage{
		Items:      items,
		Total:      total,
		Limit:      query.Page.Limit,
		Offset:     query.Page.Offset,
		HasMore:    int64(query.Page.Offset+len(items)) < total,
		Categories: categories,
	}, nil
}

// List is the merchant view: hidden items included, deleted excluded
func (s *GalleryService) List(ctx context.Context, merchantID uint, ownerID string, q GalleryListQuery) (*GalleryPage, error) {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, owner.id, q, false)
}

func (s *GalleryService) Categories(ctx context.Context, merchantID uint, ownerID string) ([]model.GalleryCategory, error) {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.items.Categories(ctx, owner.id, false)
}

func (s *GalleryService) activeItem(ctx context.Context, ownerID primitive.ObjectID, itemID string) (*model.GalleryItem, error) {
	id, err := parseID("itemId", itemID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if item.IsDeleted() {
		return nil, fmt.Errorf("gallery item: %w", domain.ErrNotFound)
	}
	return item, nil
}

func (s *GalleryService) Get(ctx context.Context, merchantID uint, ownerID, itemID string) (*model.GalleryItem, error) {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.activeItem(ctx, owner.id, itemID)
}

func (s *GalleryService) Update(ctx context.Context, merchantID uint, ownerID, itemID string, in GalleryUpdateInput) (*model.GalleryItem, error) {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return nil, err
	}
	item, err := s.activeItem(ctx, owner.id, itemID)
	if err != nil {
		return nil, err
	}

	if in.Category != nil {
		category := model.NormalizeGalleryCategory(*in.Category)
		if err := s.checkCategory(category); err != nil {
			return nil, err
		}
		item.Category = category
	}
	if in.Title != nil {
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.VariantID != nil && owner.product != nil {
		item.VariantID = strings.TrimSpace(*in.VariantID)
	}
	if in.Tags != nil {
		item.Tags = ParseTags(in.Tags)
	}
	if in.Order != nil {
		item.Order = *in.Order
	}
	if in.IsVisible != nil {
		item.IsVisible = *in.IsVisible
	}
	if in.IsCover != nil {
		item.IsCover = *in.IsCover
	}
	item.UpdatedAt = s.now()

	if err := s.items.Save(ctx, item); err != nil {
		return nil, wrap("update gallery item", err)
	}
	// checked against the resulting category
	if item.IsCover {
		if err := s.enforceCover(ctx, item); err != nil {
			return nil, err
		}
	}

	s.record("update")
	return item, nil
}

// Reorder applies the given orders to items of this owner and reports how many changed
func (s *GalleryService) Reorder(ctx context.Context, merchantID uint, ownerID string, entries []ReorderEntry) (int, error) {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, entry := range entries {
		id, err := parseID("items.id", entry.ID)
		if err != nil {
			return updated, err
		}
		ok, err := s.items.SetOrder(ctx, owner.id, id, entry.Order)
		if err != nil {
			return updated, wrap("reorder gallery", err)
		}
		if ok {
			updated++
		}
	}

	s.record("reorder")
	return updated, nil
}

func (s *GalleryService) SetCover(ctx context.Context, merchantID uint, ownerID, itemID string) (*model.GalleryItem, error) {
	cover := true
	return s.Update(ctx, merchantID, ownerID, itemID, GalleryUpdateInput{IsCover: &cover})
}

// Delete removes the hosted media best-effort, then soft-deletes the item
func (s *GalleryService) Delete(ctx context.Context, merchantID uint, ownerID, itemID string) error {
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return err
	}
	item, err := s.activeItem(ctx, owner.id, itemID)
	if err != nil {
		return err
	}

	s.deleteMedia(ctx, item.PublicID)
	if _, err := s.items.SoftDelete(ctx, owner.id, []primitive.ObjectID{item.ID}, s.now()); err != nil {
		return wrap("delete gallery item", err)
	}

	s.record("delete")
	publish(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventGalleryDeleted,
		Key:        owner.store.ID.Hex(),
		MerchantID: owner.store.MerchantID,
		Payload:    s.eventPayload(owner, map[string]interface{}{"itemIds": []string{item.ID.Hex()}}),
	})
	return nil
}

// BulkDelete soft-deletes the listed items of this owner; media is left in place
func (s *GalleryService) BulkDelete(ctx context.Context, merchantID uint, ownerID string, itemIDs []string) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, domain.Invalid("itemIds", "at least one id is required")
	}
	owner, err := s.resolve(ctx, merchantID, ownerID)
	if err != nil {
		return 0, err
	}

	ids := make([]primitive.ObjectID, 0, len(itemIDs))
	for _, raw := range itemIDs {
		id, err := parseID("itemIds", raw)
		if err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}

	deleted, err := s.items.SoftDelete(ctx, owner.id, ids, s.now())
	if err != nil {
		return 0, wrap("bulk delete gallery", err)
	}

	s.record("bulk_delete")
	publish(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventGalleryDeleted,
		Key:        owner.store.ID.Hex(),
		MerchantID: owner.store.MerchantID,
		Payload:    s.eventPayload(owner, map[string]interface{}{"itemIds": itemIDs, "deleted": deleted}),
	})
	return deleted, nil
}

func (s *GalleryService) deleteMedia(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.media.Delete(ctx, publicID); err != nil {
		prometheus.RecordMediaCleanupError()
		s.log.Warn("Failed to delete hosted media", zap.String("public_id", publicID), zap.Error(err))
	}
}

// PublicList returns visible items of an active store
func (s *GalleryService) PublicList(ctx context.Context, storeID string, q GalleryListQuery) (*GalleryPage, error) {
	owner, err := s.public(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, owner.id, q, true)
}

func (s *GalleryService) PublicCategories(ctx context.Context, storeID string) ([]model.GalleryCategory, error) {
	owner, err := s.public(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.items.Categories(ctx, owner.id, true)
}

// PublicGet returns a visible item and counts the view in the background
func (s *GalleryService) PublicGet(ctx context.Context, storeID, itemID string) (*model.GalleryItem, error) {
	owner, err := s.public(ctx, storeID)
	if err != nil {
		return nil, err
	}
	item, err := s.activeItem(ctx, owner.id, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsVisible {
		return nil, fmt.Errorf("gallery item: %w", domain.ErrNotFound)
	}

	go func(id primitive.ObjectID) {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.items.IncrementViews(bg, id); err != nil {
			s.log.Debug("Failed to count gallery view", zap.String("item_id", id.Hex()), zap.Error(err))
		}
	}(item.ID)

	return item, nil
}

// BackfillOrder numbers unordered items per (owner, category) after the current maximum
func (s *GalleryService) BackfillOrder(ctx context.Context) (int, error) {
	items, err := s.items.ListUnordered(ctx)
	if err != nil {
		return 0, wrap("list unordered gallery items", err)
	}

	next := make(map[string]int)
	updated := 0
	for i := range items {
		item := &items[i]
		owner := s.ownerOf(item)
		group := owner.Hex() + "/" + item.Category
		if _, ok := next[group]; !ok {
			max, err := s.items.MaxOrder(ctx, owner, item.Category)
			if err != nil {
				return updated, wrap("read gallery order", err)
			}
			next[group] = max + 1
		}

		ok, err := s.items.SetOrder(ctx, owner, item.ID, next[group])
		if err != nil {
			return updated, wrap("backfill gallery order", err)
		}
		if ok {
			updated++
		}
		next[group]++
	}

	s.log.Info("Gallery order backfilled",
		zap.String("gallery", s.rules.kind),
		zap.Int("updated", updated),
		zap.Int("groups", len(next)))
	return updated, nil
}
