package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBoom = errors.New("boom")

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// stores

type fakeStores struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*model.Store
}

func newFakeStores() *fakeStores {
	return &fakeStores{items: make(map[primitive.ObjectID]*model.Store)}
}

func (f *fakeStores) add(merchantID uint, name string) *model.Store {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &model.Store{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Slug:       strings.ToLower(name),
		MerchantID: merchantID,
		IsActive:   true,
	}
	f.items[s.ID] = s
	return s
}

func (f *fakeStores) GetByID(_ context.Context, id primitive.ObjectID) (*model.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("store: %w", domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStores) ListByMerchant(_ context.Context, merchantID uint) ([]model.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Store{}
	for _, s := range f.items {
		if s.MerchantID == merchantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStores) List(_ context.Context, q domain.StoreQuery) ([]model.Store, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Store{}
	for _, s := range f.items {
		if q.MerchantID != nil && s.MerchantID != *q.MerchantID {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStores) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStores) Create(_ context.Context, store *model.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	store.ID = primitive.NewObjectID()
	cp := *store
	f.items[store.ID] = &cp
	return nil
}

func (f *fakeStores) Save(_ context.Context, store *model.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *store
	f.items[store.ID] = &cp
	return nil
}

// gallery

type fakeGallery struct {
	mu    sync.Mutex
	items []*model.GalleryItem
	views map[primitive.ObjectID]int
}

func newFakeGallery() *fakeGallery {
	return &fakeGallery{views: make(map[primitive.ObjectID]int)}
}

func fakeGalleryOwnerID(it *model.GalleryItem) primitive.ObjectID {
	if it.ProductID != nil {
		return *it.ProductID
	}
	return it.StoreID
}

func (f *fakeGallery) find(ownerID, id primitive.ObjectID) *model.GalleryItem {
	for _, it := range f.items {
		if it.ID == id && fakeGalleryOwnerID(it) == ownerID {
			return it
		}
	}
	return nil
}

func (f *fakeGallery) Create(_ context.Context, item *model.GalleryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = primitive.NewObjectID()
	cp := *item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeGallery) Save(_ context.Context, item *model.GalleryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := f.find(fakeGalleryOwnerID(item), item.ID)
	if existing == nil {
		return domain.ErrNotFound
	}
	*existing = *item
	return nil
}

func (f *fakeGallery) GetByID(_ context.Context, ownerID, id primitive.ObjectID) (*model.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.find(ownerID, id)
	if it == nil {
		return nil, fmt.Errorf("gallery item: %w", domain.ErrNotFound)
	}
	cp := *it
	return &cp, nil
}

func (f *fakeGallery) active(ownerID primitive.ObjectID, visibleOnly bool) []model.GalleryItem {
	out := []model.GalleryItem{}
	for _, it := range f.items {
		if fakeGalleryOwnerID(it) != ownerID || it.IsDeleted() {
			continue
		}
		if visibleOnly && !it.IsVisible {
			continue
		}
		out = append(out, *it)
	}
	return out
}

func (f *fakeGallery) List(_ context.Context, q domain.GalleryQuery) ([]model.GalleryItem, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.GalleryItem{}
	for _, it := range f.active(q.OwnerID, q.VisibleOnly) {
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		if q.VariantID != "" && it.VariantID != q.VariantID {
			continue
		}
		if q.Type != "" && it.Type != q.Type {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	total := int64(len(out))
	if q.Page.Offset < len(out) {
		out = out[q.Page.Offset:]
	} else {
		out = []model.GalleryItem{}
	}
	if q.Page.Limit > 0 && len(out) > q.Page.Limit {
		out = out[:q.Page.Limit]
	}
	return out, total, nil
}

func (f *fakeGallery) Categories(_ context.Context, ownerID primitive.ObjectID, visibleOnly bool) ([]model.GalleryCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]*model.GalleryCategory{}
	names := []string{}
	for _, it := range f.active(ownerID, visibleOnly) {
		c, ok := counts[it.Category]
		if !ok {
			c = &model.GalleryCategory{Name: it.Category}
			counts[it.Category] = c
			names = append(names, it.Category)
		}
		c.Count++
		if it.IsCover {
			c.CoverImage = it.URL
		}
	}
	sort.Strings(names)
	out := make([]model.GalleryCategory, 0, len(names))
	for _, n := range names {
		out = append(out, *counts[n])
	}
	return out, nil
}

func (f *fakeGallery) MaxOrder(_ context.Context, ownerID primitive.ObjectID, category string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, it := range f.active(ownerID, false) {
		if it.Category == category && it.Order > max {
			max = it.Order
		}
	}
	return max, nil
}

func (f *fakeGallery) UnsetCover(_ context.Context, ownerID primitive.ObjectID, category string, keep primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, it := range f.items {
		if category != "" && it.Category != category {
			continue
		}
		if fakeGalleryOwnerID(it) == ownerID && it.ID != keep && !it.IsDeleted() && it.IsCover {
			it.IsCover = false
			n++
		}
	}
	return n, nil
}

func (f *fakeGallery) SetOrder(_ context.Context, ownerID, id primitive.ObjectID, order int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.find(ownerID, id)
	if it == nil || it.IsDeleted() {
		return false, nil
	}
	it.Order = order
	return true, nil
}

func (f *fakeGallery) SoftDelete(_ context.Context, ownerID primitive.ObjectID, ids []primitive.ObjectID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		it := f.find(ownerID, id)
		if it == nil || it.IsDeleted() {
			continue
		}
		t := at
		it.DeletedAt = &t
		it.IsVisible = false
		it.IsCover = false
		n++
	}
	return n, nil
}

func (f *fakeGallery) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[id]++
	return nil
}

func (f *fakeGallery) ListUnordered(_ context.Context) ([]model.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.GalleryItem{}
	for _, it := range f.items {
		if !it.IsDeleted() && it.Order == 0 {
			out = append(out, *it)
		}
	}
	return out, nil
}

// covers lists cover ids of an owner; an empty category spans all categories
func (f *fakeGallery) covers(ownerID primitive.ObjectID, category string) []primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []primitive.ObjectID{}
	for _, it := range f.items {
		if category != "" && it.Category != category {
			continue
		}
		if fakeGalleryOwnerID(it) == ownerID && !it.IsDeleted() && it.IsCover {
			out = append(out, it.ID)
		}
	}
	return out
}

// media

type fakeMedia struct {
	mu        sync.Mutex
	uploads   int
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeMedia) Upload(_ context.Context, in domain.UploadInput) (*domain.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if in.Body != nil {
		_, _ = io.Copy(io.Discard, in.Body)
	}
	f.uploads++
	return &domain.UploadResult{URL: "https://cdn.test/" + in.Key, PublicID: in.Key}, nil
}

func (f *fakeMedia) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr
}

// products

type fakeProducts struct {
	mu       sync.Mutex
	items    map[primitive.ObjectID]*model.Product
	batches  int
	failAt   int
	writeErr error
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: make(map[primitive.ObjectID]*model.Product)}
}

func (f *fakeProducts) add(p model.Product) *model.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.items[p.ID] = &p
	return &p
}

func (f *fakeProducts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *fakeProducts) snapshot() map[primitive.ObjectID]*model.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make(map[primitive.ObjectID]*model.Product, len(f.items))
	for k, v := range f.items {
		p := *v
		cp[k] = &p
	}
	return cp
}

func (f *fakeProducts) restore(items map[primitive.ObjectID]*model.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

func (f *fakeProducts) GetByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.IsDeleted {
		return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) List(_ context.Context, q domain.ProductQuery) ([]model.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Product{}
	for _, p := range f.items {
		if p.IsDeleted {
			continue
		}
		if q.StoreID != nil && p.Store != *q.StoreID {
			continue
		}
		if q.MerchantID != nil && p.MerchantID != *q.MerchantID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) Create(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Save(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) SoftDelete(_ context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsDeleted = true
	p.DeletedAt = &at
	return nil
}

func (f *fakeProducts) FindBySKUs(_ context.Context, storeID primitive.ObjectID, skus []string) (map[string]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]model.Product{}
	for _, p := range f.items {
		if p.Store != storeID || p.IsDeleted {
			continue
		}
		for _, sku := range skus {
			if p.SKU == sku {
				out[sku] = *p
			}
		}
	}
	return out, nil
}

func (f *fakeProducts) FilterOwned(_ context.Context, storeID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []primitive.ObjectID{}
	for _, id := range ids {
		if p, ok := f.items[id]; ok && p.Store == storeID && !p.IsDeleted {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeProducts) WriteBatch(_ context.Context, creates, updates []*model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if f.failAt > 0 && f.batches == f.failAt {
		return f.writeErr
	}
	for _, p := range creates {
		p.ID = primitive.NewObjectID()
		cp := *p
		f.items[p.ID] = &cp
	}
	for _, p := range updates {
		cp := *p
		f.items[p.ID] = &cp
	}
	return nil
}

func (f *fakeProducts) ListByStore(_ context.Context, storeID primitive.ObjectID) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Product{}
	for _, p := range f.items {
		if p.Store == storeID && !p.IsDeleted {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// fakeTx restores the product snapshot when fn fails
type fakeTx struct {
	products *fakeProducts
	runs     int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.runs++
	before := f.products.snapshot()
	if err := fn(ctx); err != nil {
		f.products.restore(before)
		return err
	}
	return nil
}

type fakeCategories struct {
	items []model.Category
	err   error
}

func (f *fakeCategories) ListActive(_ context.Context, limit int) ([]model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeCategories) Upsert(_ context.Context, c *model.Category) error {
	f.items = append(f.items, *c)
	return nil
}

// videos

type fakeVideos struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*model.Video
}

func newFakeVideos() *fakeVideos {
	return &fakeVideos{items: make(map[primitive.ObjectID]*model.Video)}
}

func (f *fakeVideos) Create(_ context.Context, v *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = primitive.NewObjectID()
	cp := *v
	f.items[v.ID] = &cp
	return nil
}

func (f *fakeVideos) GetByID(_ context.Context, id primitive.ObjectID) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("video: %w", domain.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideos) Save(_ context.Context, v *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	f.items[v.ID] = &cp
	return nil
}

func (f *fakeVideos) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeVideos) ListByStore(ctx context.Context, q domain.VideoQuery) ([]model.Video, int64, error) {
	all, _ := f.AllByStore(ctx, q.StoreID)
	return all, int64(len(all)), nil
}

func (f *fakeVideos) AllByStore(_ context.Context, storeID primitive.ObjectID) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Video{}
	for _, v := range f.items {
		if len(v.Stores) > 0 && v.Stores[0] == storeID {
			out = append(out, *v)
		}
	}
	return out, nil
}

// orders

type fakeOrders struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*model.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{items: make(map[primitive.ObjectID]*model.Order)}
}

func (f *fakeOrders) Create(_ context.Context, o *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.OrderNumber == o.OrderNumber {
			return domain.ErrConflict
		}
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	f.items[o.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) List(_ context.Context, q domain.OrderQuery) ([]model.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Order{}
	for _, o := range f.items {
		if q.MerchantID != nil && o.MerchantID != *q.MerchantID {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, from string, change model.OrderStatusChange) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok || o.Status != from {
		return nil, domain.ErrConflict
	}
	o.Status = change.Status
	o.StatusHistory = append(o.StatusHistory, change)
	o.UpdatedAt = change.ChangedAt
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) Stats(_ context.Context, merchantID uint) (*domain.OrderStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &domain.OrderStats{ByStatus: map[string]int64{}}
	for _, o := range f.items {
		if o.MerchantID != merchantID {
			continue
		}
		stats.TotalOrders++
		stats.ByStatus[o.Status]++
		if o.Status == model.OrderDelivered {
			stats.DeliveredCount++
			stats.Revenue += o.Pricing.Total
		}
	}
	if stats.DeliveredCount > 0 {
		stats.AvgOrderValue = stats.Revenue / float64(stats.DeliveredCount)
	}
	return stats, nil
}

// merchants and audit

type fakeMerchants struct {
	mu    sync.Mutex
	items map[uint]*model.Merchant
	next  uint
}

func newFakeMerchants() *fakeMerchants {
	return &fakeMerchants{items: make(map[uint]*model.Merchant)}
}

func (f *fakeMerchants) Create(_ context.Context, m *model.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Email == m.Email {
			return domain.ErrConflict
		}
	}
	f.next++
	m.ID = f.next
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMerchants) GetByID(_ context.Context, id uint) (*model.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("merchant: %w", domain.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMerchants) GetByEmail(_ context.Context, email string) (*model.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.items {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("merchant: %w", domain.ErrNotFound)
}

func (f *fakeMerchants) List(_ context.Context, q domain.MerchantQuery) ([]model.Merchant, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Merchant{}
	for _, m := range f.items {
		if q.Status == "" || m.Status == q.Status {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeMerchants) Save(_ context.Context, m *model.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (f *fakeAudit) Record(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) List(_ context.Context, q domain.AuditQuery) ([]model.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.AuditLog{}
	for _, e := range f.entries {
		if q.Action != "" && e.Action != q.Action {
			continue
		}
		if q.MerchantID != nil && e.MerchantID != *q.MerchantID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

// events and cache

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakePublisher) Publish(_ context.Context, e domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) DeletePrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, prefix)
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
	return nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}
