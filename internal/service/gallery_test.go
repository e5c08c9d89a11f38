package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type galleryFixture struct {
	stores  *fakeStores
	items   *fakeGallery
	media   *fakeMedia
	events  *fakePublisher
	service *GalleryService
	store   *model.Store
}

func newGalleryFixture() *galleryFixture {
	f := &galleryFixture{
		stores: newFakeStores(),
		items:  newFakeGallery(),
		media:  &fakeMedia{},
		events: &fakePublisher{},
	}
	log := zap.NewNop()
	f.service = NewGalleryService(NewStoreService(f.stores, log), f.items, f.media, f.events, 1<<20, log)
	f.store = f.stores.add(7, "Sole Street")
	return f
}

func jpeg(name string) UploadFile {
	return UploadFile{Filename: name, ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("img")}
}

func TestUploadCoverIsUniquePerCategory(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	first, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{Category: "Footwear", IsCover: true})
	require.NoError(t, err)
	assert.Equal(t, "footwear", first.Category)
	assert.True(t, first.IsCover)

	second, err := f.service.Upload(ctx, 7, storeID, jpeg("b.jpg"), GalleryUploadInput{Category: "footwear", IsCover: true})
	require.NoError(t, err)

	covers := f.items.covers(f.store.ID, "footwear")
	require.Len(t, covers, 1)
	assert.Equal(t, second.ID, covers[0])

	reloaded, err := f.items.GetByID(ctx, f.store.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsCover)
}

func TestCoverInOtherCategoryIsKept(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	_, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{Category: "footwear", IsCover: true})
	require.NoError(t, err)
	_, err = f.service.Upload(ctx, 7, storeID, jpeg("b.jpg"), GalleryUploadInput{Category: "interior", IsCover: true})
	require.NoError(t, err)

	assert.Len(t, f.items.covers(f.store.ID, "footwear"), 1)
	assert.Len(t, f.items.covers(f.store.ID, "interior"), 1)
}

func TestUploadAssignsNextOrder(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()

	a, err := f.service.Upload(ctx, 7, f.store.ID.Hex(), jpeg("a.jpg"), GalleryUploadInput{})
	require.NoError(t, err)
	b, err := f.service.Upload(ctx, 7, f.store.ID.Hex(), jpeg("b.jpg"), GalleryUploadInput{})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultGalleryCategory, a.Category)
	assert.Equal(t, 1, a.Order)
	assert.Equal(t, 2, b.Order)
	assert.Contains(t, f.events.types(), domain.EventGalleryUploaded)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	f := newGalleryFixture()

	_, err := f.service.Upload(context.Background(), 7, f.store.ID.Hex(),
		UploadFile{Filename: "notes.pdf", ContentType: "application/pdf", Body: strings.NewReader("x")}, GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Zero(t, f.media.uploads)
}

func TestUploadOwnership(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()

	_, err := f.service.Upload(ctx, 99, f.store.ID.Hex(), jpeg("a.jpg"), GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.service.Upload(ctx, 7, "64b000000000000000000000", jpeg("a.jpg"), GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.service.Upload(ctx, 7, "not-an-id", jpeg("a.jpg"), GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Zero(t, f.media.uploads)
}

func TestSoftDeletedItemIsHiddenButRetrievable(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	item, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{Category: "food", IsCover: true})
	require.NoError(t, err)
	_, err = f.service.Upload(ctx, 7, storeID, jpeg("b.jpg"), GalleryUploadInput{Category: "food"})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, 7, storeID, item.ID.Hex()))
	assert.Equal(t, []string{item.PublicID}, f.media.deleted)

	stored, err := f.items.GetByID(ctx, f.store.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DeletedAt)
	assert.False(t, stored.IsVisible)
	assert.False(t, stored.IsCover)

	page, err := f.service.List(ctx, 7, storeID, GalleryListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	for _, it := range page.Items {
		assert.NotEqual(t, item.ID, it.ID)
	}

	public, err := f.service.PublicList(ctx, storeID, GalleryListQuery{Category: "food"})
	require.NoError(t, err)
	assert.Len(t, public.Items, 1)

	_, err = f.service.Get(ctx, 7, storeID, item.ID.Hex())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteSucceedsWhenMediaHostFails(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()

	item, err := f.service.Upload(ctx, 7, f.store.ID.Hex(), jpeg("a.jpg"), GalleryUploadInput{})
	require.NoError(t, err)

	f.media.deleteErr = errBoom
	require.NoError(t, f.service.Delete(ctx, 7, f.store.ID.Hex(), item.ID.Hex()))

	stored, err := f.items.GetByID(ctx, f.store.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted())
}

func TestBulkUploadReportsPerFile(t *testing.T) {
	f := newGalleryFixture()

	files := []UploadFile{
		jpeg("a.jpg"),
		{Filename: "b.exe", ContentType: "application/octet-stream", Body: strings.NewReader("x")},
		jpeg("c.jpg"),
	}
	result, err := f.service.BulkUpload(context.Background(), 7, f.store.ID.Hex(), files, []string{"A", "B", "C"},
		GalleryUploadInput{Category: "menu", IsCover: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.FailedN)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "b.exe", result.Failed[0].Filename)
	assert.Equal(t, "A", result.Uploaded[0].Title)
	assert.True(t, result.Uploaded[0].IsCover)
	assert.False(t, result.Uploaded[1].IsCover)
}

func TestBulkUploadLimit(t *testing.T) {
	f := newGalleryFixture()
	files := make([]UploadFile, MaxBulkGalleryFiles+1)
	for i := range files {
		files[i] = jpeg("x.jpg")
	}

	_, err := f.service.BulkUpload(context.Background(), 7, f.store.ID.Hex(), files, nil, GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSetCoverMovesCover(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	a, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{Category: "decor", IsCover: true})
	require.NoError(t, err)
	b, err := f.service.Upload(ctx, 7, storeID, jpeg("b.jpg"), GalleryUploadInput{Category: "decor"})
	require.NoError(t, err)

	_, err = f.service.SetCover(ctx, 7, storeID, b.ID.Hex())
	require.NoError(t, err)

	covers := f.items.covers(f.store.ID, "decor")
	require.Len(t, covers, 1)
	assert.Equal(t, b.ID, covers[0])
	assert.NotEqual(t, a.ID, covers[0])
}

func TestPublicGetCountsViews(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()

	item, err := f.service.Upload(ctx, 7, f.store.ID.Hex(), jpeg("a.jpg"), GalleryUploadInput{})
	require.NoError(t, err)

	_, err = f.service.PublicGet(ctx, f.store.ID.Hex(), item.ID.Hex())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		f.items.mu.Lock()
		defer f.items.mu.Unlock()
		return f.items.views[item.ID] == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPublicGetHidesInvisibleItems(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	item, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{})
	require.NoError(t, err)
	hidden := false
	_, err = f.service.Update(ctx, 7, storeID, item.ID.Hex(), GalleryUpdateInput{IsVisible: &hidden})
	require.NoError(t, err)

	_, err = f.service.PublicGet(ctx, storeID, item.ID.Hex())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBackfillOrder(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.items.Create(ctx, &model.GalleryItem{StoreID: f.store.ID, Category: "general"}))
	}

	updated, err := f.service.BackfillOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	page, err := f.service.List(ctx, 7, f.store.ID.Hex(), GalleryListQuery{})
	require.NoError(t, err)
	orders := []int{}
	for _, it := range page.Items {
		orders = append(orders, it.Order)
	}
	assert.Equal(t, []int{1, 2, 3}, orders)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTags([]string{`["a","b"]`}))
	assert.Equal(t, []string{"a", "b", "c"}, ParseTags([]string{"a, b", "c", "a"}))
	assert.Empty(t, ParseTags(nil))
}

func TestMediaKind(t *testing.T) {
	kind, err := MediaKind("clip.MP4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, model.GalleryTypeVideo, kind)

	_, err = MediaKind("photo.jpg", "video/mp4")
	assert.Error(t, err)
}

func TestUpdateMovingCoverClearsCoverInTargetCategory(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	moving, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{Category: "food", IsCover: true})
	require.NoError(t, err)
	left, err := f.service.Upload(ctx, 7, storeID, jpeg("b.jpg"), GalleryUploadInput{Category: "food"})
	require.NoError(t, err)
	target, err := f.service.Upload(ctx, 7, storeID, jpeg("c.jpg"), GalleryUploadInput{Category: "drinks", IsCover: true})
	require.NoError(t, err)

	drinks := "Drinks"
	updated, err := f.service.Update(ctx, 7, storeID, moving.ID.Hex(), GalleryUpdateInput{Category: &drinks})
	require.NoError(t, err)
	assert.Equal(t, "drinks", updated.Category)
	assert.True(t, updated.IsCover)

	covers := f.items.covers(f.store.ID, "drinks")
	require.Len(t, covers, 1)
	assert.Equal(t, moving.ID, covers[0])

	previous, err := f.items.GetByID(ctx, f.store.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, previous.IsCover)

	assert.Empty(t, f.items.covers(f.store.ID, "food"))
	page, err := f.service.List(ctx, 7, storeID, GalleryListQuery{Category: "food"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, left.ID, page.Items[0].ID)
}

type productGalleryFixture struct {
	stores   *fakeStores
	products *fakeProducts
	items    *fakeGallery
	media    *fakeMedia
	events   *fakePublisher
	service  *GalleryService
	store    *model.Store
	product  *model.Product
}

func newProductGalleryFixture() *productGalleryFixture {
	f := &productGalleryFixture{
		stores:   newFakeStores(),
		products: newFakeProducts(),
		items:    newFakeGallery(),
		media:    &fakeMedia{},
		events:   &fakePublisher{},
	}
	log := zap.NewNop()
	storeService := NewStoreService(f.stores, log)
	f.service = NewProductGalleryService(NewProductService(storeService, f.products, log),
		f.items, f.media, f.events, 1<<20, log)
	f.store = f.stores.add(7, "Sole Street")
	f.product = f.products.add(model.Product{Name: "Runner", Store: f.store.ID, MerchantID: 7})
	return f
}

func TestProductGalleryUploadIsScopedToProduct(t *testing.T) {
	f := newProductGalleryFixture()
	ctx := context.Background()

	item, err := f.service.Upload(ctx, 7, f.product.ID.Hex(), jpeg("side.jpg"),
		GalleryUploadInput{Category: "Main", VariantID: "size-9"})
	require.NoError(t, err)

	require.NotNil(t, item.ProductID)
	assert.Equal(t, f.product.ID, *item.ProductID)
	assert.Equal(t, f.store.ID, item.StoreID)
	assert.Equal(t, "main", item.Category)
	assert.Equal(t, "size-9", item.VariantID)
	assert.True(t, strings.HasPrefix(item.PublicID, "products/"+f.product.ID.Hex()+"/"))

	_, err = f.items.GetByID(ctx, f.store.ID, item.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductGalleryAcceptsImagesOnly(t *testing.T) {
	f := newProductGalleryFixture()

	_, err := f.service.Upload(context.Background(), 7, f.product.ID.Hex(),
		UploadFile{Filename: "spin.mp4", ContentType: "video/mp4", Size: 3, Body: strings.NewReader("vid")}, GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Zero(t, f.media.uploads)
}

func TestProductGalleryCategoryWhitelist(t *testing.T) {
	f := newProductGalleryFixture()
	ctx := context.Background()
	productID := f.product.ID.Hex()

	_, err := f.service.Upload(ctx, 7, productID, jpeg("a.jpg"), GalleryUploadInput{Category: "menu"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Zero(t, f.media.uploads)

	item, err := f.service.Upload(ctx, 7, productID, jpeg("a.jpg"), GalleryUploadInput{})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGalleryCategory, item.Category)

	bad := "interior"
	_, err = f.service.Update(ctx, 7, productID, item.ID.Hex(), GalleryUpdateInput{Category: &bad})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	stored, err := f.items.GetByID(ctx, f.product.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGalleryCategory, stored.Category)
}

func TestProductGalleryHasOneCoverAcrossCategories(t *testing.T) {
	f := newProductGalleryFixture()
	ctx := context.Background()
	productID := f.product.ID.Hex()

	first, err := f.service.Upload(ctx, 7, productID, jpeg("a.jpg"), GalleryUploadInput{Category: "main", IsCover: true})
	require.NoError(t, err)
	second, err := f.service.Upload(ctx, 7, productID, jpeg("b.jpg"), GalleryUploadInput{Category: "lifestyle", IsCover: true})
	require.NoError(t, err)

	covers := f.items.covers(f.product.ID, "")
	require.Len(t, covers, 1)
	assert.Equal(t, second.ID, covers[0])

	_, err = f.service.SetCover(ctx, 7, productID, first.ID.Hex())
	require.NoError(t, err)
	covers = f.items.covers(f.product.ID, "")
	require.Len(t, covers, 1)
	assert.Equal(t, first.ID, covers[0])
}

func TestProductGalleryOwnership(t *testing.T) {
	f := newProductGalleryFixture()
	ctx := context.Background()
	other := f.stores.add(99, "Elsewhere")
	foreign := f.products.add(model.Product{Name: "Boot", Store: other.ID, MerchantID: 99})

	_, err := f.service.Upload(ctx, 7, foreign.ID.Hex(), jpeg("a.jpg"), GalleryUploadInput{})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.service.List(ctx, 7, "64b000000000000000000000", GalleryListQuery{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.service.PublicList(ctx, f.product.ID.Hex(), GalleryListQuery{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Zero(t, f.media.uploads)
}

func TestProductGalleryListFiltersByVariant(t *testing.T) {
	f := newProductGalleryFixture()
	ctx := context.Background()
	productID := f.product.ID.Hex()

	red, err := f.service.Upload(ctx, 7, productID, jpeg("red.jpg"), GalleryUploadInput{Category: "variant", VariantID: "red"})
	require.NoError(t, err)
	_, err = f.service.Upload(ctx, 7, productID, jpeg("blue.jpg"), GalleryUploadInput{Category: "variant", VariantID: "blue"})
	require.NoError(t, err)

	page, err := f.service.List(ctx, 7, productID, GalleryListQuery{Category: "all", VariantID: "red"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, red.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)
}

func TestUploadHonoursVisibilityAndVideoThumbnail(t *testing.T) {
	f := newGalleryFixture()
	ctx := context.Background()
	storeID := f.store.ID.Hex()

	hidden := false
	img, err := f.service.Upload(ctx, 7, storeID, jpeg("a.jpg"), GalleryUploadInput{IsVisible: &hidden})
	require.NoError(t, err)
	assert.False(t, img.IsVisible)
	assert.Equal(t, img.URL, img.Thumbnail)

	clip, err := f.service.Upload(ctx, 7, storeID,
		UploadFile{Filename: "tour.mp4", ContentType: "video/mp4", Size: 3, Body: strings.NewReader("vid")}, GalleryUploadInput{})
	require.NoError(t, err)
	assert.True(t, clip.IsVisible)
	assert.Empty(t, clip.Thumbnail)

	public, err := f.service.PublicList(ctx, storeID, GalleryListQuery{})
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, clip.ID, public.Items[0].ID)
}

func TestProductGalleryBackfillOrderIsPerProduct(t *testing.T) {
	f := newProductGalleryFixture()
	ctx := context.Background()
	second := f.products.add(model.Product{Name: "Trail", Store: f.store.ID, MerchantID: 7})
	for _, p := range []*model.Product{f.product, second, f.product} {
		productID := p.ID
		require.NoError(t, f.items.Create(ctx, &model.GalleryItem{StoreID: f.store.ID, ProductID: &productID, Category: "main"}))
	}

	updated, err := f.service.BackfillOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	page, err := f.service.List(ctx, 7, f.product.ID.Hex(), GalleryListQuery{})
	require.NoError(t, err)
	orders := []int{}
	for _, it := range page.Items {
		orders = append(orders, it.Order)
	}
	assert.Equal(t, []int{1, 2}, orders)

	other, err := f.service.List(ctx, 7, second.ID.Hex(), GalleryListQuery{})
	require.NoError(t, err)
	require.Len(t, other.Items, 1)
	assert.Equal(t, 1, other.Items[0].Order)
}
