package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeDocuments struct {
	existing map[string]int64
	inserted map[string][]interface{}
	stores   []primitive.ObjectID
	failOn   string
}

func newFakeDocuments(stores int) *fakeDocuments {
	f := &fakeDocuments{existing: map[string]int64{}, inserted: map[string][]interface{}{}}
	for i := 0; i < stores; i++ {
		f.stores = append(f.stores, primitive.NewObjectID())
	}
	return f
}

func (f *fakeDocuments) Count(_ context.Context, collection string) (int64, error) {
	return f.existing[collection], nil
}

func (f *fakeDocuments) InsertMany(_ context.Context, collection string, docs []interface{}) error {
	if collection == f.failOn {
		return errors.New("write concern error")
	}
	f.inserted[collection] = docs
	return nil
}

func (f *fakeDocuments) StoreIDs(_ context.Context, limit int) ([]primitive.ObjectID, error) {
	if len(f.stores) > limit {
		return f.stores[:limit], nil
	}
	return f.stores, nil
}

var seedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestOffersSeedsEveryCollection(t *testing.T) {
	docs := newFakeDocuments(2)

	inserted, err := Offers(context.Background(), docs, seedNow, zap.NewNop())
	require.NoError(t, err)

	for _, collection := range []string{
		model.OffersCollection, model.BankOffersCollection, model.DoubleCashbackCollection,
		model.ExclusiveZonesCollection, model.SpecialProfilesCollection, model.HotspotAreasCollection,
		model.LoyaltyMilestonesCollection, model.FriendRedemptionsCollection,
		model.CoinDropsCollection, model.UploadBillStoresCollection,
	} {
		assert.NotZero(t, inserted[collection], collection)
		assert.Len(t, docs.inserted[collection], inserted[collection], collection)
	}
	assert.Equal(t, 7, inserted[model.OffersCollection])
	assert.Equal(t, 2, inserted[model.CoinDropsCollection])
}

func TestOffersSkipsPopulatedCollections(t *testing.T) {
	docs := newFakeDocuments(1)
	docs.existing[model.OffersCollection] = 12

	inserted, err := Offers(context.Background(), docs, seedNow, zap.NewNop())
	require.NoError(t, err)

	assert.NotContains(t, inserted, model.OffersCollection)
	assert.NotContains(t, docs.inserted, model.OffersCollection)
	assert.Equal(t, 2, inserted[model.BankOffersCollection])
}

func TestOffersWithoutStores(t *testing.T) {
	docs := newFakeDocuments(0)

	inserted, err := Offers(context.Background(), docs, seedNow, zap.NewNop())
	require.NoError(t, err)

	assert.NotContains(t, inserted, model.CoinDropsCollection)
	assert.NotContains(t, inserted, model.UploadBillStoresCollection)
	assert.Contains(t, inserted, model.OffersCollection)
}

func TestOffersReportsWriteFailure(t *testing.T) {
	docs := newFakeDocuments(1)
	docs.failOn = model.BankOffersCollection

	inserted, err := Offers(context.Background(), docs, seedNow, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.BankOffersCollection)
	assert.Contains(t, inserted, model.OffersCollection)
}

func TestSampleOffersAreLive(t *testing.T) {
	offers := sampleOffers(seedNow)
	ids := map[primitive.ObjectID]bool{}
	for _, o := range offers {
		assert.False(t, ids[o.ID], o.Title)
		ids[o.ID] = true
		assert.True(t, o.Validity.IsActive, o.Title)
		assert.False(t, o.Validity.StartDate.After(seedNow), o.Title)
		assert.False(t, o.Validity.EndDate.Before(seedNow), o.Title)
		assert.NotEmpty(t, o.Image, o.Title)
		assert.Nil(t, o.AdminApproved, o.Title)
	}

	for _, set := range sampleSets(seedNow, nil) {
		if set.collection != model.FriendRedemptionsCollection {
			continue
		}
		for _, doc := range set.docs {
			assert.NotEqual(t, primitive.NilObjectID, doc.(model.FriendRedemption).OfferID)
		}
	}
}

type recordingSections struct {
	saved []model.OffersSectionConfig
}

func (r *recordingSections) List(context.Context) ([]model.OffersSectionConfig, error) {
	return r.saved, nil
}

func (r *recordingSections) Upsert(_ context.Context, cfg *model.OffersSectionConfig) error {
	r.saved = append(r.saved, *cfg)
	return nil
}

func TestSectionsUpsertsDefaults(t *testing.T) {
	repo := &recordingSections{}

	n, err := Sections(context.Background(), repo)
	require.NoError(t, err)

	keys := service.OffersSectionKeys()
	assert.Equal(t, len(keys), n)
	require.Len(t, repo.saved, len(keys))
	for i, cfg := range repo.saved {
		assert.Equal(t, keys[i], cfg.SectionKey)
		assert.Equal(t, i, cfg.SortOrder)
		assert.True(t, cfg.IsEnabled)
		assert.Positive(t, cfg.MaxItems)
	}
}

type recordingCategories struct {
	saved []model.Category
}

func (r *recordingCategories) ListActive(context.Context, int) ([]model.Category, error) {
	return r.saved, nil
}

func (r *recordingCategories) Upsert(_ context.Context, c *model.Category) error {
	r.saved = append(r.saved, *c)
	return nil
}

func TestCategoriesAreActiveAndOrdered(t *testing.T) {
	repo := &recordingCategories{}

	n, err := Categories(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, len(DefaultCategories), n)
	for i, c := range repo.saved {
		assert.Equal(t, i+1, c.SortOrder)
		assert.True(t, c.IsActive)
		assert.NotEmpty(t, c.Slug)
	}
	assert.False(t, DefaultCategories[0].IsActive, "defaults must not be mutated")
}

type fakeStoreRepo struct {
	domain.StoreRepository
	stores map[primitive.ObjectID]*model.Store
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type fakeProductRepo struct {
	domain.ProductRepository
	byStore map[primitive.ObjectID][]model.Product
}

func (f *fakeProductRepo) List(_ context.Context, q domain.ProductQuery) ([]model.Product, int64, error) {
	items := f.byStore[*q.StoreID]
	return items, int64(len(items)), nil
}

type recordingOrders struct {
	orders []*model.Order
}

func (r *recordingOrders) Create(_ context.Context, order *model.Order) error {
	r.orders = append(r.orders, order)
	return nil
}

func newOrderSeedFixture(docs *fakeDocuments) (*fakeStoreRepo, *fakeProductRepo) {
	stores := &fakeStoreRepo{stores: map[primitive.ObjectID]*model.Store{}}
	products := &fakeProductRepo{byStore: map[primitive.ObjectID][]model.Product{}}
	for i, id := range docs.stores {
		stores.stores[id] = &model.Store{ID: id, Name: "Store", MerchantID: uint(i + 1), IsActive: true}
	}
	products.byStore[docs.stores[0]] = []model.Product{
		{ID: primitive.NewObjectID(), Name: "Filter Coffee", SKU: "COF-1", Pricing: model.ProductPricing{Selling: 120}},
		{ID: primitive.NewObjectID(), Name: "Masala Dosa", SKU: "DOS-1", Pricing: model.ProductPricing{Selling: 90.5}},
	}
	return stores, products
}

func TestOrdersSeedsStoresWithProducts(t *testing.T) {
	docs := newFakeDocuments(2)
	stores, products := newOrderSeedFixture(docs)
	created := &recordingOrders{}

	n, err := Orders(context.Background(), docs, stores, products, created, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, len(sampleCustomers), n)
	require.Len(t, created.orders, n)
	for i, order := range created.orders {
		assert.Equal(t, uint(1), order.MerchantID)
		assert.Equal(t, docs.stores[0], order.StoreID)
		assert.Len(t, order.Items, i+1)
		subtotal := 0.0
		for _, item := range order.Items {
			assert.Equal(t, i+1, item.Quantity)
			subtotal += item.Total
		}
		assert.InDelta(t, subtotal, order.Pricing.Subtotal, 0.001)
		assert.InDelta(t, order.Pricing.Subtotal+order.Pricing.Tax, order.Pricing.Total, 0.001)
	}
	assert.InDelta(t, 6.0, created.orders[0].Pricing.Tax, 0.001)
}

func TestOrdersSkipsPopulatedCollection(t *testing.T) {
	docs := newFakeDocuments(1)
	docs.existing[model.OrdersCollection] = 4
	stores, products := newOrderSeedFixture(docs)
	created := &recordingOrders{}

	n, err := Orders(context.Background(), docs, stores, products, created, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, created.orders)
}

func TestOrdersSeedNumbersThroughOrderService(t *testing.T) {
	docs := newFakeDocuments(1)
	stores, products := newOrderSeedFixture(docs)
	repo := &recordingOrderRepo{}
	orders := service.NewOrderService(repo, nil, nil, zap.NewNop())

	n, err := Orders(context.Background(), docs, stores, products, orders, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	seen := map[string]bool{}
	for _, order := range repo.orders {
		assert.Regexp(t, `^ORD\d{6}[0-9A-Z]{6}$`, order.OrderNumber)
		assert.Equal(t, model.OrderPending, order.Status)
		assert.Equal(t, "INR", order.Pricing.Currency)
		seen[order.OrderNumber] = true
	}
	assert.Len(t, seen, 3)
}

type recordingOrderRepo struct {
	domain.OrderRepository
	orders []*model.Order
}

func (r *recordingOrderRepo) Create(_ context.Context, order *model.Order) error {
	r.orders = append(r.orders, order)
	return nil
}
