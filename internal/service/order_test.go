package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders  *fakeOrders
	events  *fakePublisher
	audit   *fakeAudit
	service *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{orders: newFakeOrders(), events: &fakePublisher{}, audit: &fakeAudit{}}
	f.service = NewOrderService(f.orders, f.events, f.audit, zap.NewNop())
	f.service.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return f
}

func (f *orderFixture) create(t *testing.T, merchantID uint, total float64) *model.Order {
	t.Helper()
	order := &model.Order{MerchantID: merchantID}
	order.Pricing.Total = total
	require.NoError(t, f.service.Create(context.Background(), order))
	return order
}

func TestOrderCreateDefaults(t *testing.T) {
	f := newOrderFixture()
	order := f.create(t, 7, 500)

	assert.Regexp(t, regexp.MustCompile(`^ORD260301[A-Z0-9]{6}$`), order.OrderNumber)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.Equal(t, "INR", order.Pricing.Currency)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, model.OrderPending, order.StatusHistory[0].Status)
}

func TestOrderLifecycle(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	order := f.create(t, 7, 500)
	merchant := Actor{MerchantID: 7}

	for _, status := range []string{model.OrderConfirmed, model.OrderPreparing, model.OrderReady, model.OrderOutForDelivery, model.OrderDelivered} {
		updated, err := f.service.UpdateStatus(ctx, merchant, order.ID.Hex(), StatusUpdateInput{Status: status})
		require.NoError(t, err, status)
		assert.Equal(t, status, updated.Status)
	}

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.StatusHistory, 6)
	assert.Len(t, f.events.types(), 5)
	assert.Empty(t, f.audit.actions(), "merchant updates are not audited")

	_, err = f.service.UpdateStatus(ctx, merchant, order.ID.Hex(), StatusUpdateInput{Status: model.OrderCancelled})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestOrderInvalidTransition(t *testing.T) {
	f := newOrderFixture()
	order := f.create(t, 7, 500)

	_, err := f.service.UpdateStatus(context.Background(), Actor{MerchantID: 7}, order.ID.Hex(), StatusUpdateInput{Status: model.OrderDelivered})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Empty(t, f.events.types())
}

func TestOrderForeignMerchant(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	order := f.create(t, 7, 500)

	_, err := f.service.Get(ctx, Actor{MerchantID: 8}, order.ID.Hex())
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.service.UpdateStatus(ctx, Actor{MerchantID: 8}, order.ID.Hex(), StatusUpdateInput{Status: model.OrderConfirmed})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.service.Get(ctx, Actor{MerchantID: 8}, "bad")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestOrderAdminUpdateIsAudited(t *testing.T) {
	f := newOrderFixture()
	order := f.create(t, 7, 500)

	updated, err := f.service.UpdateStatus(context.Background(), Actor{MerchantID: 1, Admin: true}, order.ID.Hex(),
		StatusUpdateInput{Status: model.OrderCancelled, Note: "customer request"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, updated.Status)
	assert.Equal(t, uint(1), updated.StatusHistory[1].ChangedBy)
	assert.Equal(t, []string{"order.status"}, f.audit.actions())
	assert.Equal(t, uint(7), f.audit.entries[0].MerchantID)
	assert.Equal(t, []string{domain.EventOrderStatusChanged}, f.events.types())
}

func TestOrderListScopesMerchant(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	f.create(t, 7, 100)
	f.create(t, 7, 200)
	f.create(t, 8, 300)

	page, err := f.service.List(ctx, Actor{MerchantID: 7}, OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 20, page.Pagination.Limit)

	all, err := f.service.List(ctx, Actor{MerchantID: 1, Admin: true}, OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 3)
}

func TestOrderAnalytics(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	delivered := f.create(t, 7, 400)
	f.create(t, 7, 100)
	f.orders.items[delivered.ID].Status = model.OrderDelivered

	stats, err := f.service.Analytics(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, 400.0, stats.Revenue)
	assert.Equal(t, int64(1), stats.ByStatus[model.OrderPending])
}
