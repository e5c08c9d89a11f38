package seed

import (
	"context"
	"fmt"
	"math"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.uber.org/zap"
)

// OrderCreator stamps and stores a new order
type OrderCreator interface {
	Create(ctx context.Context, order *model.Order) error
}

var sampleCustomers = []model.OrderCustomer{
	{ID: "cust-1001", Name: "Ananya Rao", Email: "ananya@example.com", Phone: "+919800000001"},
	{ID: "cust-1002", Name: "Rohit Menon", Email: "rohit@example.com", Phone: "+919800000002"},
	{ID: "cust-1003", Name: "Meera Iyer", Email: "meera@example.com"},
}

// Orders creates pending sample orders for up to three active stores from their own products.
// Nothing is written when the orders collection already holds documents.
func Orders(ctx context.Context, docs Documents, stores domain.StoreRepository, products domain.ProductRepository,
	orders OrderCreator, log *zap.Logger) (int, error) {
	count, err := docs.Count(ctx, model.OrdersCollection)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	if count > 0 {
		log.Info("Collection already seeded", zap.String("collection", model.OrdersCollection), zap.Int64("documents", count))
		return 0, nil
	}

	ids, err := docs.StoreIDs(ctx, 3)
	if err != nil {
		return 0, fmt.Errorf("load stores: %w", err)
	}

	created := 0
	for _, id := range ids {
		store, err := stores.GetByID(ctx, id)
		if err != nil {
			return created, fmt.Errorf("load store %s: %w", id.Hex(), err)
		}
		storeID := store.ID
		catalog, _, err := products.List(ctx, domain.ProductQuery{StoreID: &storeID, Page: domain.Page{Limit: 3}})
		if err != nil {
			return created, fmt.Errorf("load products of %s: %w", store.Name, err)
		}
		if len(catalog) == 0 {
			log.Warn("Store has no products; no sample orders", zap.String("store_id", store.ID.Hex()))
			continue
		}

		for i, customer := range sampleCustomers {
			order := sampleOrder(store, customer, catalog, i)
			if err := orders.Create(ctx, order); err != nil {
				return created, fmt.Errorf("create order for %s: %w", store.Name, err)
			}
			created++
		}
	}
	log.Info("Seeded collection", zap.String("collection", model.OrdersCollection), zap.Int("documents", created))
	return created, nil
}

// sampleOrder buys i+1 units of each of the first i+1 products, wrapping around the catalogue
func sampleOrder(store *model.Store, customer model.OrderCustomer, catalog []model.Product, i int) *model.Order {
	order := &model.Order{
		MerchantID: store.MerchantID,
		StoreID:    store.ID,
		Customer:   customer,
		Items:      make([]model.OrderItem, 0, i+1),
	}
	for n := 0; n <= i; n++ {
		p := catalog[n%len(catalog)]
		qty := i + 1
		total := math.Round(p.Pricing.Selling*float64(qty)*100) / 100
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Quantity:    qty,
			Price:       p.Pricing.Selling,
			Total:       total,
		})
		order.Pricing.Subtotal += total
	}
	order.Pricing.Tax = math.Round(order.Pricing.Subtotal*5) / 100
	order.Pricing.Total = order.Pricing.Subtotal + order.Pricing.Tax
	return order
}
