package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/apperr"
)

func newOrderSvc() (*services.OrderService, *fakeOrders, *fakeProducts) {
	orders := newFakeOrders()
	products := newFakeProducts()
	return services.NewOrderService(orders, products), orders, products
}

func TestOrderCreateDecrementsStock(t *testing.T) {
	svc, _, products := newOrderSvc()
	ctx := context.Background()

	sale := 40.0
	p := products.add(models.Product{
		ID: primitive.NewObjectID(), Name: "Red Shoes",
		Price: 50, SalePrice: &sale, Stock: 10, LowStockThreshold: 5,
	})
	user := primitive.NewObjectID()

	o, err := svc.Create(ctx, user.Hex(), services.CreateOrderInput{
		Items: []services.OrderItemInput{{Product: p.ID.Hex(), Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 40.0, o.Items[0].Price, "sale price wins when lower")
	assert.Equal(t, 80.0, o.Total)

	stored, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, 8, stored.Stock)
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	svc, _, products := newOrderSvc()
	ctx := context.Background()

	p := products.add(models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 5, Stock: 1})

	_, err := svc.Create(ctx, primitive.NewObjectID().Hex(), services.CreateOrderInput{
		Items: []services.OrderItemInput{{Product: p.ID.Hex(), Quantity: 3}},
	})
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	stored, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, 1, stored.Stock, "guarded decrement must not partially apply")
}

func TestOrderVisibility(t *testing.T) {
	svc, _, products := newOrderSvc()
	ctx := context.Background()

	p := products.add(models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 5, Stock: 10})
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	o, err := svc.Create(ctx, owner.Hex(), services.CreateOrderInput{
		Items: []services.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, o.ID.Hex(), owner.Hex(), false)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, o.ID.Hex(), stranger.Hex(), false)
	assert.True(t, apperr.IsNotFound(err), "strangers must not see the order")

	_, err = svc.Get(ctx, o.ID.Hex(), stranger.Hex(), true)
	assert.NoError(t, err, "admins see every order")
}

func TestOrderStatusUpdate(t *testing.T) {
	svc, _, products := newOrderSvc()
	ctx := context.Background()

	p := products.add(models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 5, Stock: 10})
	o, err := svc.Create(ctx, primitive.NewObjectID().Hex(), services.CreateOrderInput{
		Items: []services.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, o.ID.Hex(), services.UpdateOrderStatusInput{Status: models.OrderShipped})
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, o.ID.Hex(), services.UpdateOrderStatusInput{Status: "teleported"})
	assert.True(t, apperr.IsInvalid(err), "got %v", err)
}
