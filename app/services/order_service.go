package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/priyamehta/aarohi/pkg/event"
)

// OrderStore is the persistence boundary for orders.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// OrderService handles the thin order lifecycle: create, read, status.
type OrderService struct {
	orders   OrderStore
	products ProductStore
}

// NewOrderService wires the order service to its stores.
func NewOrderService(o OrderStore, p ProductStore) *OrderService {
	return &OrderService{orders: o, products: p}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderInput is the order creation payload.
type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required"`
}

// UpdateOrderStatusInput is the admin status-change payload.
type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,in=pending,paid,shipped,delivered,cancelled"`
}

// Create places an order for the authenticated user. Each line decrements
// the product's stock atomically; name and price are copied at purchase
// time. There is no cross-line rollback: a failing line aborts the order
// and earlier decrements stand until ops reconciles them.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Invalid("user id is not valid")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Invalid("order must contain at least one item")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	total := 0.0
	for _, line := range in.Items {
		pid, err := primitive.ObjectIDFromHex(line.Product)
		if err != nil {
			return nil, apperr.Invalid("item product id is not valid")
		}

		p, err := s.products.DecrementStock(ctx, pid, line.Quantity)
		if err != nil {
			return nil, apperr.Internal("reserving stock", err)
		}
		if p == nil {
			return nil, apperr.Conflict(fmt.Sprintf("not enough stock for product %s", line.Product))
		}

		price := p.Price
		if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < price {
			price = *p.SalePrice
		}
		items = append(items, models.OrderItem{
			Product:  p.ID,
			Name:     p.Name,
			Price:    price,
			Quantity: line.Quantity,
		})
		total += price * float64(line.Quantity)

		if p.IsLowStock() {
			event.FireAsync(EventLowStock, LowStockPayload{
				ProductID: p.ID.Hex(),
				Name:      p.Name,
				Stock:     p.Stock,
				Threshold: p.LowStockThreshold,
			})
		}
	}

	now := time.Now().UTC()
	o := &models.Order{
		ID:        primitive.NewObjectID(),
		User:      uid,
		Items:     items,
		Total:     total,
		Status:    models.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, apperr.Internal("creating order", err)
	}
	return o, nil
}

// MyOrders returns the caller's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Invalid("user id is not valid")
	}
	orders, err := s.orders.FindByUser(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("listing orders", err)
	}
	return orders, nil
}

// Get returns an order visible to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, id, userID string, isAdmin bool) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Invalid("order id is not valid")
	}
	o, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal("loading order", err)
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}
	if !isAdmin && o.User.Hex() != userID {
		// Strangers see 404 rather than learning the order exists.
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

// ListAll returns every order (admin).
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperr.Internal("listing orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status (admin).
func (s *OrderService) UpdateStatus(ctx context.Context, id string, in UpdateOrderStatusInput) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Invalid("order id is not valid")
	}
	if !models.ValidOrderStatus(in.Status) {
		return nil, apperr.Invalid("unknown order status")
	}

	o, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal("loading order", err)
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}

	if err := s.orders.SetStatus(ctx, oid, in.Status); err != nil {
		return nil, apperr.Internal("updating order status", err)
	}
	o.Status = in.Status
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}
