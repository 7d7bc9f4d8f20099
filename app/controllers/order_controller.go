package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/bind"
	"github.com/priyamehta/aarohi/pkg/middleware"
	"github.com/priyamehta/aarohi/pkg/response"
)

// OrderController serves order endpoints; all of them require auth.
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController wires the controller to the order service.
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Create handles POST /api/orders.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.CreateOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	o, err := c.orders.Create(r.Context(), claims.UserID, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, response.M{"order": o})
}

// Mine handles GET /api/orders.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.MyOrders(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"orders": orders})
}

// Get handles GET /api/orders/{id} — visible to the owner or an admin.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	o, err := c.orders.Get(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role == "admin")
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"order": o})
}

// ListAll handles GET /api/admin/orders (admin).
func (c *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.ListAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"orders": orders})
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status (admin).
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateOrderStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	o, err := c.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"order": o})
}
