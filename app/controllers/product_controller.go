// Package controllers adapts HTTP requests to the service layer.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/bind"
	"github.com/priyamehta/aarohi/pkg/middleware"
	"github.com/priyamehta/aarohi/pkg/response"
)

// ProductController serves the catalog endpoints.
type ProductController struct {
	catalog *services.CatalogService
}

// NewProductController wires the controller to the catalog service.
func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List handles GET /api/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := services.ParseListQuery(r.URL.Query())

	res, err := c.catalog.List(r.Context(), q)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{
		"products":   res.Products,
		"pagination": res.Pagination,
	})
}

// Get handles GET /api/products/{slug}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := c.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"product": detail})
}

// Create handles POST /api/products (admin).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	view, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, response.M{"product": view})
}

// Update handles PUT /api/products/{id} (admin).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	view, err := c.catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"product": view})
}

// Delete handles DELETE /api/products/{id} (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"message": "product deleted"})
}

// AddReview handles POST /api/products/{id}/reviews (authenticated).
func (c *ProductController) AddReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentClaims(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.AddReviewInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	detail, err := c.catalog.AddReview(r.Context(), chi.URLParam(r, "id"), claims.UserID, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, response.M{"product": detail})
}
