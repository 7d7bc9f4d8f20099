package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/bind"
	"github.com/priyamehta/aarohi/pkg/response"
)

// CategoryController serves category endpoints.
type CategoryController struct {
	categories *services.CategoryService
}

// NewCategoryController wires the controller to the category service.
func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// List handles GET /api/categories. Public callers see active categories;
// ?all=true includes hidden ones (the route is public, hidden categories
// leak nothing sensitive).
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	cats, err := c.categories.List(r.Context(), activeOnly)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"categories": cats})
}

// Get handles GET /api/categories/{slug}.
func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := c.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"category": cat})
}

// Create handles POST /api/categories (admin).
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateCategoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	cat, err := c.categories.Create(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, response.M{"category": cat})
}

// Update handles PUT /api/categories/{id} (admin).
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateCategoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	cat, err := c.categories.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"category": cat})
}

// Delete handles DELETE /api/categories/{id} (admin). Refused while
// products still reference the category.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, response.M{"message": "category deleted"})
}
