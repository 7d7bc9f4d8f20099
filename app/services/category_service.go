package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/priyamehta/aarohi/pkg/cache"
	"github.com/priyamehta/aarohi/pkg/slugify"
)

// CategoryService handles category CRUD. Category slugs use plain
// slugification without a collision loop; the unique index reports clashes.
type CategoryService struct {
	categories CategoryStore
	products   ProductStore
}

// NewCategoryService wires the category service to its stores.
func NewCategoryService(c CategoryStore, p ProductStore) *CategoryService {
	return &CategoryService{categories: c, products: p}
}

// CreateCategoryInput is the create payload.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"nullable,max=2000"`
	Image       string `json:"image" validate:"nullable,url"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateCategoryInput is the partial-update payload.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"nullable,min=2,max=100"`
	Description *string `json:"description" validate:"nullable,max=2000"`
	Image       *string `json:"image" validate:"nullable,url"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

// List returns categories; activeOnly limits to visible ones, ordered by
// sortOrder then name.
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	cats, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Internal("listing categories", err)
	}
	return cats, nil
}

// GetBySlug fetches a category by slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Internal("fetching category", err)
	}
	if c == nil {
		return nil, apperr.NotFound("category not found")
	}
	return c, nil
}

// Create inserts a category. The name must be unique.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	slug := slugify.Make(in.Name)
	if slug == "" {
		return nil, apperr.Invalid("category name must contain at least one alphanumeric character")
	}

	taken, err := s.categories.NameExists(ctx, in.Name, primitive.NilObjectID)
	if err != nil {
		return nil, apperr.Internal("checking category name", err)
	}
	if taken {
		return nil, apperr.Conflict("a category with this name already exists")
	}

	now := time.Now().UTC()
	c := &models.Category{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Image:       in.Image,
		SortOrder:   in.SortOrder,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	if err := s.categories.Insert(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("a category with this slug already exists")
		}
		return nil, apperr.Internal("creating category", err)
	}
	return c, nil
}

// Update applies a partial update; a name change re-derives the slug.
func (s *CategoryService) Update(ctx context.Context, id string, in UpdateCategoryInput) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Invalid("category id is not valid")
	}

	c, err := s.categories.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal("loading category", err)
	}
	if c == nil {
		return nil, apperr.NotFound("category not found")
	}

	if in.Name != nil && *in.Name != c.Name {
		slug := slugify.Make(*in.Name)
		if slug == "" {
			return nil, apperr.Invalid("category name must contain at least one alphanumeric character")
		}
		taken, err := s.categories.NameExists(ctx, *in.Name, c.ID)
		if err != nil {
			return nil, apperr.Internal("checking category name", err)
		}
		if taken {
			return nil, apperr.Conflict("a category with this name already exists")
		}
		c.Name = *in.Name
		c.Slug = slug
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.categories.Replace(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("a category with this slug already exists")
		}
		return nil, apperr.Internal("updating category", err)
	}

	cache.Forget(categoryCacheKey(c.ID)) //nolint:errcheck
	return c, nil
}

// Delete removes a category. Deletion is refused while any product still
// references it, so the catalog never holds dangling required references.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Invalid("category id is not valid")
	}

	c, err := s.categories.FindByID(ctx, oid)
	if err != nil {
		return apperr.Internal("loading category", err)
	}
	if c == nil {
		return apperr.NotFound("category not found")
	}

	n, err := s.products.CountByCategory(ctx, oid)
	if err != nil {
		return apperr.Internal("counting category products", err)
	}
	if n > 0 {
		return apperr.Conflict("category still has products; reassign or delete them first")
	}

	if err := s.categories.Delete(ctx, oid); err != nil {
		return apperr.Internal("deleting category", err)
	}

	cache.Forget(categoryCacheKey(oid)) //nolint:errcheck
	return nil
}
