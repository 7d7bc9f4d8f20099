// Package services contains the business logic, defined against storage
// interfaces so it can be tested without a running MongoDB.
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/priyamehta/aarohi/pkg/cache"
	"github.com/priyamehta/aarohi/pkg/event"
	"github.com/priyamehta/aarohi/pkg/logger"
	"github.com/priyamehta/aarohi/pkg/slugify"
)

// EventLowStock is fired when a catalog mutation drops a product's stock
// below its threshold. Payload: LowStockPayload.
const EventLowStock = "product.low_stock"

// LowStockPayload accompanies EventLowStock.
type LowStockPayload struct {
	ProductID string
	Name      string
	Stock     int
	Threshold int
}

// maxSlugProbes caps the collision loop; in practice a handful of probes
// suffice, the cap only guards against a pathological catalog.
const maxSlugProbes = 200

// createAttempts bounds how many times Create restarts after the unique
// index rejects a raced slug.
const createAttempts = 3

// ProductStore is the persistence boundary for products.
// Find methods return (nil, nil) when no document matches.
type ProductStore interface {
	Search(ctx context.Context, plan QueryPlan) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindActiveBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	SKUExists(ctx context.Context, sku string, exclude primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, p *models.Product) error
	Replace(ctx context.Context, p *models.Product) error
	// SetReviews persists reviews + rating + numReviews in one update.
	SetReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, rating float64, numReviews int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	// DecrementStock atomically subtracts qty from the product's stock,
	// failing without effect when fewer than qty units remain.
	// Returns the product as it was after the decrement, or (nil, nil) when
	// the guard rejected it.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
}

// CategoryStore is the persistence boundary for categories.
type CategoryStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	NameExists(ctx context.Context, name string, exclude primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, c *models.Category) error
	Replace(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is the persistence boundary for accounts.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Replace(ctx context.Context, u *models.User) error
}

// CatalogService composes slug allocation, rating aggregation, and the
// query builder over the product store.
type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	users      UserStore
}

// NewCatalogService wires the catalog service to its stores.
func NewCatalogService(p ProductStore, c CategoryStore, u UserStore) *CatalogService {
	return &CatalogService{products: p, categories: c, users: u}
}

// ── Response shapes ───────────────────────────────────────────────────────────

// ProductView is a product with its category reference resolved and the
// embedded reviews hidden (list responses never carry reviews).
type ProductView struct {
	models.Product
	Category *models.CategoryRef `json:"category"`
	Reviews  []models.Review     `json:"reviews,omitempty"`
}

// ReviewView is a review with its author resolved to display fields.
type ReviewView struct {
	models.Review
	User *models.ReviewerRef `json:"user"`
}

// ProductDetail is the fetch-by-slug response shape.
type ProductDetail struct {
	models.Product
	Category *models.CategoryRef `json:"category"`
	Reviews  []ReviewView        `json:"reviews"`
}

// Pagination is the list-response metadata block.
type Pagination struct {
	Page  int   `json:"page"`
	Pages int64 `json:"pages"`
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
}

// ListResult is a page of products plus pagination metadata.
type ListResult struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

// ── Inputs ────────────────────────────────────────────────────────────────────

// CreateProductInput is the create payload.
type CreateProductInput struct {
	Name              string                 `json:"name" validate:"required,min=2,max=200"`
	SKU               string                 `json:"sku" validate:"required,alpha_dash,max=100"`
	Description       string                 `json:"description" validate:"nullable,max=5000"`
	Price             float64                `json:"price" validate:"required,gte=0"`
	SalePrice         *float64               `json:"salePrice" validate:"nullable,gte=0"`
	Stock             int                    `json:"stock" validate:"nullable,gte=0"`
	LowStockThreshold *int                   `json:"lowStockThreshold" validate:"nullable,gte=0"`
	Category          string                 `json:"category" validate:"required"`
	Images            []models.ProductImage  `json:"images"`
	Specifications    []models.Specification `json:"specifications"`
	Variants          []models.Variant       `json:"variants"`
	Tags              []string               `json:"tags"`
	IsActive          *bool                  `json:"isActive"`
	IsFeatured        *bool                  `json:"isFeatured"`
	Weight            float64                `json:"weight" validate:"nullable,gte=0"`
	Dimensions        *models.Dimensions     `json:"dimensions"`
}

// UpdateProductInput is the partial-update payload. Pointer fields model
// presence: nil means "leave unchanged", a pointed-to zero (0, false, "") is
// an explicit update.
type UpdateProductInput struct {
	Name              *string                 `json:"name" validate:"nullable,min=2,max=200"`
	SKU               *string                 `json:"sku" validate:"nullable,alpha_dash,max=100"`
	Description       *string                 `json:"description" validate:"nullable,max=5000"`
	Price             *float64                `json:"price" validate:"nullable,gte=0"`
	SalePrice         *float64                `json:"salePrice" validate:"nullable,gte=0"`
	Stock             *int                    `json:"stock" validate:"nullable,gte=0"`
	LowStockThreshold *int                    `json:"lowStockThreshold" validate:"nullable,gte=0"`
	Category          *string                 `json:"category"`
	Images            *[]models.ProductImage  `json:"images"`
	Specifications    *[]models.Specification `json:"specifications"`
	Variants          *[]models.Variant       `json:"variants"`
	Tags              *[]string               `json:"tags"`
	IsActive          *bool                   `json:"isActive"`
	IsFeatured        *bool                   `json:"isFeatured"`
	Weight            *float64                `json:"weight" validate:"nullable,gte=0"`
	Dimensions        *models.Dimensions      `json:"dimensions"`
}

// AddReviewInput is the review payload.
type AddReviewInput struct {
	Rating  int    `json:"rating" validate:"required,between=1,5"`
	Comment string `json:"comment" validate:"required,min=1,max=2000"`
}

// ── Slug allocation ───────────────────────────────────────────────────────────

// allocateSlug derives a URL-safe slug from name and resolves collisions by
// probing base, base-2, base-3, … — skipping the product identified by
// exclude so a rename back to the same name is not a self-collision.
//
// This is a check-then-act loop with no lock: two concurrent creates can
// both observe the same free slug. The unique index on products.slug is the
// last line of defense; Create restarts allocation when the insert trips it.
func (s *CatalogService) allocateSlug(ctx context.Context, name string, exclude primitive.ObjectID) (string, error) {
	base := slugify.Make(name)
	if base == "" {
		return "", apperr.Invalid("product name must contain at least one alphanumeric character")
	}

	candidate := base
	for i := 2; i <= maxSlugProbes; i++ {
		taken, err := s.products.SlugExists(ctx, candidate, exclude)
		if err != nil {
			return "", apperr.Internal("checking slug availability", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperr.Internal(fmt.Sprintf("no free slug for %q within %d probes", base, maxSlugProbes), nil)
}

// ── Category population ───────────────────────────────────────────────────────

const categoryCacheTTL = 10 * time.Minute

func categoryCacheKey(id primitive.ObjectID) string {
	return "category:ref:" + id.Hex()
}

// categoryRef resolves a category id to its display reference, via the
// Redis cache when available. A dangling reference resolves to nil rather
// than an error.
func (s *CatalogService) categoryRef(ctx context.Context, id primitive.ObjectID) *models.CategoryRef {
	if id.IsZero() {
		return nil
	}

	var ref models.CategoryRef
	if cache.Get(categoryCacheKey(id), &ref) {
		return &ref
	}

	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("resolving category reference", "category", id.Hex(), "error", err)
		return nil
	}
	if cat == nil {
		return nil
	}

	ref = cat.Ref()
	if err := cache.Set(categoryCacheKey(id), ref, categoryCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("caching category reference", "category", id.Hex(), "error", err)
	}
	return &ref
}

// ── Operations ────────────────────────────────────────────────────────────────

// List executes the catalog query plan and returns a page of products with
// categories resolved and pagination metadata.
func (s *CatalogService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	plan := q.Plan()

	items, total, err := s.products.Search(ctx, plan)
	if err != nil {
		return nil, apperr.Internal("listing products", err)
	}

	views := make([]ProductView, len(items))
	for i, p := range items {
		p.Reviews = nil // list responses never carry reviews
		views[i] = ProductView{
			Product:  p,
			Category: s.categoryRef(ctx, p.Category),
		}
	}

	return &ListResult{
		Products: views,
		Pagination: Pagination{
			Page:  plan.Page,
			Pages: plan.Pages(total),
			Total: total,
			Limit: plan.Limit,
		},
	}, nil
}

// GetBySlug fetches an active product by slug, with the category and each
// review's author resolved.
func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	p, err := s.products.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Internal("fetching product by slug", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	reviews, err := s.expandReviewers(ctx, p.Reviews)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		Product:  *p,
		Category: s.categoryRef(ctx, p.Category),
		Reviews:  reviews,
	}
	detail.Product.Reviews = nil
	return detail, nil
}

// expandReviewers resolves review authors to display fields in one batched
// lookup. Deleted authors resolve to nil.
func (s *CatalogService) expandReviewers(ctx context.Context, reviews []models.Review) ([]ReviewView, error) {
	if len(reviews) == 0 {
		return []ReviewView{}, nil
	}

	seen := map[primitive.ObjectID]struct{}{}
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.User]; !ok {
			seen[r.User] = struct{}{}
			ids = append(ids, r.User)
		}
	}

	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("resolving review authors", err)
	}
	byID := make(map[primitive.ObjectID]models.ReviewerRef, len(authors))
	for _, u := range authors {
		byID[u.ID] = u.Ref()
	}

	out := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		view := ReviewView{Review: r}
		if ref, ok := byID[r.User]; ok {
			ref := ref
			view.User = &ref
		}
		out[i] = view
	}
	return out, nil
}

// Create allocates a slug and inserts the product. A duplicate-key error
// from the unique indexes is re-diagnosed: an occupied sku is a conflict,
// anything else is a raced slug and allocation restarts (bounded attempts).
func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*ProductView, error) {
	categoryID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return nil, apperr.Invalid("category must be a valid id")
	}

	taken, err := s.products.SKUExists(ctx, in.SKU, primitive.NilObjectID)
	if err != nil {
		return nil, apperr.Internal("checking sku availability", err)
	}
	if taken {
		return nil, apperr.Conflict("a product with this sku already exists")
	}

	var lastErr error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		slug, err := s.allocateSlug(ctx, in.Name, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		p := &models.Product{
			ID:                primitive.NewObjectID(),
			Name:              in.Name,
			Slug:              slug,
			SKU:               in.SKU,
			Description:       in.Description,
			Price:             in.Price,
			SalePrice:         in.SalePrice,
			Stock:             in.Stock,
			LowStockThreshold: 10,
			Category:          categoryID,
			Images:            orEmpty(in.Images),
			Specifications:    orEmpty(in.Specifications),
			Variants:          orEmpty(in.Variants),
			Tags:              orEmpty(in.Tags),
			Reviews:           []models.Review{},
			IsActive:          true,
			Weight:            in.Weight,
			Dimensions:        in.Dimensions,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if in.LowStockThreshold != nil {
			p.LowStockThreshold = *in.LowStockThreshold
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		if in.IsFeatured != nil {
			p.IsFeatured = *in.IsFeatured
		}

		err = s.products.Insert(ctx, p)
		if err == nil {
			return &ProductView{Product: *p, Category: s.categoryRef(ctx, categoryID)}, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Internal("inserting product", err)
		}

		// The unique index rejected the write. If the sku got taken in the
		// meantime that's a real conflict; otherwise the slug raced and the
		// allocation is restarted from scratch.
		taken, checkErr := s.products.SKUExists(ctx, in.SKU, primitive.NilObjectID)
		if checkErr != nil {
			return nil, apperr.Internal("re-checking sku after duplicate key", checkErr)
		}
		if taken {
			return nil, apperr.Conflict("a product with this sku already exists")
		}

		lastErr = err
		logger.WithCtx(ctx).Warn("slug raced on insert, retrying allocation",
			"name", in.Name, "attempt", attempt)
	}

	return nil, apperr.Internal("creating product: slug allocation kept racing", lastErr)
}

// Update applies a partial update. Only fields present in the payload are
// replaced; an explicit zero is honored. A name change re-allocates the slug
// with the product itself excluded from the collision check.
func (s *CatalogService) Update(ctx context.Context, id string, in UpdateProductInput) (*ProductView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Invalid("product id is not valid")
	}

	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal("loading product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	prevStock := p.Stock

	if in.Name != nil && *in.Name != p.Name {
		slug, err := s.allocateSlug(ctx, *in.Name, p.ID)
		if err != nil {
			return nil, err
		}
		p.Name = *in.Name
		p.Slug = slug
	}
	if in.SKU != nil && *in.SKU != p.SKU {
		taken, err := s.products.SKUExists(ctx, *in.SKU, p.ID)
		if err != nil {
			return nil, apperr.Internal("checking sku availability", err)
		}
		if taken {
			return nil, apperr.Conflict("a product with this sku already exists")
		}
		p.SKU = *in.SKU
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.SalePrice != nil {
		p.SalePrice = in.SalePrice
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Category != nil {
		categoryID, err := primitive.ObjectIDFromHex(*in.Category)
		if err != nil {
			return nil, apperr.Invalid("category must be a valid id")
		}
		p.Category = categoryID
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.Specifications != nil {
		p.Specifications = *in.Specifications
	}
	if in.Variants != nil {
		p.Variants = *in.Variants
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.Dimensions != nil {
		p.Dimensions = in.Dimensions
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.Replace(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("slug or sku already taken")
		}
		return nil, apperr.Internal("updating product", err)
	}

	if p.Stock < prevStock && p.IsLowStock() {
		event.FireAsync(EventLowStock, LowStockPayload{
			ProductID: p.ID.Hex(),
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: p.LowStockThreshold,
		})
	}

	return &ProductView{Product: *p, Category: s.categoryRef(ctx, p.Category)}, nil
}

// AddReview appends a review, recomputes the rating summary, and persists
// reviews + rating + numReviews in a single document update. A user may
// review each product at most once.
func (s *CatalogService) AddReview(ctx context.Context, productID, userID string, in AddReviewInput) (*ProductDetail, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.Invalid("product id is not valid")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Invalid("user id is not valid")
	}

	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal("loading product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	for _, r := range p.Reviews {
		if r.User == uid {
			return nil, apperr.Conflict("you have already reviewed this product")
		}
	}

	now := time.Now().UTC()
	reviews := append(p.Reviews, models.Review{
		User:      uid,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	})
	rating, numReviews := models.AggregateRating(reviews)

	if err := s.products.SetReviews(ctx, p.ID, reviews, rating, numReviews); err != nil {
		return nil, apperr.Internal("persisting review", err)
	}

	p.Reviews = reviews
	p.Rating = rating
	p.NumReviews = numReviews
	p.UpdatedAt = now

	views, err := s.expandReviewers(ctx, reviews)
	if err != nil {
		return nil, err
	}
	detail := &ProductDetail{
		Product:  *p,
		Category: s.categoryRef(ctx, p.Category),
		Reviews:  views,
	}
	detail.Product.Reviews = nil
	return detail, nil
}

// Delete removes a product permanently (admin only; soft-hiding is done by
// clearing isActive through Update instead).
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Invalid("product id is not valid")
	}

	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return apperr.Internal("loading product", err)
	}
	if p == nil {
		return apperr.NotFound("product not found")
	}

	if err := s.products.Delete(ctx, oid); err != nil {
		return apperr.Internal("deleting product", err)
	}
	return nil
}

// orEmpty normalizes a nil slice to an empty one so documents and JSON
// carry [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
