package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/apperr"
)

func newCatalog() (*services.CatalogService, *fakeProducts, *fakeCategories, *fakeUsers) {
	products := newFakeProducts()
	categories := newFakeCategories()
	users := newFakeUsers()
	return services.NewCatalogService(products, categories, users), products, categories, users
}

func createInput(name, sku string) services.CreateProductInput {
	return services.CreateProductInput{
		Name:     name,
		SKU:      sku,
		Price:    49.99,
		Stock:    20,
		Category: primitive.NewObjectID().Hex(),
	}
}

func TestCreateSlugDeterminism(t *testing.T) {
	svc, _, _, _ := newCatalog()
	ctx := context.Background()

	first, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)
	assert.Equal(t, "red-shoes", first.Slug)

	second, err := svc.Create(ctx, createInput("Red Shoes", "SKU-2"))
	require.NoError(t, err)
	assert.Equal(t, "red-shoes-2", second.Slug)

	third, err := svc.Create(ctx, createInput("Red Shoes", "SKU-3"))
	require.NoError(t, err)
	assert.Equal(t, "red-shoes-3", third.Slug)
}

func TestCreateEmptySlugSource(t *testing.T) {
	svc, _, _, _ := newCatalog()

	_, err := svc.Create(context.Background(), createInput("!!!", "SKU-1"))
	assert.True(t, apperr.IsInvalid(err), "got %v", err)
}

func TestCreateSKUConflict(t *testing.T) {
	svc, _, _, _ := newCatalog()
	ctx := context.Background()

	_, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createInput("Blue Shoes", "SKU-1"))
	assert.True(t, apperr.IsConflict(err), "got %v", err)
}

func TestCreateRetriesAfterSlugRace(t *testing.T) {
	svc, products, _, _ := newCatalog()
	products.dupInserts = 1 // first insert trips the unique index

	view, err := svc.Create(context.Background(), createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)
	assert.Equal(t, "red-shoes", view.Slug)
	assert.Equal(t, 2, products.insertCalls)
}

func TestCreateGivesUpAfterBoundedRetries(t *testing.T) {
	svc, products, _, _ := newCatalog()
	products.dupInserts = 99

	_, err := svc.Create(context.Background(), createInput("Red Shoes", "SKU-1"))
	require.Error(t, err)
	assert.False(t, apperr.IsConflict(err))
	assert.Equal(t, 3, products.insertCalls)
}

func TestUpdateRenameSelfExclusion(t *testing.T) {
	svc, _, _, _ := newCatalog()
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)
	require.Equal(t, "red-shoes", created.Slug)

	name := "Red Shoes"
	updated, err := svc.Update(ctx, created.ID.Hex(), services.UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "red-shoes", updated.Slug, "rename to own name must not collide with itself")
}

func TestUpdatePartialPreservesFields(t *testing.T) {
	svc, products, _, _ := newCatalog()
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)

	zero := 0
	updated, err := svc.Update(ctx, created.ID.Hex(), services.UpdateProductInput{Stock: &zero})
	require.NoError(t, err)

	// Explicit zero is honored, everything else untouched.
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, "Red Shoes", updated.Name)
	assert.Equal(t, "SKU-1", updated.SKU)
	assert.Equal(t, 49.99, updated.Price)

	stored, _ := products.FindByID(ctx, created.ID)
	assert.Equal(t, 0, stored.Stock)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _, _ := newCatalog()

	price := 9.99
	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), services.UpdateProductInput{Price: &price})
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}

func TestAddReviewAggregates(t *testing.T) {
	svc, products, _, users := newCatalog()
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)

	for _, rating := range []int{4, 4, 4, 5} {
		u := users.add(models.User{ID: primitive.NewObjectID(), FirstName: "A", LastName: "B"})
		_, err := svc.AddReview(ctx, created.ID.Hex(), u.ID.Hex(), services.AddReviewInput{
			Rating: rating, Comment: "solid",
		})
		require.NoError(t, err)
	}

	stored, _ := products.FindByID(ctx, created.ID)
	assert.InDelta(t, 4.3, stored.Rating, 1e-9)
	assert.Equal(t, 4, stored.NumReviews)
	assert.Len(t, stored.Reviews, 4)
}

func TestAddReviewDuplicateRejected(t *testing.T) {
	svc, products, _, users := newCatalog()
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)
	u := users.add(models.User{ID: primitive.NewObjectID()})

	_, err = svc.AddReview(ctx, created.ID.Hex(), u.ID.Hex(), services.AddReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, created.ID.Hex(), u.ID.Hex(), services.AddReviewInput{Rating: 1, Comment: "changed my mind"})
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	stored, _ := products.FindByID(ctx, created.ID)
	assert.Len(t, stored.Reviews, 1, "rejected attempt must not grow the review list")
}

func TestGetBySlugExpandsReviewers(t *testing.T) {
	svc, _, categories, users := newCatalog()
	ctx := context.Background()

	cat := categories.add(models.Category{ID: primitive.NewObjectID(), Name: "Footwear", Slug: "footwear"})
	in := createInput("Red Shoes", "SKU-1")
	in.Category = cat.ID.Hex()
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)

	u := users.add(models.User{ID: primitive.NewObjectID(), FirstName: "Asha", LastName: "Verma"})
	_, err = svc.AddReview(ctx, created.ID.Hex(), u.ID.Hex(), services.AddReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	detail, err := svc.GetBySlug(ctx, "red-shoes")
	require.NoError(t, err)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Footwear", detail.Category.Name)
	require.Len(t, detail.Reviews, 1)
	require.NotNil(t, detail.Reviews[0].User)
	assert.Equal(t, "Asha", detail.Reviews[0].User.FirstName)
}

func TestGetBySlugHidesInactive(t *testing.T) {
	svc, _, _, _ := newCatalog()
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput("Red Shoes", "SKU-1"))
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(ctx, created.ID.Hex(), services.UpdateProductInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "red-shoes")
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}

func TestListPaginationMetadata(t *testing.T) {
	svc, products, _, _ := newCatalog()
	ctx := context.Background()

	products.searchTotal = 25
	products.searchResult = []models.Product{{
		ID: primitive.NewObjectID(), Name: "Red Shoes", CreatedAt: time.Now(),
	}}

	q := services.ListQuery{Page: 3, Limit: 12, Sort: services.SortNewest}
	res, err := svc.List(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Pagination.Page)
	assert.Equal(t, int64(3), res.Pagination.Pages)
	assert.Equal(t, int64(25), res.Pagination.Total)
	assert.Equal(t, 12, res.Pagination.Limit)
	require.NotNil(t, products.lastPlan)
	assert.Equal(t, int64(24), products.lastPlan.Skip)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _, _, _ := newCatalog()
	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}
