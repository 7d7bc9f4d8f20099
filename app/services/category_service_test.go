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

func newCategorySvc() (*services.CategoryService, *fakeCategories, *fakeProducts) {
	categories := newFakeCategories()
	products := newFakeProducts()
	return services.NewCategoryService(categories, products), categories, products
}

func TestCategoryCreate(t *testing.T) {
	svc, _, _ := newCategorySvc()

	c, err := svc.Create(context.Background(), services.CreateCategoryInput{Name: "Home & Kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "home-kitchen", c.Slug)
	assert.True(t, c.IsActive)
}

func TestCategoryNameConflict(t *testing.T) {
	svc, _, _ := newCategorySvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, services.CreateCategoryInput{Name: "Footwear"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, services.CreateCategoryInput{Name: "footwear"})
	assert.True(t, apperr.IsConflict(err), "got %v", err)
}

func TestCategoryDeleteRestrictedWhileReferenced(t *testing.T) {
	svc, categories, products := newCategorySvc()
	ctx := context.Background()

	cat := categories.add(models.Category{ID: primitive.NewObjectID(), Name: "Footwear", Slug: "footwear"})
	products.add(models.Product{ID: primitive.NewObjectID(), Category: cat.ID})

	err := svc.Delete(ctx, cat.ID.Hex())
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	still, _ := categories.FindByID(ctx, cat.ID)
	assert.NotNil(t, still, "restricted delete must not remove the category")
}

func TestCategoryDeleteWhenEmpty(t *testing.T) {
	svc, categories, _ := newCategorySvc()
	ctx := context.Background()

	cat := categories.add(models.Category{ID: primitive.NewObjectID(), Name: "Footwear", Slug: "footwear"})

	require.NoError(t, svc.Delete(ctx, cat.ID.Hex()))
	gone, _ := categories.FindByID(ctx, cat.ID)
	assert.Nil(t, gone)
}

func TestCategoryListActiveOnlyOrdered(t *testing.T) {
	svc, categories, _ := newCategorySvc()

	categories.add(models.Category{ID: primitive.NewObjectID(), Name: "B", SortOrder: 1, IsActive: true})
	categories.add(models.Category{ID: primitive.NewObjectID(), Name: "A", SortOrder: 1, IsActive: true})
	categories.add(models.Category{ID: primitive.NewObjectID(), Name: "Hidden", SortOrder: 0, IsActive: false})

	out, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Name)
	assert.Equal(t, "B", out[1].Name)
}
