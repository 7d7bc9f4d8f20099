package services_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyamehta/aarohi/app/services"
)

func TestParseListQueryDefaults(t *testing.T) {
	q := services.ParseListQuery(url.Values{})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 12, q.Limit)
	assert.Equal(t, services.SortNewest, q.Sort)
	assert.False(t, q.Featured)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Nil(t, q.MinRating)
}

func TestParseListQueryCoercion(t *testing.T) {
	tests := []struct {
		name      string
		params    url.Values
		wantPage  int
		wantLimit int
		wantSort  string
	}{
		{"garbage page", url.Values{"page": {"abc"}}, 1, 12, "newest"},
		{"negative page", url.Values{"page": {"-3"}}, 1, 12, "newest"},
		{"zero page", url.Values{"page": {"0"}}, 1, 12, "newest"},
		{"garbage limit", url.Values{"limit": {"x"}}, 1, 12, "newest"},
		{"unknown sort", url.Values{"sort": {"oldest"}}, 1, 12, "newest"},
		{"valid values", url.Values{"page": {"3"}, "limit": {"24"}, "sort": {"price-asc"}}, 3, 24, "price-asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := services.ParseListQuery(tt.params)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantSort, q.Sort)
		})
	}
}

func TestParseListQueryFeaturedLiteralTrue(t *testing.T) {
	assert.True(t, services.ParseListQuery(url.Values{"featured": {"true"}}).Featured)
	assert.False(t, services.ParseListQuery(url.Values{"featured": {"TRUE"}}).Featured)
	assert.False(t, services.ParseListQuery(url.Values{"featured": {"1"}}).Featured)
	assert.False(t, services.ParseListQuery(url.Values{"featured": {"yes"}}).Featured)
}

func TestPlanAlwaysFiltersActive(t *testing.T) {
	plan := services.ParseListQuery(url.Values{}).Plan()
	assert.Equal(t, true, plan.Filter["isActive"])
}

func TestPlanPriceRange(t *testing.T) {
	plan := services.ParseListQuery(url.Values{"minPrice": {"10"}, "maxPrice": {"50.5"}}).Plan()
	price, ok := plan.Filter["price"].(bson.M)
	if !ok {
		t.Fatalf("price filter missing: %v", plan.Filter)
	}
	assert.Equal(t, 10.0, price["$gte"])
	assert.Equal(t, 50.5, price["$lte"])

	// Either bound may stand alone.
	plan = services.ParseListQuery(url.Values{"minPrice": {"5"}}).Plan()
	price = plan.Filter["price"].(bson.M)
	assert.Equal(t, 5.0, price["$gte"])
	assert.NotContains(t, price, "$lte")
}

func TestPlanSearchMatchesNameDescriptionTags(t *testing.T) {
	plan := services.ParseListQuery(url.Values{"search": {"red (shoes)"}}).Plan()
	or, ok := plan.Filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("$or missing: %v", plan.Filter)
	}
	assert.Len(t, or, 3)

	re := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, "i", re.Options)
	// Regex metacharacters in user input are escaped.
	assert.Contains(t, re.Pattern, `\(shoes\)`)
}

func TestPlanCategory(t *testing.T) {
	oid := primitive.NewObjectID()
	plan := services.ParseListQuery(url.Values{"category": {oid.Hex()}}).Plan()
	assert.Equal(t, oid, plan.Filter["category"])

	// A malformed id matches nothing rather than everything.
	plan = services.ParseListQuery(url.Values{"category": {"not-an-id"}}).Plan()
	assert.Equal(t, primitive.NilObjectID, plan.Filter["category"])
}

func TestPlanSortMapping(t *testing.T) {
	tests := []struct {
		sort string
		want bson.D
	}{
		{"price-asc", bson.D{{Key: "price", Value: 1}}},
		{"price-desc", bson.D{{Key: "price", Value: -1}}},
		{"rating", bson.D{{Key: "rating", Value: -1}}},
		{"name", bson.D{{Key: "name", Value: 1}}},
		{"newest", bson.D{{Key: "createdAt", Value: -1}}},
		{"", bson.D{{Key: "createdAt", Value: -1}}},
	}
	for _, tt := range tests {
		plan := services.ParseListQuery(url.Values{"sort": {tt.sort}}).Plan()
		assert.Equal(t, tt.want, plan.Sort, "sort=%q", tt.sort)
	}
}

func TestPlanPaginationArithmetic(t *testing.T) {
	plan := services.ParseListQuery(url.Values{"page": {"3"}, "limit": {"12"}}).Plan()
	assert.Equal(t, int64(24), plan.Skip)
	assert.Equal(t, int64(3), plan.Pages(25))
	assert.Equal(t, int64(1), plan.Pages(12))
	assert.Equal(t, int64(0), plan.Pages(0))
}
