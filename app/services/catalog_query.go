package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defaults for catalog list pagination.
const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// SortNewest is the default sort key.
const SortNewest = "newest"

// ListQuery is the parsed, typed form of the catalog list parameters.
type ListQuery struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Featured  bool
	Page      int
	Limit     int
	Sort      string
}

// ParseListQuery converts untrusted string params into a ListQuery.
// It is total: unparseable or out-of-range values fall back to defaults and
// never produce an error.
func ParseListQuery(params url.Values) ListQuery {
	q := ListQuery{
		Search:   strings.TrimSpace(params.Get("search")),
		Category: strings.TrimSpace(params.Get("category")),
		Featured: params.Get("featured") == "true", // only the literal "true"
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		Sort:     SortNewest,
	}

	if f, err := strconv.ParseFloat(params.Get("minPrice"), 64); err == nil {
		q.MinPrice = &f
	}
	if f, err := strconv.ParseFloat(params.Get("maxPrice"), 64); err == nil {
		q.MaxPrice = &f
	}
	if f, err := strconv.ParseFloat(params.Get("minRating"), 64); err == nil {
		q.MinRating = &f
	}

	if n, err := strconv.Atoi(params.Get("page")); err == nil && n > 0 {
		q.Page = n
	}
	if n, err := strconv.Atoi(params.Get("limit")); err == nil && n > 0 {
		q.Limit = n
	}

	switch s := params.Get("sort"); s {
	case "price-asc", "price-desc", "rating", "newest", "name":
		q.Sort = s
	}

	return q
}

// QueryPlan is the executable form of a ListQuery: a Mongo filter, a sort
// order, and pagination offsets.
type QueryPlan struct {
	Filter bson.M
	Sort   bson.D
	Page   int
	Limit  int
	Skip   int64
}

// Plan compiles the query into a Mongo filter + sort + pagination plan.
// Only active products are ever matched; there is no way to opt out.
func (q ListQuery) Plan() QueryPlan {
	filter := bson.M{"isActive": true}

	if q.Search != "" {
		// Case-insensitive substring match; QuoteMeta keeps user input from
		// being interpreted as a regex.
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}

	if q.Category != "" {
		if oid, err := primitive.ObjectIDFromHex(q.Category); err == nil {
			filter["category"] = oid
		} else {
			// Not a valid id — match nothing rather than everything.
			filter["category"] = primitive.NilObjectID
		}
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}

	if q.Featured {
		filter["isFeatured"] = true
	}

	var sort bson.D
	switch q.Sort {
	case "price-asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		sort = bson.D{{Key: "price", Value: -1}}
	case "rating":
		sort = bson.D{{Key: "rating", Value: -1}}
	case "name":
		sort = bson.D{{Key: "name", Value: 1}}
	default: // newest
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}

	return QueryPlan{
		Filter: filter,
		Sort:   sort,
		Page:   q.Page,
		Limit:  q.Limit,
		Skip:   int64(q.Page-1) * int64(q.Limit),
	}
}

// Pages computes the total page count for a result set of total documents.
func (p QueryPlan) Pages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	limit := int64(p.Limit)
	return (total + limit - 1) / limit
}
