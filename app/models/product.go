// Package models holds the MongoDB document types for the catalog.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog's central document. Reviews are embedded, and the
// (rating, numReviews) pair is a denormalized summary of them — always
// recomputed via AggregateRating, never adjusted incrementally.
type Product struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name              string              `bson:"name" json:"name"`
	Slug              string              `bson:"slug" json:"slug"`
	SKU               string              `bson:"sku" json:"sku"`
	Description       string              `bson:"description" json:"description"`
	Price             float64             `bson:"price" json:"price"`
	SalePrice         *float64            `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	Stock             int                 `bson:"stock" json:"stock"`
	LowStockThreshold int                 `bson:"lowStockThreshold" json:"lowStockThreshold"`
	Category          primitive.ObjectID  `bson:"category" json:"category"`
	Images            []ProductImage      `bson:"images" json:"images"`
	Specifications    []Specification     `bson:"specifications" json:"specifications"`
	Variants          []Variant           `bson:"variants" json:"variants"`
	Tags              []string            `bson:"tags" json:"tags"`
	Rating            float64             `bson:"rating" json:"rating"`
	NumReviews        int                 `bson:"numReviews" json:"numReviews"`
	Reviews           []Review            `bson:"reviews" json:"reviews"`
	IsActive          bool                `bson:"isActive" json:"isActive"`
	IsFeatured        bool                `bson:"isFeatured" json:"isFeatured"`
	Weight            float64             `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimensions        *Dimensions         `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Review is a customer review embedded in its product document.
// At most one review per (product, user) pair.
type Review struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductImage is one entry in the product's ordered image list.
type ProductImage struct {
	URL       string `bson:"url" json:"url"`
	Alt       string `bson:"alt,omitempty" json:"alt,omitempty"`
	IsPrimary bool   `bson:"isPrimary" json:"isPrimary"`
}

// Specification is a free-form name/value attribute.
type Specification struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

// Variant is a purchasable variation of the product (size, colour).
type Variant struct {
	Name  string  `bson:"name" json:"name"`
	Value string  `bson:"value" json:"value"`
	Price float64 `bson:"price" json:"price"`
	Stock int     `bson:"stock" json:"stock"`
}

// Dimensions in centimetres.
type Dimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// AggregateRating computes the denormalized review summary.
// An empty list yields (0, 0). Otherwise the rating is the arithmetic mean
// rounded half-up to one decimal: [4,4,4,5] → 4.3, mean 4.05 → 4.1.
func AggregateRating(reviews []Review) (rating float64, numReviews int) {
	if len(reviews) == 0 {
		return 0, 0
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}

	// Round the mean half-up to one decimal in integer arithmetic.
	// Floating point would miss exact halves: 81/20 is stored as
	// 4.04999…, which math.Round(mean*10) drops to 4.0 instead of 4.1.
	n := len(reviews)
	tenths := (20*sum + n) / (2 * n)
	return float64(tenths) / 10, n
}

// RecalculateRating refreshes the product's denormalized summary from its
// embedded reviews.
func (p *Product) RecalculateRating() {
	p.Rating, p.NumReviews = AggregateRating(p.Reviews)
}

// IsLowStock reports whether the product's stock has fallen below its
// configured threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock < p.LowStockThreshold
}
