package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/priyamehta/aarohi/app/models"
)

func reviews(ratings ...int) []models.Review {
	out := make([]models.Review, len(ratings))
	for i, r := range ratings {
		out[i] = models.Review{Rating: r}
	}
	return out
}

func TestAggregateRating(t *testing.T) {
	tests := []struct {
		name       string
		ratings    []int
		wantRating float64
		wantCount  int
	}{
		{"empty list resets summary", nil, 0, 0},
		{"single review", []int{4}, 4.0, 1},
		{"mean rounds half up", []int{4, 4, 4, 5}, 4.3, 4}, // mean 4.25
		{"all fives", []int{5, 5, 5}, 5.0, 3},
		{"mixed", []int{1, 5}, 3.0, 2},
		{"two decimals round up", []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 5}, 4.1, 20}, // mean 4.05
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, count := models.AggregateRating(reviews(tt.ratings...))
			assert.InDelta(t, tt.wantRating, rating, 1e-9)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestRecalculateRating(t *testing.T) {
	p := models.Product{Reviews: reviews(3, 4)}
	p.RecalculateRating()
	assert.InDelta(t, 3.5, p.Rating, 1e-9)
	assert.Equal(t, 2, p.NumReviews)

	p.Reviews = nil
	p.RecalculateRating()
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.NumReviews)
}

func TestIsLowStock(t *testing.T) {
	p := models.Product{Stock: 5, LowStockThreshold: 10}
	assert.True(t, p.IsLowStock())

	p.Stock = 10 // threshold is exclusive
	assert.False(t, p.IsLowStock())
}
