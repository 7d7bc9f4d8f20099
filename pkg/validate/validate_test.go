package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/priyamehta/aarohi/pkg/validate"
)

type productInput struct {
	Name  string   `json:"name" validate:"required,min=2,max=100"`
	SKU   string   `json:"sku" validate:"required,alpha_dash"`
	Price float64  `json:"price" validate:"required,gte=0"`
	Stock *int     `json:"stock" validate:"nullable,integer,gte=0"`
	Image string   `json:"image" validate:"nullable,url"`
	Tags  []string `json:"tags" validate:"nullable"`
}

func TestStructValid(t *testing.T) {
	stock := 10
	errs := validate.Struct(productInput{
		Name:  "Red Shoes",
		SKU:   "SKU-001",
		Price: 59.99,
		Stock: &stock,
		Image: "https://cdn.example.com/shoes.jpg",
	})
	assert.False(t, validate.HasErrors(errs), "expected no errors, got %v", errs)
}

func TestStructRequired(t *testing.T) {
	errs := validate.Struct(productInput{Price: 10})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "sku")
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mug", SKU: "MUG-1", Price: 5})
	// Stock is nil and Image is empty — nullable should skip both.
	assert.NotContains(t, errs, "stock")
	assert.NotContains(t, errs, "image")
}

func TestNullableStillValidatesPresent(t *testing.T) {
	neg := -3
	errs := validate.Struct(productInput{Name: "Mug", SKU: "MUG-1", Price: 5, Stock: &neg})
	assert.Contains(t, errs, "stock")
}

func TestAlphaDash(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mug", SKU: "bad sku!", Price: 5})
	assert.Contains(t, errs, "sku")
}

func TestURL(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mug", SKU: "MUG-1", Price: 5, Image: "not-a-url"})
	assert.Contains(t, errs, "image")
}

func TestInRuleKeepsMultiValueParam(t *testing.T) {
	type q struct {
		Sort string `json:"sort" validate:"nullable,in=price-asc,price-desc,rating,newest,name"`
	}
	assert.False(t, validate.HasErrors(validate.Struct(q{Sort: "price-desc"})))
	assert.False(t, validate.HasErrors(validate.Struct(q{Sort: ""})))
	assert.True(t, validate.HasErrors(validate.Struct(q{Sort: "oldest"})))
}

func TestBetweenNumeric(t *testing.T) {
	type q struct {
		Rating int `json:"rating" validate:"required,between=1,5"`
	}
	assert.False(t, validate.HasErrors(validate.Struct(q{Rating: 3})))
	assert.True(t, validate.HasErrors(validate.Struct(q{Rating: 6})))
}

func TestEmail(t *testing.T) {
	type u struct {
		Email string `json:"email" validate:"required,email"`
	}
	assert.False(t, validate.HasErrors(validate.Struct(u{Email: "ravi@example.com"})))
	assert.True(t, validate.HasErrors(validate.Struct(u{Email: "ravi@"})))
}

func TestMinMaxStringLength(t *testing.T) {
	errs := validate.Struct(productInput{Name: "X", SKU: "A-1", Price: 1})
	assert.Contains(t, errs, "name")
}
