package seeders

import (
	"context"
	"fmt"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/apperr"
)

func init() {
	Register("users", SeedUsers)
	Register("catalog", SeedCatalog)
}

// SeedUsers creates a demo admin and shopper account. Existing accounts are
// left alone so the seeder can be re-run.
func SeedUsers(ctx context.Context, deps *Deps) error {
	accounts := []services.RegisterInput{
		{Username: "admin", FirstName: "Priya", LastName: "Mehta", Email: "admin@aarohi.dev", Password: "admin-secret-1"},
		{Username: "shopper", FirstName: "Arjun", LastName: "Rao", Email: "shopper@aarohi.dev", Password: "shopper-secret-1"},
	}
	for _, in := range accounts {
		if _, err := deps.Auth.Register(ctx, in); err != nil {
			if apperr.IsConflict(err) {
				continue
			}
			return err
		}
	}
	return deps.Auth.Promote(ctx, "admin@aarohi.dev")
}

// SeedCatalog creates demo categories and products through the catalog
// service, so every seeded product gets a real slug and validated fields.
func SeedCatalog(ctx context.Context, deps *Deps) error {
	categoryIDs := map[string]string{}
	for i, c := range demoCategories() {
		c.SortOrder = i
		cat, err := deps.Categories.Create(ctx, c)
		if err != nil {
			if apperr.IsConflict(err) {
				// Re-runs hit the name-uniqueness check; resolve the id.
				existing, lookupErr := findCategoryByName(ctx, deps, c.Name)
				if lookupErr != nil {
					return lookupErr
				}
				categoryIDs[c.Name] = existing.ID.Hex()
				continue
			}
			return err
		}
		categoryIDs[c.Name] = cat.ID.Hex()
	}

	for _, p := range demoProducts() {
		catID, ok := categoryIDs[p.category]
		if !ok {
			return fmt.Errorf("seed product %q references unknown category %q", p.input.Name, p.category)
		}
		p.input.Category = catID
		if _, err := deps.Catalog.Create(ctx, p.input); err != nil {
			if apperr.IsConflict(err) {
				continue // sku already seeded
			}
			return err
		}
	}
	return nil
}

func findCategoryByName(ctx context.Context, deps *Deps, name string) (*models.Category, error) {
	cats, err := deps.Categories.List(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].Name == name {
			return &cats[i], nil
		}
	}
	return nil, fmt.Errorf("category %q not found after conflict", name)
}

func demoCategories() []services.CreateCategoryInput {
	return []services.CreateCategoryInput{
		{Name: "Electronics", Description: "Phones, audio, and accessories"},
		{Name: "Home & Kitchen", Description: "Everyday essentials for the home"},
		{Name: "Sports & Outdoors", Description: "Gear for training and trails"},
	}
}

type demoProduct struct {
	category string
	input    services.CreateProductInput
}

func demoProducts() []demoProduct {
	sale := func(v float64) *float64 { return &v }
	featured := true

	return []demoProduct{
		{
			category: "Electronics",
			input: services.CreateProductInput{
				Name:        "Wireless Earbuds Pro",
				SKU:         "ELEC-EARBUD-001",
				Description: "Active noise cancelling earbuds with 28h battery life.",
				Price:       129.99,
				SalePrice:   sale(99.99),
				Stock:       120,
				Tags:        []string{"audio", "wireless", "anc"},
				IsFeatured:  &featured,
				Images: []models.ProductImage{
					{URL: "https://cdn.aarohi.dev/demo/earbuds.jpg", Alt: "Wireless Earbuds Pro", IsPrimary: true},
				},
				Specifications: []models.Specification{
					{Name: "Battery", Value: "28 hours with case"},
					{Name: "Bluetooth", Value: "5.3"},
				},
			},
		},
		{
			category: "Electronics",
			input: services.CreateProductInput{
				Name:        "Smart Speaker Mini",
				SKU:         "ELEC-SPEAK-002",
				Description: "Compact smart speaker with room-filling sound.",
				Price:       49.0,
				Stock:       200,
				Tags:        []string{"audio", "smart-home"},
			},
		},
		{
			category: "Home & Kitchen",
			input: services.CreateProductInput{
				Name:        "Cast Iron Skillet 26cm",
				SKU:         "HOME-SKILL-001",
				Description: "Pre-seasoned cast iron skillet, oven safe to 260°C.",
				Price:       39.5,
				Stock:       80,
				Tags:        []string{"cookware", "cast-iron"},
				Weight:      2.4,
			},
		},
		{
			category: "Home & Kitchen",
			input: services.CreateProductInput{
				Name:        "Pour-Over Coffee Kettle",
				SKU:         "HOME-KETTL-002",
				Description: "Gooseneck kettle with built-in thermometer.",
				Price:       44.0,
				SalePrice:   sale(36.0),
				Stock:       60,
				Tags:        []string{"coffee", "kettle"},
			},
		},
		{
			category: "Sports & Outdoors",
			input: services.CreateProductInput{
				Name:        "Trail Running Shoes",
				SKU:         "SPRT-SHOES-001",
				Description: "Lightweight trail shoes with aggressive grip.",
				Price:       119.0,
				Stock:       45,
				Tags:        []string{"running", "trail", "shoes"},
				IsFeatured:  &featured,
				Variants: []models.Variant{
					{Name: "Size", Value: "42", Price: 119.0, Stock: 20},
					{Name: "Size", Value: "43", Price: 119.0, Stock: 25},
				},
			},
		},
		{
			category: "Sports & Outdoors",
			input: services.CreateProductInput{
				Name:        "Insulated Water Bottle 1L",
				SKU:         "SPRT-BOTTL-002",
				Description: "Double-wall steel bottle, keeps drinks cold 24h.",
				Price:       24.9,
				Stock:       150,
				Tags:        []string{"hydration", "outdoor"},
			},
		},
	}
}
