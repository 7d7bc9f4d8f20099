// Package graphql exposes a read-only GraphQL surface over the catalog.
// It executes the same query plan as the REST list endpoint.
package graphql

import (
	"fmt"
	"net/url"

	"github.com/graphql-go/graphql"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/app/services"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if ref, ok := p.Source.(*models.CategoryRef); ok && ref != nil {
					return ref.ID.Hex(), nil
				}
				return nil, nil
			},
		},
		"name": &graphql.Field{Type: graphql.String},
		"slug": &graphql.Field{Type: graphql.String},
	},
})

var imageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductImage",
	Fields: graphql.Fields{
		"url":       &graphql.Field{Type: graphql.String},
		"alt":       &graphql.Field{Type: graphql.String},
		"isPrimary": &graphql.Field{Type: graphql.Boolean},
	},
})

var reviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Review",
	Fields: graphql.Fields{
		// Explicit resolvers: the default resolver does not see through the
		// embedded Review struct inside ReviewView.
		"rating": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if v, ok := p.Source.(services.ReviewView); ok {
					return v.Rating, nil
				}
				return nil, nil
			},
		},
		"comment": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if v, ok := p.Source.(services.ReviewView); ok {
					return v.Comment, nil
				}
				return nil, nil
			},
		},
	},
})

var paginationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pagination",
	Fields: graphql.Fields{
		"page":  &graphql.Field{Type: graphql.Int},
		"pages": &graphql.Field{Type: graphql.Int},
		"total": &graphql.Field{Type: graphql.Int},
		"limit": &graphql.Field{Type: graphql.Int},
	},
})

// sourceProduct unwraps either catalog response shape to its product.
func sourceProduct(p graphql.ResolveParams) (models.Product, bool) {
	switch v := p.Source.(type) {
	case services.ProductView:
		return v.Product, true
	case *services.ProductDetail:
		return v.Product, true
	}
	return models.Product{}, false
}

// scalar builds a resolver for one product attribute; the default resolver
// cannot reach fields promoted from the embedded product struct.
func scalar(get func(models.Product) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if prod, ok := sourceProduct(p); ok {
			return get(prod), nil
		}
		return nil, nil
	}
}

func productFields() graphql.Fields {
	return graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String, Resolve: scalar(func(m models.Product) interface{} { return m.ID.Hex() })},
		"name":        &graphql.Field{Type: graphql.String, Resolve: scalar(func(m models.Product) interface{} { return m.Name })},
		"slug":        &graphql.Field{Type: graphql.String, Resolve: scalar(func(m models.Product) interface{} { return m.Slug })},
		"sku":         &graphql.Field{Type: graphql.String, Resolve: scalar(func(m models.Product) interface{} { return m.SKU })},
		"description": &graphql.Field{Type: graphql.String, Resolve: scalar(func(m models.Product) interface{} { return m.Description })},
		"price":       &graphql.Field{Type: graphql.Float, Resolve: scalar(func(m models.Product) interface{} { return m.Price })},
		"salePrice":   &graphql.Field{Type: graphql.Float, Resolve: scalar(func(m models.Product) interface{} { return m.SalePrice })},
		"stock":       &graphql.Field{Type: graphql.Int, Resolve: scalar(func(m models.Product) interface{} { return m.Stock })},
		"rating":      &graphql.Field{Type: graphql.Float, Resolve: scalar(func(m models.Product) interface{} { return m.Rating })},
		"numReviews":  &graphql.Field{Type: graphql.Int, Resolve: scalar(func(m models.Product) interface{} { return m.NumReviews })},
		"isFeatured":  &graphql.Field{Type: graphql.Boolean, Resolve: scalar(func(m models.Product) interface{} { return m.IsFeatured })},
		"tags":        &graphql.Field{Type: graphql.NewList(graphql.String), Resolve: scalar(func(m models.Product) interface{} { return m.Tags })},
		"images":      &graphql.Field{Type: graphql.NewList(imageType), Resolve: scalar(func(m models.Product) interface{} { return m.Images })},
		"category": &graphql.Field{
			Type: categoryType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch v := p.Source.(type) {
				case services.ProductView:
					return v.Category, nil
				case *services.ProductDetail:
					return v.Category, nil
				}
				return nil, nil
			},
		},
	}
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name:   "Product",
	Fields: productFields(),
})

var productDetailType = func() *graphql.Object {
	fields := productFields()
	fields["reviews"] = &graphql.Field{Type: graphql.NewList(reviewType)}
	return graphql.NewObject(graphql.ObjectConfig{Name: "ProductDetail", Fields: fields})
}()

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"products":   &graphql.Field{Type: graphql.NewList(productType)},
		"pagination": &graphql.Field{Type: paginationType},
	},
})

// listArgs mirror the REST query parameters one to one.
var listArgs = graphql.FieldConfigArgument{
	"search":    &graphql.ArgumentConfig{Type: graphql.String},
	"category":  &graphql.ArgumentConfig{Type: graphql.String},
	"minPrice":  &graphql.ArgumentConfig{Type: graphql.Float},
	"maxPrice":  &graphql.ArgumentConfig{Type: graphql.Float},
	"minRating": &graphql.ArgumentConfig{Type: graphql.Float},
	"featured":  &graphql.ArgumentConfig{Type: graphql.Boolean},
	"page":      &graphql.ArgumentConfig{Type: graphql.Int},
	"limit":     &graphql.ArgumentConfig{Type: graphql.Int},
	"sort":      &graphql.ArgumentConfig{Type: graphql.String},
}

// argsToParams renders GraphQL arguments back into the string parameter bag
// the catalog query builder accepts, so both surfaces share one parser.
func argsToParams(args map[string]interface{}) url.Values {
	params := url.Values{}
	for key, val := range args {
		if val == nil {
			continue
		}
		params.Set(key, fmt.Sprintf("%v", val))
	}
	return params
}

// NewSchema builds the read-only catalog schema over the catalog service.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: productPageType,
				Args: listArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := services.ParseListQuery(argsToParams(p.Args))
					res, err := catalog.List(p.Context, q)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"products":   res.Products,
						"pagination": res.Pagination,
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: productDetailType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					slug, _ := p.Args["slug"].(string)
					return catalog.GetBySlug(p.Context, slug)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: root})
}
