// Package repositories implements the service-layer store interfaces on
// MongoDB collections.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/metrics"
)

// ProductRepository persists products in the products collection.
type ProductRepository struct {
	col *mongo.Collection
}

// NewProductRepository wraps the given collection.
func NewProductRepository(col *mongo.Collection) *ProductRepository {
	return &ProductRepository{col: col}
}

// Search executes the query plan: a filtered, sorted, paginated find with
// the embedded reviews projected out, plus an unpaginated count.
func (r *ProductRepository) Search(ctx context.Context, plan services.QueryPlan) ([]models.Product, int64, error) {
	defer metrics.ObserveMongo("products", "find", time.Now())

	opts := options.Find().
		SetSort(plan.Sort).
		SetSkip(plan.Skip).
		SetLimit(int64(plan.Limit)).
		SetProjection(bson.M{"reviews": 0})

	cur, err := r.col.Find(ctx, plan.Filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []models.Product
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, plan.Filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	defer metrics.ObserveMongo("products", "find", time.Now())
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ProductRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.Product, error) {
	defer metrics.ObserveMongo("products", "find", time.Now())
	return r.findOne(ctx, bson.M{"slug": slug, "isActive": true})
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) SlugExists(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	defer metrics.ObserveMongo("products", "count", time.Now())
	return r.exists(ctx, "slug", slug, exclude)
}

func (r *ProductRepository) SKUExists(ctx context.Context, sku string, exclude primitive.ObjectID) (bool, error) {
	defer metrics.ObserveMongo("products", "count", time.Now())
	return r.exists(ctx, "sku", sku, exclude)
}

func (r *ProductRepository) exists(ctx context.Context, field, value string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{field: value}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveMongo("products", "insert", time.Now())
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *ProductRepository) Replace(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveMongo("products", "update", time.Now())
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return err
}

// SetReviews writes reviews + rating + numReviews as one $set, so the
// denormalized summary can never drift from the list it summarises.
func (r *ProductRepository) SetReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, rating float64, numReviews int) error {
	defer metrics.ObserveMongo("products", "update", time.Now())
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reviews":    reviews,
		"rating":     rating,
		"numReviews": numReviews,
		"updatedAt":  time.Now().UTC(),
	}})
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveMongo("products", "delete", time.Now())
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	defer metrics.ObserveMongo("products", "count", time.Now())
	return r.col.CountDocuments(ctx, bson.M{"category": categoryID})
}

// DecrementStock subtracts qty guarded by a stock>=qty filter, in a single
// findOneAndUpdate, so concurrent orders can never drive stock negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	defer metrics.ObserveMongo("products", "update", time.Now())

	var p models.Product
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
