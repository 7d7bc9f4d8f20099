package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/pkg/metrics"
)

// CategoryRepository persists categories.
type CategoryRepository struct {
	col *mongo.Collection
}

// NewCategoryRepository wraps the given collection.
func NewCategoryRepository(col *mongo.Collection) *CategoryRepository {
	return &CategoryRepository{col: col}
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	defer metrics.ObserveMongo("categories", "find", time.Now())

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "sortOrder", Value: 1},
		{Key: "name", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Category
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	defer metrics.ObserveMongo("categories", "find", time.Now())
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	defer metrics.ObserveMongo("categories", "find", time.Now())
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var c models.Category
	err := r.col.FindOne(ctx, filter).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// NameExists matches names case-insensitively so "Footwear" and "footwear"
// cannot coexist (they would collide on the slug anyway).
func (r *CategoryRepository) NameExists(ctx context.Context, name string, exclude primitive.ObjectID) (bool, error) {
	defer metrics.ObserveMongo("categories", "count", time.Now())

	filter := bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CategoryRepository) Insert(ctx context.Context, c *models.Category) error {
	defer metrics.ObserveMongo("categories", "insert", time.Now())
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *CategoryRepository) Replace(ctx context.Context, c *models.Category) error {
	defer metrics.ObserveMongo("categories", "update", time.Now())
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	return err
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveMongo("categories", "delete", time.Now())
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
