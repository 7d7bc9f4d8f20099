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
	"github.com/priyamehta/aarohi/pkg/metrics"
)

// OrderRepository persists orders.
type OrderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository wraps the given collection.
func NewOrderRepository(col *mongo.Collection) *OrderRepository {
	return &OrderRepository{col: col}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveMongo("orders", "insert", time.Now())
	_, err := r.col.InsertOne(ctx, o)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	defer metrics.ObserveMongo("orders", "find", time.Now())

	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	defer metrics.ObserveMongo("orders", "find", time.Now())
	return r.find(ctx, bson.M{"user": userID})
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	defer metrics.ObserveMongo("orders", "find", time.Now())
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	defer metrics.ObserveMongo("orders", "update", time.Now())
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	return err
}
