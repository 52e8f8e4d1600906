package leaveRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/database"
	"medibook/models"
)

const queryTimeout = 5 * time.Second

// MongoLeaveRepo is the MongoDB-backed leave store.
type MongoLeaveRepo struct {
	coll *mongo.Collection
}

// NewMongoLeaveRepo returns a repo bound to the "leaves" collection.
func NewMongoLeaveRepo() *MongoLeaveRepo {
	return &MongoLeaveRepo{coll: database.DB().Collection("leaves")}
}

func (r *MongoLeaveRepo) Insert(ctx context.Context, lr *models.LeaveRange) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	lr.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, lr); err != nil {
		return fmt.Errorf("failed to insert leave range: %w", err)
	}
	return nil
}

func (r *MongoLeaveRepo) GetByID(ctx context.Context, id string) (*models.LeaveRange, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var lr models.LeaveRange
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&lr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leave range %s: %w", id, err)
	}
	return &lr, nil
}

func (r *MongoLeaveRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete leave range %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoLeaveRepo) ListForDoctor(ctx context.Context, doctorID string) ([]models.LeaveRange, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"doctorId": doctorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave ranges: %w", err)
	}
	defer cur.Close(ctx)

	var ranges []models.LeaveRange
	if err := cur.All(ctx, &ranges); err != nil {
		return nil, fmt.Errorf("failed to decode leave ranges: %w", err)
	}
	return ranges, nil
}

func (r *MongoLeaveRepo) ListCovering(ctx context.Context, doctorID string, date models.CalendarDate) ([]models.LeaveRange, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Dates are stored as "YYYY-MM-DD" strings; string comparison matches
	// chronological comparison.
	filter := bson.M{
		"doctorId":  doctorID,
		"startDate": bson.M{"$lte": date.String()},
		"endDate":   bson.M{"$gte": date.String()},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query covering leave ranges: %w", err)
	}
	defer cur.Close(ctx)

	var ranges []models.LeaveRange
	if err := cur.All(ctx, &ranges); err != nil {
		return nil, fmt.Errorf("failed to decode covering leave ranges: %w", err)
	}
	return ranges, nil
}
