package ledgerRepo

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

// activeStatuses are the statuses that still occupy slot time.
var activeStatuses = bson.A{
	models.StatusScheduled,
	models.StatusConfirmed,
	models.StatusInProgress,
	models.StatusCompleted,
}

// MongoLedgerRepo is the MongoDB-backed appointment ledger.
type MongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo returns a repo bound to the "appointments" collection.
func NewMongoLedgerRepo() *MongoLedgerRepo {
	return &MongoLedgerRepo{coll: database.DB().Collection("appointments")}
}

func (r *MongoLedgerRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoLedgerRepo) GetByRequestToken(ctx context.Context, doctorID, token string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"doctorId": doctorID, "requestToken": token}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up request token: %w", err)
	}
	return &appt, nil
}

func (r *MongoLedgerRepo) ListForDay(ctx context.Context, doctorID string, date models.CalendarDate) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"doctorId": doctorID, "date": date.String()}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoLedgerRepo) ListRange(ctx context.Context, doctorID string, from, to models.CalendarDate) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// CalendarDate marshals as "YYYY-MM-DD", so lexicographic range matches
	// chronological order.
	filter := bson.M{
		"doctorId": doctorID,
		"date":     bson.M{"$gte": from.String(), "$lte": to.String()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment range: %w", err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointment range: %w", err)
	}
	return appts, nil
}

func (r *MongoLedgerRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
