package doctorRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

const queryTimeout = 5 * time.Second

// MongoDoctorRepo is the MongoDB-backed profile store.
type MongoDoctorRepo struct {
	coll *mongo.Collection
}

// NewMongoDoctorRepo returns a repo bound to the "doctors" collection.
func NewMongoDoctorRepo() *MongoDoctorRepo {
	return &MongoDoctorRepo{coll: database.DB().Collection("doctors")}
}

func (r *MongoDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc models.Doctor
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor %s: %w", id, err)
	}
	return &doc, nil
}

func (r *MongoDoctorRepo) Create(ctx context.Context, doc *models.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert doctor: %w", err)
	}
	return nil
}

func (r *MongoDoctorRepo) ReplaceWeeklyTemplate(ctx context.Context, doctorID string, template models.WeeklyTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"weeklyTemplate": template,
		"updatedAt":      time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update)
	if err != nil {
		return fmt.Errorf("failed to replace weekly template: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDoctorRepo) AddBreak(ctx context.Context, doctorID string, br models.BreakInterval) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"breaks": br},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update)
	if err != nil {
		return fmt.Errorf("failed to add break: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDoctorRepo) RemoveBreak(ctx context.Context, doctorID, breakID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"breaks": bson.M{"id": breakID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove break: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		// Doctor exists but no break matched the id.
		return ErrNotFound
	}
	return nil
}

func (r *MongoDoctorRepo) UpdateSlotSettings(ctx context.Context, doctorID string, slotMinutes, dailyCap int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"slotDurationMinutes":   slotMinutes,
		"maxAppointmentsPerDay": dailyCap,
		"updatedAt":             time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": doctorID}, update)
	if err != nil {
		return fmt.Errorf("failed to update slot settings: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
