package ledgerRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/models"
)

// InsertIfFree performs the overlap and daily-cap checks and the insert as a
// single MongoDB transaction, so two racing bookings for the same window
// cannot both commit even across service instances. The booking coordinator
// additionally serializes per doctor in-process; this is the storage-level
// backstop.
func (r *MongoLedgerRepo) InsertIfFree(ctx context.Context, appt *models.Appointment, dailyCap int) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Half-open overlap test: start < existing.end && existing.start < end.
		overlapFilter := bson.M{
			"doctorId": appt.DoctorID,
			"date":     appt.Date.String(),
			"status":   bson.M{"$in": activeStatuses},
			"start":    bson.M{"$lt": appt.End},
			"end":      bson.M{"$gt": appt.Start},
		}
		n, err := r.coll.CountDocuments(sc, overlapFilter)
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return ErrSlotTaken
		}

		if dailyCap > 0 {
			dayFilter := bson.M{
				"doctorId": appt.DoctorID,
				"date":     appt.Date.String(),
				"status":   bson.M{"$in": activeStatuses},
			}
			booked, err := r.coll.CountDocuments(sc, dayFilter)
			if err != nil {
				return fmt.Errorf("daily cap check failed: %w", err)
			}
			if int(booked) >= dailyCap {
				return ErrCapacityReached
			}
		}

		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
