package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"agendo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements Repository on MongoDB.
//
// Mongo has no interval-exclusion unique constraint, so InsertIfNoOverlap
// runs a multi-document transaction that first bumps a per-tenant lock
// document. Concurrent transactions on the same tenant then collide on
// that write and one of them aborts, which serializes the
// check-overlap-then-insert sequence at the store rather than in process.
type MongoAppointmentRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection
}

// NewMongoAppointmentRepo builds the repo over the given database.
func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{
		coll:  db.Collection("appointments"),
		locks: db.Collection("tenant_booking_locks"),
	}
}

// blockingFilter matches rows that occupy [start,end) at instant now:
// confirmed rows, and pending rows whose hold has not yet expired.
func blockingFilter(tenantID string, start, end, now time.Time) bson.M {
	return bson.M{
		"tenant_id": tenantID,
		"start":     bson.M{"$lt": end},
		"end":       bson.M{"$gt": start},
		"$or": bson.A{
			bson.M{"status": models.StatusConfirmed},
			bson.M{"status": models.StatusPending, "expires_at": bson.M{"$gt": now}},
		},
	}
}

func (r *MongoAppointmentRepo) InsertIfNoOverlap(ctx context.Context, appt *models.Appointment) error {
	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()

	// WithTransaction retries the callback on a transient write conflict,
	// so the loser of a same-tenant race re-runs its overlap check against
	// the winner's committed row and reports ErrOverlap rather than the
	// raw conflict error.
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Touch the tenant lock first so concurrent booking transactions
		// for the same tenant produce a write conflict.
		if _, err := r.locks.UpdateOne(sc,
			bson.M{"_id": appt.TenantID},
			bson.M{"$inc": bson.M{"version": 1}},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("tenant lock update failed: %w", err)
		}

		count, err := r.coll.CountDocuments(sc, blockingFilter(appt.TenantID, appt.Start, appt.End, now))
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return nil, ErrOverlap
		}

		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return nil, fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, tenantID, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"tenant_id": tenantID, "id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) UpdateStatus(ctx context.Context, tenantID, id string, from, to models.AppointmentStatus, extra StatusUpdate) error {
	filter := bson.M{"tenant_id": tenantID, "id": id}
	if from != "" {
		filter["status"] = from
	}
	if extra.UnexpiredAt != nil {
		filter["expires_at"] = bson.M{"$gt": *extra.UnexpiredAt}
	}

	set := bson.M{"status": to}
	if extra.CalendarEventID != "" {
		set["calendar_event_id"] = extra.CalendarEventID
	}
	if extra.ExpiresAt != nil {
		set["expires_at"] = *extra.ExpiresAt
	}

	update := bson.M{"$set": set}
	if extra.ClearExpiresAt {
		update["$unset"] = bson.M{"expires_at": ""}
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing row from a guarded-status mismatch.
		if _, getErr := r.GetByID(ctx, tenantID, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *MongoAppointmentRepo) FindOverlapping(ctx context.Context, tenantID string, start, end, now time.Time) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, blockingFilter(tenantID, start, end, now), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) FindExpiredPending(ctx context.Context, now time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"status":     models.StatusPending,
		"expires_at": bson.M{"$lte": now},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired holds: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode expired holds: %w", err)
	}
	return appts, nil
}
