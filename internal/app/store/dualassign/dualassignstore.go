// internal/app/store/dualassign/dualassignstore.go
package dualassign

// Concurrency contract: every mutation in this store is a single conditional
// update against one coordinator document. The slot-fill guard in particular
// must stay a filter condition on the update itself (check-empty-then-set in
// one database operation); a read-check-write sequence in Go has a race
// window between check and write.

import (
	"context"
	"errors"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("dual_assignments")}
}

// slotField maps an organization to its slot field name in the document.
func slotField(org models.Organization) string {
	if org == models.OrgAMMC {
		return "ammc_slot"
	}
	return "nia_slot"
}

// Create inserts a new coordinator for a policy with both slots empty and a
// "created" timeline event. The unique index on policy_id guarantees at most
// one coordinator per policy; a duplicate insert is translated into a
// *CoordinatorExistsError naming the existing coordinator.
func (s *Store) Create(ctx context.Context, d models.DualAssignment) (models.DualAssignment, error) {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = d.CreatedAt
	if d.Priority == "" {
		d.Priority = models.PriorityMedium
	}
	if d.ProcessingStatus == "" {
		d.ProcessingStatus = models.ProcessingPending
	}
	if len(d.Timeline) == 0 {
		d.Timeline = []models.TimelineEvent{{
			Event:       models.EventCreated,
			Timestamp:   d.CreatedAt,
			PerformedBy: "system",
		}}
	}

	res, err := s.c.InsertOne(ctx, d)
	if err != nil {
		if wafflemongo.IsDup(err) {
			existing, lookupErr := s.GetByPolicy(ctx, d.PolicyID)
			if lookupErr != nil {
				return d, err
			}
			return d, &CoordinatorExistsError{ExistingID: existing.ID, PolicyID: d.PolicyID}
		}
		return d, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return d, nil
}

// GetByID returns a single coordinator by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.DualAssignment, error) {
	var d models.DualAssignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotFound
	}
	return d, err
}

// GetByPolicy returns the coordinator for a policy.
func (s *Store) GetByPolicy(ctx context.Context, policyID primitive.ObjectID) (models.DualAssignment, error) {
	var d models.DualAssignment
	err := s.c.FindOne(ctx, bson.M{"policy_id": policyID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotFound
	}
	return d, err
}

// FillSlot atomically fills the organization's slot if, and only if, it is
// still empty at write time. The filter carries the emptiness condition so
// the check and the set are one database operation.
//
// Outcomes:
//   - slot was empty: slot set, timeline event appended, updated doc returned.
//   - slot already holds the same surveyor: idempotent success; the current
//     document is returned unchanged (safe duplicate-request retry).
//   - slot holds a different surveyor: *SlotConflictError naming the occupant.
//   - no such coordinator: ErrNotFound.
func (s *Store) FillSlot(ctx context.Context, id primitive.ObjectID, org models.Organization, slot models.SlotAssignment, ev models.TimelineEvent) (models.DualAssignment, error) {
	field := slotField(org)
	if slot.AssignedAt.IsZero() {
		slot.AssignedAt = time.Now().UTC()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = slot.AssignedAt
	}

	filter := bson.M{"_id": id, field: nil}
	update := bson.M{
		"$set":  bson.M{field: slot, "updated_at": slot.AssignedAt},
		"$push": bson.M{"timeline": ev},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.DualAssignment
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return d, err
	}

	// The conditional update matched nothing: either the coordinator does
	// not exist, or the slot is already occupied. Disambiguate with a read;
	// this read is only for error reporting, never for deciding a write.
	current, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return d, getErr
	}
	occupant := current.Slot(org)
	if occupant == nil {
		// Lost a race with a concurrent delete or an unexpected state;
		// surface the original no-match as a conflict-free retryable error.
		return d, err
	}
	if occupant.SurveyorID == slot.SurveyorID {
		return current, nil
	}
	return d, &SlotConflictError{
		Organization:         org,
		ExistingAssignmentID: occupant.AssignmentID,
		ExistingSurveyorID:   occupant.SurveyorID,
		ExistingSurveyorName: occupant.Contact.Name,
	}
}

// RecordReportSubmitted appends the organization's report-submitted timeline
// event, provided the organization's slot is filled. The slot condition is
// part of the update filter, so an unassigned-slot submission never writes.
// The notifications.user_notified flag is cleared so downstream delivery
// knows to re-notify.
//
// Duplicate submissions append a duplicate event; CompletionStatus derives
// from event presence, so duplicates never double-count.
func (s *Store) RecordReportSubmitted(ctx context.Context, id primitive.ObjectID, org models.Organization, ev models.TimelineEvent) (models.DualAssignment, error) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	filter := bson.M{"_id": id, slotField(org): bson.M{"$ne": nil}}
	update := bson.M{
		"$set":  bson.M{"updated_at": ev.Timestamp, "notifications.user_notified": false},
		"$push": bson.M{"timeline": ev},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.DualAssignment
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return d, err
	}

	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return d, getErr
	}
	return d, ErrSlotEmpty
}

// UpdateAdminFields applies the allow-listed admin mutations: priority and
// estimated-completion deadlines. Anything else on the document is
// untouchable through this path.
func (s *Store) UpdateAdminFields(ctx context.Context, id primitive.ObjectID, priority *string, deadlines *models.Deadlines, ev models.TimelineEvent) (models.DualAssignment, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if priority != nil {
		set["priority"] = *priority
	}
	if deadlines != nil {
		set["estimated_completion"] = *deadlines
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	update := bson.M{"$set": set, "$push": bson.M{"timeline": ev}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.DualAssignment
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotFound
	}
	return d, err
}

// ClaimForMerge atomically moves one coordinator with both reports submitted
// from pending to processing and stamps a merge_started timeline event.
// Returns ErrNotFound when nothing is claimable.
func (s *Store) ClaimForMerge(ctx context.Context, ev models.TimelineEvent) (models.DualAssignment, error) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	filter := bson.M{
		"processing_status": models.ProcessingPending,
		"timeline.event":    bson.M{"$all": []string{models.EventAMMCReportSubmitted, models.EventNIAReportSubmitted}},
	}
	update := bson.M{
		"$set":  bson.M{"processing_status": models.ProcessingInProgress, "updated_at": ev.Timestamp},
		"$push": bson.M{"timeline": ev},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.DualAssignment
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotFound
	}
	return d, err
}

// FinishMerge records the merge outcome for a coordinator claimed by
// ClaimForMerge. On success the merged report id is attached and the status
// becomes completed; on failure the status becomes failed so an operator can
// requeue it.
func (s *Store) FinishMerge(ctx context.Context, id primitive.ObjectID, mergedReportID *primitive.ObjectID, ev models.TimelineEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	set := bson.M{"updated_at": ev.Timestamp}
	if mergedReportID != nil {
		set["processing_status"] = models.ProcessingCompleted
		set["merged_report_id"] = *mergedReportID
	} else {
		set["processing_status"] = models.ProcessingFailed
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "processing_status": models.ProcessingInProgress},
		bson.M{"$set": set, "$push": bson.M{"timeline": ev}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkNotified sets the user-notified flag after a successful delivery.
func (s *Store) MarkNotified(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"notifications.user_notified": true, "notifications.last_sent_at": at},
	})
	return err
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	Priority         string
	ProcessingStatus string
	PolicyID         primitive.ObjectID
}

// List returns coordinators matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, limit int64) ([]models.DualAssignment, error) {
	q := bson.M{}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	if f.ProcessingStatus != "" {
		q["processing_status"] = f.ProcessingStatus
	}
	if !f.PolicyID.IsZero() {
		q["policy_id"] = f.PolicyID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.DualAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOverdue returns coordinators whose overall deadline has passed without
// both reports submitted. Coordinators created without a deadline store the
// zero time, which predates any real clock value, so the filter bounds the
// deadline on both sides.
func (s *Store) ListOverdue(ctx context.Context, now time.Time) ([]models.DualAssignment, error) {
	q := bson.M{
		"estimated_completion.overall": bson.M{"$gt": time.Time{}, "$lt": now},
		"$or": []bson.M{
			{"timeline.event": bson.M{"$ne": models.EventAMMCReportSubmitted}},
			{"timeline.event": bson.M{"$ne": models.EventNIAReportSubmitted}},
		},
	}
	cur, err := s.c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.DualAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
