// internal/app/store/assignments/assignmentstore.go
package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when the referenced assignment does not exist.
var ErrNotFound = errors.New("assignment not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// Create inserts a new surveyor task record.
// If CreatedAt is zero, it will be set to now (UTC).
func (s *Store) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = models.AssignmentStatusAssigned
	}

	res, err := s.c.InsertOne(ctx, a)
	if err != nil {
		return a, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return a, nil
}

// GetByID returns a single assignment by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return a, ErrNotFound
	}
	return a, err
}

// SetStatus transitions the assignment's task status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByPolicy returns all surveyor tasks for a policy.
func (s *Store) ListByPolicy(ctx context.Context, policyID primitive.ObjectID) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, bson.M{"policy_id": policyID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountOpenBySurveyor returns how many assignments still count toward the
// surveyor's concurrent workload. Used by the eligibility check before a
// slot fill.
func (s *Store) CountOpenBySurveyor(ctx context.Context, surveyorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"surveyor_id": surveyorID,
		"status": bson.M{"$in": []string{
			models.AssignmentStatusAssigned,
			models.AssignmentStatusAccepted,
			models.AssignmentStatusInProgress,
		}},
	})
}
