// internal/app/store/mergedreports/mergedreportstore.go
package mergedreports

import (
	"context"
	"errors"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when the referenced merged report does not exist.
var ErrNotFound = errors.New("merged report not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("merged_reports")}
}

// Create inserts the merged-report document produced by the merge poller.
func (s *Store) Create(ctx context.Context, r models.MergedReport) (models.MergedReport, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, r)
	if err != nil {
		return r, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid
	}
	return r, nil
}

// GetByID returns a single merged report by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MergedReport, error) {
	var r models.MergedReport
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, ErrNotFound
	}
	return r, err
}

// GetByDualAssignment returns the merged report for a coordinator.
func (s *Store) GetByDualAssignment(ctx context.Context, dualID primitive.ObjectID) (models.MergedReport, error) {
	var r models.MergedReport
	err := s.c.FindOne(ctx, bson.M{"dual_assignment_id": dualID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, ErrNotFound
	}
	return r, err
}
