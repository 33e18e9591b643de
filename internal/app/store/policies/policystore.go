// internal/app/store/policies/policystore.go
package policies

import (
	"context"
	"errors"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when the referenced policy does not exist.
var ErrNotFound = errors.New("policy not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("policies")}
}

// Create inserts a policy record.
func (s *Store) Create(ctx context.Context, p models.Policy) (models.Policy, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	if p.Status == "" {
		p.Status = models.PolicyDraft
	}

	res, err := s.c.InsertOne(ctx, p)
	if err != nil {
		return p, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return p, nil
}

// GetByID returns a single policy by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Policy, error) {
	var p models.Policy
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	return p, err
}

// SetStatus transitions the policy's workflow status.
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
