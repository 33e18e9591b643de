// internal/app/store/surveyors/surveyorstore.go
package surveyors

import (
	"context"
	"errors"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the referenced surveyor does not exist.
var ErrNotFound = errors.New("surveyor not found")

// Store reads the surveyor directory. Profile maintenance happens on the
// partner-organization side; this service only creates records through
// fixtures and admin tooling.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("surveyors")}
}

// Create inserts a surveyor profile.
func (s *Store) Create(ctx context.Context, sv models.Surveyor) (models.Surveyor, error) {
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now().UTC()
	}
	sv.UpdatedAt = sv.CreatedAt
	if sv.Status == "" {
		sv.Status = "active"
	}

	res, err := s.c.InsertOne(ctx, sv)
	if err != nil {
		return sv, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sv.ID = oid
	}
	return sv, nil
}

// GetByID returns a single surveyor by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Surveyor, error) {
	var sv models.Surveyor
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sv, ErrNotFound
	}
	return sv, err
}

// ListAvailable returns active, available surveyors for an organization,
// best-rated first.
func (s *Store) ListAvailable(ctx context.Context, org models.Organization) ([]models.Surveyor, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"organization": org, "status": "active", "available": true},
		optionsSortByRating(),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Surveyor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func optionsSortByRating() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
}

// SetAvailability flips the surveyor's availability flag.
func (s *Store) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"available": available, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
