package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreatePolicy creates a submitted policy ready for assignment.
func (f *Fixtures) CreatePolicy(ctx context.Context, number string) models.Policy {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Policy{
		ID:           primitive.NewObjectID(),
		PolicyNumber: number,
		HolderName:   "Test Holder",
		HolderEmail:  "holder@test.com",
		PropertyAddr: "1 Test Street",
		Status:       models.PolicySubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("policies").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("create policy: %v", err)
	}
	return p
}

// CreateSurveyor creates an active, available surveyor for the given
// organization.
func (f *Fixtures) CreateSurveyor(ctx context.Context, org models.Organization, name string) models.Surveyor {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Surveyor{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		Email:        name + "@surveyors.test",
		Phone:        "+2348000000000",
		Organization: org,
		Status:       "active",
		Available:    true,
		Rating:       4.0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("surveyors").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("create surveyor: %v", err)
	}
	return s
}

// CreateDualAssignment inserts a coordinator document directly, bypassing
// the store, for tests that need a starting state.
func (f *Fixtures) CreateDualAssignment(ctx context.Context, policyID primitive.ObjectID) models.DualAssignment {
	f.t.Helper()

	now := time.Now().UTC()
	da := models.DualAssignment{
		ID:               primitive.NewObjectID(),
		PolicyID:         policyID,
		Priority:         models.PriorityMedium,
		ProcessingStatus: models.ProcessingPending,
		Timeline: []models.TimelineEvent{
			{Event: models.EventCreated, Timestamp: now, PerformedBy: "test"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("dual_assignments").InsertOne(ctx, da); err != nil {
		f.t.Fatalf("create dual assignment: %v", err)
	}
	return da
}

// CreateUser creates an active user with the given role and a known
// password hash for "password123".
func (f *Fixtures) CreateUser(ctx context.Context, email, role string, org models.Organization) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Test " + role,
		Email:    email,
		// bcrypt hash of "password123"
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         role,
		Status:       "active",
		Organization: org,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user: %v", err)
	}
	return u
}
