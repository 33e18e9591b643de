package assignments_test

import (
	"errors"
	"testing"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/assignments"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dualID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Assignment{
		PolicyID:         primitive.NewObjectID(),
		SurveyorID:       primitive.NewObjectID(),
		Organization:     models.OrgAMMC,
		DualAssignmentID: &dualID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.AssignmentStatusAssigned {
		t.Errorf("default status: got %q", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.DualAssignmentID == nil || *got.DualAssignmentID != dualID {
		t.Error("coordinator back-reference should persist")
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Assignment{
		PolicyID:     primitive.NewObjectID(),
		SurveyorID:   primitive.NewObjectID(),
		Organization: models.OrgNIA,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SetStatus(ctx, created.ID, models.AssignmentStatusCancelled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.Status != models.AssignmentStatusCancelled {
		t.Errorf("status: got %q", got.Status)
	}

	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.AssignmentStatusCancelled); !errors.Is(err, assignments.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_CountOpenBySurveyor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	surveyorID := primitive.NewObjectID()
	for _, status := range []string{
		models.AssignmentStatusAssigned,
		models.AssignmentStatusInProgress,
		models.AssignmentStatusCompleted,
		models.AssignmentStatusCancelled,
	} {
		if _, err := store.Create(ctx, models.Assignment{
			PolicyID:     primitive.NewObjectID(),
			SurveyorID:   surveyorID,
			Organization: models.OrgAMMC,
			Status:       status,
		}); err != nil {
			t.Fatal(err)
		}
	}

	open, err := store.CountOpenBySurveyor(ctx, surveyorID)
	if err != nil {
		t.Fatalf("CountOpenBySurveyor failed: %v", err)
	}
	// Completed and cancelled do not count toward workload.
	if open != 2 {
		t.Errorf("open count: got %d, want 2", open)
	}
}

func TestStore_ListByPolicy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	policyID := primitive.NewObjectID()
	for _, org := range []models.Organization{models.OrgAMMC, models.OrgNIA} {
		if _, err := store.Create(ctx, models.Assignment{
			PolicyID:     policyID,
			SurveyorID:   primitive.NewObjectID(),
			Organization: org,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Create(ctx, models.Assignment{
		PolicyID:     primitive.NewObjectID(),
		SurveyorID:   primitive.NewObjectID(),
		Organization: models.OrgAMMC,
	}); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListByPolicy(ctx, policyID)
	if err != nil {
		t.Fatalf("ListByPolicy failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 assignments for policy, got %d", len(list))
	}
}
