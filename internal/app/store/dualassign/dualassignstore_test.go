package dualassign_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/dualassign"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/indexes"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newSlot(name string) models.SlotAssignment {
	return models.SlotAssignment{
		AssignmentID: primitive.NewObjectID(),
		SurveyorID:   primitive.NewObjectID(),
		Contact:      models.ContactSnapshot{Name: name, Email: name + "@test.com"},
	}
}

func assignEvent(org models.Organization) models.TimelineEvent {
	return models.TimelineEvent{
		Event:        models.AssignedEvent(org),
		PerformedBy:  "admin",
		Organization: string(org),
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	policyID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.DualAssignment{PolicyID: policyID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("default priority: got %q, want %q", created.Priority, models.PriorityMedium)
	}
	if created.ProcessingStatus != models.ProcessingPending {
		t.Errorf("default processing status: got %q", created.ProcessingStatus)
	}
	if len(created.Timeline) != 1 || created.Timeline[0].Event != models.EventCreated {
		t.Errorf("expected a single created timeline event, got %+v", created.Timeline)
	}
	if created.AssignmentStatus() != models.AssignmentUnassigned {
		t.Errorf("new coordinator should be unassigned, got %q", created.AssignmentStatus())
	}
}

func TestStore_Create_DuplicatePolicy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	policyID := primitive.NewObjectID()
	first, err := store.Create(ctx, models.DualAssignment{PolicyID: policyID})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err = store.Create(ctx, models.DualAssignment{PolicyID: policyID})
	var exists *dualassign.CoordinatorExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected CoordinatorExistsError, got %v", err)
	}
	if exists.ExistingID != first.ID {
		t.Errorf("conflict should name the existing coordinator: got %s, want %s",
			exists.ExistingID.Hex(), first.ID.Hex())
	}
}

func TestStore_FillSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	slot := newSlot("Ada Obi")
	updated, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, slot, assignEvent(models.OrgAMMC))
	if err != nil {
		t.Fatalf("FillSlot failed: %v", err)
	}

	if updated.AMMC == nil {
		t.Fatal("AMMC slot should be filled")
	}
	if updated.AMMC.SurveyorID != slot.SurveyorID {
		t.Errorf("surveyor id: got %s, want %s", updated.AMMC.SurveyorID.Hex(), slot.SurveyorID.Hex())
	}
	if updated.AMMC.AssignedAt.IsZero() {
		t.Error("AssignedAt should be stamped")
	}
	if updated.AssignmentStatus() != models.AssignmentPartiallyAssigned {
		t.Errorf("status after one slot: got %q", updated.AssignmentStatus())
	}
	if !updated.HasEvent(models.EventAMMCAssigned) {
		t.Error("timeline should record the assignment")
	}
}

func TestStore_FillSlot_FullyAssigned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})

	if _, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC)); err != nil {
		t.Fatalf("AMMC FillSlot failed: %v", err)
	}
	updated, err := store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Bala Musa"), assignEvent(models.OrgNIA))
	if err != nil {
		t.Fatalf("NIA FillSlot failed: %v", err)
	}

	if updated.AssignmentStatus() != models.AssignmentFullyAssigned {
		t.Errorf("status after both slots: got %q", updated.AssignmentStatus())
	}
	if updated.CompletionStatus() != 0 {
		t.Errorf("assignment alone must not advance completion: got %d", updated.CompletionStatus())
	}
}

func TestStore_FillSlot_SameSurveyorIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	slot := newSlot("Ada Obi")

	first, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, slot, assignEvent(models.OrgAMMC))
	if err != nil {
		t.Fatalf("first FillSlot failed: %v", err)
	}

	// Retrying the same surveyor must succeed without a second timeline event.
	second, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, slot, assignEvent(models.OrgAMMC))
	if err != nil {
		t.Fatalf("duplicate FillSlot should be idempotent, got %v", err)
	}
	if second.AMMC.AssignmentID != first.AMMC.AssignmentID {
		t.Error("retry must keep the original slot assignment")
	}
	if len(second.Timeline) != len(first.Timeline) {
		t.Errorf("retry must not append timeline events: got %d, want %d",
			len(second.Timeline), len(first.Timeline))
	}
}

func TestStore_FillSlot_OccupiedByOther(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	occupant := newSlot("Ada Obi")
	if _, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, occupant, assignEvent(models.OrgAMMC)); err != nil {
		t.Fatalf("FillSlot failed: %v", err)
	}

	_, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Bala Musa"), assignEvent(models.OrgAMMC))
	var conflict *dualassign.SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SlotConflictError, got %v", err)
	}
	if conflict.ExistingSurveyorID != occupant.SurveyorID {
		t.Errorf("conflict should name the occupant: got %s", conflict.ExistingSurveyorID.Hex())
	}
	if conflict.ExistingSurveyorName != "Ada Obi" {
		t.Errorf("conflict occupant name: got %q", conflict.ExistingSurveyorName)
	}

	// The other organization's slot is unaffected by the AMMC conflict.
	if _, err := store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Chika Eze"), assignEvent(models.OrgNIA)); err != nil {
		t.Errorf("NIA slot should still be fillable: %v", err)
	}
}

func TestStore_FillSlot_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.FillSlot(ctx, primitive.NewObjectID(), models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC))
	if !errors.Is(err, dualassign.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_FillSlot_ConcurrentSingleWinner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Racer"), assignEvent(models.OrgNIA))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		default:
			var conflict *dualassign.SlotConflictError
			if !errors.As(err, &conflict) {
				t.Errorf("loser should see SlotConflictError, got %v", err)
			}
		}
	}
	if winners != 1 {
		t.Fatalf("exactly one racer must win the slot, got %d", winners)
	}

	final, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if final.NIA == nil {
		t.Fatal("NIA slot should be filled")
	}
	if got := len(final.Timeline); got != 2 {
		t.Errorf("timeline should have created + one assignment, got %d events", got)
	}
}

func TestStore_RecordReportSubmitted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	if _, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC)); err != nil {
		t.Fatalf("FillSlot failed: %v", err)
	}
	if _, err := store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Bala Musa"), assignEvent(models.OrgNIA)); err != nil {
		t.Fatalf("FillSlot failed: %v", err)
	}

	reportID := primitive.NewObjectID()
	updated, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgAMMC, models.TimelineEvent{
		Event:        models.EventAMMCReportSubmitted,
		PerformedBy:  "surveyor",
		Organization: string(models.OrgAMMC),
		Details:      reportID.Hex(),
	})
	if err != nil {
		t.Fatalf("RecordReportSubmitted failed: %v", err)
	}
	if got := updated.CompletionStatus(); got != 50 {
		t.Errorf("completion after one report: got %d, want 50", got)
	}
	if updated.Notifications.UserNotified {
		t.Error("report submission must clear the notified flag")
	}

	updated, err = store.RecordReportSubmitted(ctx, created.ID, models.OrgNIA, models.TimelineEvent{
		Event:        models.EventNIAReportSubmitted,
		PerformedBy:  "surveyor",
		Organization: string(models.OrgNIA),
		Details:      primitive.NewObjectID().Hex(),
	})
	if err != nil {
		t.Fatalf("second RecordReportSubmitted failed: %v", err)
	}
	if got := updated.CompletionStatus(); got != 100 {
		t.Errorf("completion after both reports: got %d, want 100", got)
	}
}

func TestStore_RecordReportSubmitted_UnassignedSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})

	_, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgNIA, models.TimelineEvent{
		Event: models.EventNIAReportSubmitted,
	})
	if !errors.Is(err, dualassign.ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}

	// Nothing may have been written.
	current, _ := store.GetByID(ctx, created.ID)
	if current.HasEvent(models.EventNIAReportSubmitted) {
		t.Error("rejected submission must not append a timeline event")
	}
}

func TestStore_RecordReportSubmitted_DuplicateNeverDoubleCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	if _, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC)); err != nil {
		t.Fatalf("FillSlot failed: %v", err)
	}

	ev := models.TimelineEvent{Event: models.EventAMMCReportSubmitted, PerformedBy: "surveyor"}
	if _, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgAMMC, ev); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	updated, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgAMMC, ev)
	if err != nil {
		t.Fatalf("duplicate submission should be tolerated, got %v", err)
	}
	if got := updated.CompletionStatus(); got != 50 {
		t.Errorf("duplicate submission must not double-count: got %d, want 50", got)
	}
}

func TestStore_TimelineNeverShrinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})

	prev := len(created.Timeline)
	step := func(d models.DualAssignment, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("operation failed: %v", err)
		}
		if len(d.Timeline) < prev {
			t.Fatalf("timeline shrank from %d to %d", prev, len(d.Timeline))
		}
		prev = len(d.Timeline)
	}

	step(store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC)))
	step(store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Bala Musa"), assignEvent(models.OrgNIA)))
	step(store.RecordReportSubmitted(ctx, created.ID, models.OrgAMMC, models.TimelineEvent{Event: models.EventAMMCReportSubmitted}))
	pr := models.PriorityHigh
	step(store.UpdateAdminFields(ctx, created.ID, &pr, nil, models.TimelineEvent{Event: models.EventAdminUpdated, PerformedBy: "admin"}))
}

func TestStore_ClaimForMerge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Not claimable until both reports are in.
	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	if _, err := store.ClaimForMerge(ctx, models.TimelineEvent{Event: models.EventMergeStarted}); !errors.Is(err, dualassign.ErrNotFound) {
		t.Fatalf("expected nothing claimable, got %v", err)
	}

	if _, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Bala Musa"), assignEvent(models.OrgNIA)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgAMMC, models.TimelineEvent{Event: models.EventAMMCReportSubmitted}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgNIA, models.TimelineEvent{Event: models.EventNIAReportSubmitted}); err != nil {
		t.Fatal(err)
	}

	claimed, err := store.ClaimForMerge(ctx, models.TimelineEvent{Event: models.EventMergeStarted, PerformedBy: "merge-worker"})
	if err != nil {
		t.Fatalf("ClaimForMerge failed: %v", err)
	}
	if claimed.ID != created.ID {
		t.Errorf("claimed wrong coordinator: got %s", claimed.ID.Hex())
	}
	if claimed.ProcessingStatus != models.ProcessingInProgress {
		t.Errorf("claimed status: got %q", claimed.ProcessingStatus)
	}

	// A second claim must find nothing: the first claim took it.
	if _, err := store.ClaimForMerge(ctx, models.TimelineEvent{Event: models.EventMergeStarted}); !errors.Is(err, dualassign.ErrNotFound) {
		t.Errorf("coordinator must be claimable only once, got %v", err)
	}
}

func TestStore_FinishMerge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()})
	if _, err := store.FillSlot(ctx, created.ID, models.OrgAMMC, newSlot("Ada Obi"), assignEvent(models.OrgAMMC)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FillSlot(ctx, created.ID, models.OrgNIA, newSlot("Bala Musa"), assignEvent(models.OrgNIA)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgAMMC, models.TimelineEvent{Event: models.EventAMMCReportSubmitted}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordReportSubmitted(ctx, created.ID, models.OrgNIA, models.TimelineEvent{Event: models.EventNIAReportSubmitted}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ClaimForMerge(ctx, models.TimelineEvent{Event: models.EventMergeStarted}); err != nil {
		t.Fatal(err)
	}

	mergedID := primitive.NewObjectID()
	if err := store.FinishMerge(ctx, created.ID, &mergedID, models.TimelineEvent{Event: models.EventMergeCompleted}); err != nil {
		t.Fatalf("FinishMerge failed: %v", err)
	}

	final, _ := store.GetByID(ctx, created.ID)
	if final.ProcessingStatus != models.ProcessingCompleted {
		t.Errorf("final status: got %q", final.ProcessingStatus)
	}
	if final.MergedReportID == nil || *final.MergedReportID != mergedID {
		t.Error("merged report id should be attached")
	}

	// FinishMerge only applies to in-progress coordinators.
	if err := store.FinishMerge(ctx, created.ID, &mergedID, models.TimelineEvent{Event: models.EventMergeCompleted}); !errors.Is(err, dualassign.ErrNotFound) {
		t.Errorf("expected ErrNotFound for completed coordinator, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p1 := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.DualAssignment{PolicyID: p1, Priority: models.PriorityHigh}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, models.DualAssignment{PolicyID: primitive.NewObjectID()}); err != nil {
		t.Fatal(err)
	}

	all, err := store.List(ctx, dualassign.ListFilter{}, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 coordinators, got %d", len(all))
	}

	high, err := store.List(ctx, dualassign.ListFilter{Priority: models.PriorityHigh}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(high) != 1 || high[0].PolicyID != p1 {
		t.Errorf("priority filter: got %d results", len(high))
	}

	byPolicy, err := store.List(ctx, dualassign.ListFilter{PolicyID: p1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPolicy) != 1 {
		t.Errorf("policy filter: got %d results", len(byPolicy))
	}
}

func TestStore_ListOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dualassign.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()

	late, _ := store.Create(ctx, models.DualAssignment{
		PolicyID:            primitive.NewObjectID(),
		EstimatedCompletion: models.Deadlines{Overall: now.Add(-time.Hour)},
	})
	if _, err := store.Create(ctx, models.DualAssignment{
		PolicyID:            primitive.NewObjectID(),
		EstimatedCompletion: models.Deadlines{Overall: now.Add(time.Hour)},
	}); err != nil {
		t.Fatal(err)
	}
	// No deadline set. The stored zero time must not count as past due.
	noDeadline, err := store.Create(ctx, models.DualAssignment{
		PolicyID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if noDeadline.IsOverdue(now) {
		t.Errorf("coordinator without a deadline reported overdue")
	}

	overdue, err := store.ListOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ListOverdue failed: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != late.ID {
		t.Errorf("expected only the past-deadline coordinator, got %d results", len(overdue))
	}
}
