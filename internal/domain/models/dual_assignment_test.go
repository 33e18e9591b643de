package models_test

import (
	"testing"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func slotFor(org models.Organization) *models.SlotAssignment {
	return &models.SlotAssignment{
		AssignmentID: primitive.NewObjectID(),
		SurveyorID:   primitive.NewObjectID(),
		Contact:      models.ContactSnapshot{Name: string(org) + " Surveyor"},
		AssignedAt:   time.Now().UTC(),
	}
}

func TestDualAssignment_AssignmentStatus(t *testing.T) {
	tests := []struct {
		name string
		ammc bool
		nia  bool
		want string
	}{
		{"no slots filled", false, false, models.AssignmentUnassigned},
		{"only AMMC filled", true, false, models.AssignmentPartiallyAssigned},
		{"only NIA filled", false, true, models.AssignmentPartiallyAssigned},
		{"both filled", true, true, models.AssignmentFullyAssigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.DualAssignment{}
			if tt.ammc {
				d.AMMC = slotFor(models.OrgAMMC)
			}
			if tt.nia {
				d.NIA = slotFor(models.OrgNIA)
			}
			if got := d.AssignmentStatus(); got != tt.want {
				t.Errorf("AssignmentStatus: got %q, want %q", got, tt.want)
			}
			if got := d.IsBothAssigned(); got != (tt.ammc && tt.nia) {
				t.Errorf("IsBothAssigned: got %v", got)
			}
		})
	}
}

func TestDualAssignment_CompletionStatus(t *testing.T) {
	d := models.DualAssignment{
		AMMC: slotFor(models.OrgAMMC),
		NIA:  slotFor(models.OrgNIA),
		Timeline: []models.TimelineEvent{
			{Event: models.EventCreated},
		},
	}

	if got := d.CompletionStatus(); got != 0 {
		t.Errorf("before any report: got %d, want 0", got)
	}

	d.Timeline = append(d.Timeline, models.TimelineEvent{Event: models.EventAMMCReportSubmitted})
	if got := d.CompletionStatus(); got != 50 {
		t.Errorf("after one report: got %d, want 50", got)
	}
	if d.IsBothReportsSubmitted() {
		t.Error("IsBothReportsSubmitted should be false with one report")
	}

	d.Timeline = append(d.Timeline, models.TimelineEvent{Event: models.EventNIAReportSubmitted})
	if got := d.CompletionStatus(); got != 100 {
		t.Errorf("after both reports: got %d, want 100", got)
	}
	if !d.IsBothReportsSubmitted() {
		t.Error("IsBothReportsSubmitted should be true with both reports")
	}
}

func TestDualAssignment_CompletionStatus_DuplicateEvents(t *testing.T) {
	d := models.DualAssignment{
		Timeline: []models.TimelineEvent{
			{Event: models.EventAMMCReportSubmitted},
			{Event: models.EventAMMCReportSubmitted},
			{Event: models.EventAMMCReportSubmitted},
		},
	}
	if got := d.CompletionStatus(); got != 50 {
		t.Errorf("duplicate submissions must not double-count: got %d, want 50", got)
	}
}

func TestDualAssignment_IsOverdue(t *testing.T) {
	now := time.Now().UTC()

	d := models.DualAssignment{}
	if d.IsOverdue(now) {
		t.Error("no deadline set: should never be overdue")
	}

	d.EstimatedCompletion.Overall = now.Add(-time.Hour)
	if !d.IsOverdue(now) {
		t.Error("past deadline without reports: should be overdue")
	}

	d.Timeline = []models.TimelineEvent{
		{Event: models.EventAMMCReportSubmitted},
		{Event: models.EventNIAReportSubmitted},
	}
	if d.IsOverdue(now) {
		t.Error("both reports in: should not be overdue even past deadline")
	}

	d.Timeline = nil
	d.EstimatedCompletion.Overall = now.Add(time.Hour)
	if d.IsOverdue(now) {
		t.Error("future deadline: should not be overdue")
	}
}

func TestDualAssignment_SurveyorContacts(t *testing.T) {
	d := models.DualAssignment{AMMC: slotFor(models.OrgAMMC)}

	contacts := d.SurveyorContacts()
	if contacts[models.OrgAMMC] == nil {
		t.Fatal("expected AMMC contact")
	}
	if contacts[models.OrgAMMC].Name != "AMMC Surveyor" {
		t.Errorf("AMMC contact name: got %q", contacts[models.OrgAMMC].Name)
	}
	if contacts[models.OrgNIA] != nil {
		t.Error("expected nil NIA contact for empty slot")
	}
}

func TestOrganization_Valid(t *testing.T) {
	if !models.OrgAMMC.Valid() || !models.OrgNIA.Valid() {
		t.Error("AMMC and NIA must be valid organizations")
	}
	if models.Organization("FCDA").Valid() {
		t.Error("unknown organization must not be valid")
	}
}

func TestEventNamesPerOrganization(t *testing.T) {
	if got := models.AssignedEvent(models.OrgAMMC); got != models.EventAMMCAssigned {
		t.Errorf("AssignedEvent(AMMC): got %q", got)
	}
	if got := models.AssignedEvent(models.OrgNIA); got != models.EventNIAAssigned {
		t.Errorf("AssignedEvent(NIA): got %q", got)
	}
	if got := models.ReportSubmittedEvent(models.OrgAMMC); got != models.EventAMMCReportSubmitted {
		t.Errorf("ReportSubmittedEvent(AMMC): got %q", got)
	}
	if got := models.ReportSubmittedEvent(models.OrgNIA); got != models.EventNIAReportSubmitted {
		t.Errorf("ReportSubmittedEvent(NIA): got %q", got)
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent} {
		if !models.ValidPriority(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if models.ValidPriority("critical") {
		t.Error("unknown priority must not be valid")
	}
}
