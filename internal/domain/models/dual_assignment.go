// internal/domain/models/dual_assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization identifies which partner organization a surveyor belongs to.
// Every policy survey requires one surveyor from each.
type Organization string

const (
	OrgAMMC Organization = "AMMC"
	OrgNIA  Organization = "NIA"
)

// Valid reports whether o is one of the two recognized organizations.
func (o Organization) Valid() bool {
	return o == OrgAMMC || o == OrgNIA
}

// Assignment status values, derived from slot occupancy (never persisted).
const (
	AssignmentUnassigned        = "unassigned"
	AssignmentPartiallyAssigned = "partially_assigned"
	AssignmentFullyAssigned     = "fully_assigned"
)

// Processing status values for the downstream merge step.
const (
	ProcessingPending    = "pending"
	ProcessingInProgress = "processing"
	ProcessingCompleted  = "completed"
	ProcessingFailed     = "failed"
)

// Priority values, set at creation and admin-mutable afterward.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Timeline event names. The timeline is the system of record for
// "has X happened" queries, so these strings are part of the data contract.
const (
	EventCreated             = "created"
	EventAMMCAssigned        = "ammc_assigned"
	EventNIAAssigned         = "nia_assigned"
	EventAMMCReportSubmitted = "ammc_report_submitted"
	EventNIAReportSubmitted  = "nia_report_submitted"
	EventMergeStarted        = "merge_started"
	EventMergeCompleted      = "merge_completed"
	EventMergeFailed         = "merge_failed"
	EventAdminUpdated        = "admin_updated"
)

// ContactSnapshot is a denormalized, point-in-time copy of a surveyor's
// contact and profile data, embedded in a slot at assignment time. It does
// not update if the surveyor's profile changes later.
type ContactSnapshot struct {
	Name            string  `bson:"name" json:"name"`
	Email           string  `bson:"email" json:"email"`
	Phone           string  `bson:"phone" json:"phone"`
	LicenseNumber   string  `bson:"license_number" json:"license_number"`
	Specialization  string  `bson:"specialization" json:"specialization"`
	ExperienceYears int     `bson:"experience_years" json:"experience_years"`
	Rating          float64 `bson:"rating" json:"rating"`
}

// SlotAssignment is one filled organization slot on a coordinator.
// A nil *SlotAssignment means the slot is empty.
type SlotAssignment struct {
	AssignmentID primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`
	SurveyorID   primitive.ObjectID `bson:"surveyor_id" json:"surveyor_id"`
	Contact      ContactSnapshot    `bson:"contact" json:"contact"`
	AssignedAt   time.Time          `bson:"assigned_at" json:"assigned_at"`
}

// TimelineEvent is one entry in the coordinator's append-only audit log.
type TimelineEvent struct {
	Event        string    `bson:"event" json:"event"`
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
	PerformedBy  string    `bson:"performed_by" json:"performed_by"`
	Organization string    `bson:"organization,omitempty" json:"organization,omitempty"`
	Details      string    `bson:"details,omitempty" json:"details,omitempty"`
}

// Deadlines holds the per-organization and overall survey deadlines.
type Deadlines struct {
	AMMC    time.Time `bson:"ammc" json:"ammc"`
	NIA     time.Time `bson:"nia" json:"nia"`
	Overall time.Time `bson:"overall" json:"overall"`
}

// NotificationState tracks whether downstream delivery has caught up with
// the latest state change. Report submission clears UserNotified so the
// notifier knows to re-send.
type NotificationState struct {
	UserNotified bool       `bson:"user_notified" json:"user_notified"`
	LastSentAt   *time.Time `bson:"last_sent_at,omitempty" json:"last_sent_at,omitempty"`
}

// DualAssignment is the per-policy coordinator for the two-organization
// survey workflow. One exists per policy (unique index on policy_id).
//
// The assignment status and completion status are intentionally not stored:
// both are pure functions of slot occupancy and timeline event presence,
// recomputed on read via AssignmentStatus and CompletionStatus. Storing them
// separately invites drift when a write path forgets to update them.
type DualAssignment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PolicyID primitive.ObjectID `bson:"policy_id" json:"policy_id"`

	// AMMC and NIA are the two organization slots. Once filled, a slot is
	// never cleared by normal operation.
	AMMC *SlotAssignment `bson:"ammc_slot,omitempty" json:"ammc_slot,omitempty"`
	NIA  *SlotAssignment `bson:"nia_slot,omitempty" json:"nia_slot,omitempty"`

	Priority            string    `bson:"priority" json:"priority"`
	EstimatedCompletion Deadlines `bson:"estimated_completion" json:"estimated_completion"`

	ProcessingStatus string              `bson:"processing_status" json:"processing_status"`
	MergedReportID   *primitive.ObjectID `bson:"merged_report_id,omitempty" json:"merged_report_id,omitempty"`

	Timeline []TimelineEvent `bson:"timeline" json:"timeline"`

	Notifications NotificationState `bson:"notifications" json:"notifications"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Slot returns the slot for the given organization (nil when empty).
func (d *DualAssignment) Slot(org Organization) *SlotAssignment {
	if org == OrgAMMC {
		return d.AMMC
	}
	return d.NIA
}

// AssignmentStatus derives the coordinator's assignment state from slot
// occupancy: unassigned, partially_assigned, or fully_assigned.
func (d *DualAssignment) AssignmentStatus() string {
	switch {
	case d.AMMC != nil && d.NIA != nil:
		return AssignmentFullyAssigned
	case d.AMMC != nil || d.NIA != nil:
		return AssignmentPartiallyAssigned
	default:
		return AssignmentUnassigned
	}
}

// IsBothAssigned reports whether both organization slots are filled.
func (d *DualAssignment) IsBothAssigned() bool {
	return d.AMMC != nil && d.NIA != nil
}

// HasEvent reports whether the timeline contains at least one entry with
// the given event name.
func (d *DualAssignment) HasEvent(event string) bool {
	for _, e := range d.Timeline {
		if e.Event == event {
			return true
		}
	}
	return false
}

// CompletionStatus derives the 0/50/100 report-completion indicator from
// timeline event presence. Duplicate submission events for the same
// organization are tolerated and never double-count toward 100.
func (d *DualAssignment) CompletionStatus() int {
	n := 0
	if d.HasEvent(EventAMMCReportSubmitted) {
		n++
	}
	if d.HasEvent(EventNIAReportSubmitted) {
		n++
	}
	return n * 50
}

// IsBothReportsSubmitted reports whether both organizations have submitted
// their survey reports.
func (d *DualAssignment) IsBothReportsSubmitted() bool {
	return d.CompletionStatus() == 100
}

// IsOverdue reports whether the overall deadline has passed without both
// reports being submitted.
func (d *DualAssignment) IsOverdue(now time.Time) bool {
	if d.EstimatedCompletion.Overall.IsZero() {
		return false
	}
	return d.EstimatedCompletion.Overall.Before(now) && d.CompletionStatus() < 100
}

// SurveyorContacts returns the contact snapshots for both slots,
// nil for a slot that has not been filled.
func (d *DualAssignment) SurveyorContacts() map[Organization]*ContactSnapshot {
	out := map[Organization]*ContactSnapshot{OrgAMMC: nil, OrgNIA: nil}
	if d.AMMC != nil {
		c := d.AMMC.Contact
		out[OrgAMMC] = &c
	}
	if d.NIA != nil {
		c := d.NIA.Contact
		out[OrgNIA] = &c
	}
	return out
}

// AssignedEvent returns the timeline event name recorded when org's slot
// is filled.
func AssignedEvent(org Organization) string {
	if org == OrgAMMC {
		return EventAMMCAssigned
	}
	return EventNIAAssigned
}

// ReportSubmittedEvent returns the timeline event name recorded when org
// submits its survey report.
func ReportSubmittedEvent(org Organization) string {
	if org == OrgAMMC {
		return EventAMMCReportSubmitted
	}
	return EventNIAReportSubmitted
}

// ValidPriority reports whether p is one of the recognized priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
