// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment status values for an individual surveyor task.
const (
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusAccepted   = "accepted"
	AssignmentStatusInProgress = "in-progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusRejected   = "rejected"
	AssignmentStatusCancelled  = "cancelled"
)

// Assignment is an individual surveyor task tied to one organization and
// one policy. Many can exist per policy; at most one per organization is
// ever reflected in the policy's DualAssignment coordinator.
type Assignment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PolicyID     primitive.ObjectID `bson:"policy_id" json:"policy_id"`
	SurveyorID   primitive.ObjectID `bson:"surveyor_id" json:"surveyor_id"`
	Organization Organization       `bson:"organization" json:"organization"`
	Status       string             `bson:"status" json:"status"`

	// DualAssignmentID back-references the coordinator this assignment was
	// created under. Nil for assignments created outside the dual flow.
	DualAssignmentID *primitive.ObjectID `bson:"dual_assignment_id,omitempty" json:"dual_assignment_id,omitempty"`

	// Audit fields
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	CreatedByID   string    `bson:"created_by_id" json:"created_by_id"`
	CreatedByName string    `bson:"created_by_name" json:"created_by_name"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Open reports whether the assignment still counts toward a surveyor's
// concurrent workload.
func (a *Assignment) Open() bool {
	switch a.Status {
	case AssignmentStatusAssigned, AssignmentStatusAccepted, AssignmentStatusInProgress:
		return true
	}
	return false
}
