// internal/domain/models/policy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy status values relevant to the survey workflow. A policy becomes
// eligible for dual assignment when it reaches "submitted".
const (
	PolicyDraft     = "draft"
	PolicySubmitted = "submitted"
	PolicySurveyed  = "surveyed"
	PolicyApproved  = "approved"
	PolicyRejected  = "rejected"
)

// Policy is the insurance policy request under survey. Only the fields the
// dual-assignment workflow reads are modeled here; the full policy document
// is owned by the policy administration side of the system.
type Policy struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PolicyNumber string             `bson:"policy_number" json:"policy_number"`
	HolderName   string             `bson:"holder_name" json:"holder_name"`
	HolderEmail  string             `bson:"holder_email" json:"holder_email"`
	PropertyAddr string             `bson:"property_address" json:"property_address"`
	Status       string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EligibleForAssignment reports whether the policy is in a state where
// surveyors may be assigned.
func (p *Policy) EligibleForAssignment() bool {
	return p.Status == PolicySubmitted
}
