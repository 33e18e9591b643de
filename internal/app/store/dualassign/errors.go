// internal/app/store/dualassign/errors.go
package dualassign

import (
	"errors"
	"fmt"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when the referenced coordinator does not exist.
var ErrNotFound = errors.New("dual assignment not found")

// ErrSlotEmpty is returned when a report is submitted for an organization
// whose slot has not been filled.
var ErrSlotEmpty = errors.New("organization slot is not assigned")

// CoordinatorExistsError is returned by Create when a coordinator already
// exists for the policy. It carries the existing coordinator's id so the
// caller can surface it in the conflict response.
type CoordinatorExistsError struct {
	ExistingID primitive.ObjectID
	PolicyID   primitive.ObjectID
}

func (e *CoordinatorExistsError) Error() string {
	return fmt.Sprintf("dual assignment %s already exists for policy %s", e.ExistingID.Hex(), e.PolicyID.Hex())
}

// SlotConflictError is returned by FillSlot when the target slot is already
// occupied by a different surveyor. It names the occupant so the caller can
// render an actionable message.
type SlotConflictError struct {
	Organization         models.Organization
	ExistingAssignmentID primitive.ObjectID
	ExistingSurveyorID   primitive.ObjectID
	ExistingSurveyorName string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s surveyor already assigned to %s", e.Organization, e.ExistingSurveyorName)
}
