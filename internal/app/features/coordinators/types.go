// internal/app/features/coordinators/types.go
package coordinators

import (
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
)

// createRequest is the POST /api/coordinators body.
type createRequest struct {
	PolicyID string `json:"policy_id" validate:"required,len=24,hexadecimal"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`

	AMMCDeadline    *time.Time `json:"ammc_deadline" validate:"omitempty"`
	NIADeadline     *time.Time `json:"nia_deadline" validate:"omitempty"`
	OverallDeadline *time.Time `json:"overall_deadline" validate:"omitempty"`
}

// assignRequest is the POST /api/coordinators/{id}/assign body.
type assignRequest struct {
	Organization string `json:"organization" validate:"required,oneof=AMMC NIA"`
	SurveyorID   string `json:"surveyor_id" validate:"required,len=24,hexadecimal"`
	Notes        string `json:"notes" validate:"omitempty,max=1000"`
}

// reportRequest is the POST /api/coordinators/{id}/reports body.
type reportRequest struct {
	Organization string `json:"organization" validate:"required,oneof=AMMC NIA"`
	ReportID     string `json:"report_id" validate:"required,max=128"`
}

// updateRequest is the PATCH /api/coordinators/{id} body. Only the
// allow-listed admin-mutable fields appear here; everything else on the
// coordinator is immutable through this endpoint.
type updateRequest struct {
	Priority *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`

	AMMCDeadline    *time.Time `json:"ammc_deadline" validate:"omitempty"`
	NIADeadline     *time.Time `json:"nia_deadline" validate:"omitempty"`
	OverallDeadline *time.Time `json:"overall_deadline" validate:"omitempty"`
}

// coordinatorResponse is the API shape of a coordinator: the persisted
// document plus the derived statuses recomputed for this read.
type coordinatorResponse struct {
	models.DualAssignment

	AssignmentStatus     string `json:"assignment_status"`
	CompletionStatus     int    `json:"completion_status"`
	BothAssigned         bool   `json:"both_assigned"`
	BothReportsSubmitted bool   `json:"both_reports_submitted"`
	Overdue              bool   `json:"overdue"`
}

func toResponse(d models.DualAssignment) coordinatorResponse {
	return coordinatorResponse{
		DualAssignment:       d,
		AssignmentStatus:     d.AssignmentStatus(),
		CompletionStatus:     d.CompletionStatus(),
		BothAssigned:         d.IsBothAssigned(),
		BothReportsSubmitted: d.IsBothReportsSubmitted(),
		Overdue:              d.IsOverdue(time.Now().UTC()),
	}
}

// contactsResponse is the GET /api/coordinators/{id}/contacts shape.
type contactsResponse struct {
	AMMC *models.ContactSnapshot `json:"ammc"`
	NIA  *models.ContactSnapshot `json:"nia"`
}
