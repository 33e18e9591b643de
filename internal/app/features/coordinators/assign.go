// internal/app/features/coordinators/assign.go
package coordinators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/auth"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/httpapi"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/contactinfo"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/timeouts"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// assignResponse wraps the coordinator with the flag callers branch on.
type assignResponse struct {
	coordinatorResponse
	BothAssignedNow bool `json:"both_assigned_now"`
}

// HandleAssign processes POST /api/coordinators/{id}/assign.
//
// The flow is: eligibility checks (surveyor exists, organization matches,
// active, available, under workload capacity), contact snapshot, assignment
// record insert, then the atomic slot fill. Only the slot fill decides the
// race; everything before it is advisory validation and everything after it
// (notifications) is fire-and-forget.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dualID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid coordinator id")
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}
	org := models.Organization(req.Organization)
	surveyorID, err := primitive.ObjectIDFromHex(req.SurveyorID)
	if err != nil {
		httpapi.BadRequest(w, "invalid surveyor_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	da, err := h.Duals.GetByID(ctx, dualID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	policy, err := h.Policies.GetByID(ctx, da.PolicyID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if !policy.EligibleForAssignment() {
		httpapi.BadRequest(w, "policy is not in a state eligible for assignment")
		return
	}

	sv, err := h.Surveyors.GetByID(ctx, surveyorID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if sv.Organization != org {
		httpapi.BadRequest(w, fmt.Sprintf("surveyor belongs to %s, not %s", sv.Organization, org))
		return
	}
	conflictMsg, err := h.checkCapacity(ctx, sv)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if conflictMsg != "" {
		httpapi.WriteJSON(w, http.StatusConflict, httpapi.ErrorBody{Error: conflictMsg})
		return
	}

	// The assignment record and the slot fill are two independently
	// retriable writes; a record can briefly exist without being reflected
	// in the coordinator. No cross-document transaction is needed.
	record, err := h.Assignments.Create(ctx, models.Assignment{
		PolicyID:         da.PolicyID,
		SurveyorID:       surveyorID,
		Organization:     org,
		Status:           models.AssignmentStatusAssigned,
		DualAssignmentID: &dualID,
		CreatedByID:      user.ID,
		CreatedByName:    user.Name,
	})
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	details := "assigned " + sv.FullName
	if notes := h.sanitize.Sanitize(req.Notes); notes != "" {
		details += "; " + notes
	}

	updated, err := h.Duals.FillSlot(ctx, dualID, org, models.SlotAssignment{
		AssignmentID: record.ID,
		SurveyorID:   surveyorID,
		Contact:      contactinfo.Snapshot(sv),
	}, models.TimelineEvent{
		Event:        models.AssignedEvent(org),
		PerformedBy:  user.Name,
		Organization: string(org),
		Details:      details,
	})
	if err != nil {
		// The slot was not filled with our record; void it so it does not
		// count toward the surveyor's workload.
		h.cancelAssignment(record.ID)
		httpapi.WriteError(w, h.Log, err)
		return
	}

	slot := updated.Slot(org)
	if slot != nil && slot.AssignmentID != record.ID {
		// Idempotent-success path: the slot already held this surveyor from
		// an earlier request, so our fresh record is redundant.
		h.cancelAssignment(record.ID)
	}

	h.Log.Info("surveyor assigned",
		zap.String("dual_assignment_id", dualID.Hex()),
		zap.String("organization", string(org)),
		zap.String("surveyor_id", surveyorID.Hex()),
		zap.String("performed_by", user.Name),
		zap.Bool("both_assigned", updated.IsBothAssigned()))

	// Notifications happen after the state change committed and can never
	// roll it back.
	h.Notifier.SurveyorAssigned(updated, org, policy)
	if updated.IsBothAssigned() {
		h.Notifier.BothAssigned(updated, policy)
	}

	httpapi.WriteJSON(w, http.StatusOK, assignResponse{
		coordinatorResponse: toResponse(updated),
		BothAssignedNow:     updated.IsBothAssigned(),
	})
}

// checkCapacity returns a conflict message when the surveyor cannot take
// another assignment, empty when eligible. A non-nil error means the
// workload count itself failed, not that the surveyor is over capacity.
func (h *Handler) checkCapacity(ctx context.Context, sv models.Surveyor) (string, error) {
	if sv.Status != "active" {
		return fmt.Sprintf("surveyor %s is not active", sv.FullName), nil
	}
	if !sv.Available {
		return fmt.Sprintf("surveyor %s is not available", sv.FullName), nil
	}

	max := int64(sv.MaxConcurrent)
	if max <= 0 {
		max = DefaultMaxConcurrent
	}
	open, err := h.Assignments.CountOpenBySurveyor(ctx, sv.ID)
	if err != nil {
		return "", fmt.Errorf("counting open assignments for surveyor %s: %w", sv.ID.Hex(), err)
	}
	if open >= max {
		return fmt.Sprintf("surveyor %s already has %d open assignments (max %d)", sv.FullName, open, max), nil
	}
	return "", nil
}

// cancelAssignment voids an assignment record whose slot fill did not win.
// Best effort; a leftover "assigned" record is reconciled by ops tooling.
func (h *Handler) cancelAssignment(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Assignments.SetStatus(ctx, id, models.AssignmentStatusCancelled); err != nil {
		h.Log.Warn("failed to cancel redundant assignment record",
			zap.String("assignment_id", id.Hex()), zap.Error(err))
	}
}
