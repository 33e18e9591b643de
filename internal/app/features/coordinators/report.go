// internal/app/features/coordinators/report.go
package coordinators

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/auth"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/httpapi"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/timeouts"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// reportResponse returns the derived completion state after a submission.
type reportResponse struct {
	CompletionStatus     int    `json:"completion_status"`
	BothReportsSubmitted bool   `json:"both_reports_submitted"`
	ProcessingStatus     string `json:"processing_status"`
}

// HandleReportSubmitted processes POST /api/coordinators/{id}/reports.
//
// Submitting for an organization whose slot is unassigned is a hard 400:
// a report must tie back to an assigned surveyor. Duplicate submissions are
// tolerated (the timeline keeps both events) but never double-count.
func (h *Handler) HandleReportSubmitted(w http.ResponseWriter, r *http.Request) {
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

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}
	org := models.Organization(req.Organization)

	// Surveyor-side users may only submit for their own organization.
	if user.Role == "surveyor" && user.Organization != string(org) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Duals.RecordReportSubmitted(ctx, dualID, org, models.TimelineEvent{
		Event:        models.ReportSubmittedEvent(org),
		PerformedBy:  user.Name,
		Organization: string(org),
		Details:      req.ReportID,
	})
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("survey report submitted",
		zap.String("dual_assignment_id", dualID.Hex()),
		zap.String("organization", string(org)),
		zap.String("report_id", req.ReportID),
		zap.Int("completion_status", updated.CompletionStatus()))

	if policy, perr := h.Policies.GetByID(ctx, updated.PolicyID); perr == nil {
		h.Notifier.ReportSubmitted(updated, org, policy)
	} else {
		h.Log.Warn("policy lookup for notification failed", zap.Error(perr))
	}

	httpapi.WriteJSON(w, http.StatusOK, reportResponse{
		CompletionStatus:     updated.CompletionStatus(),
		BothReportsSubmitted: updated.IsBothReportsSubmitted(),
		ProcessingStatus:     updated.ProcessingStatus,
	})
}
