// internal/app/features/coordinators/create.go
package coordinators

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/auth"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/httpapi"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/timeouts"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate processes POST /api/coordinators: creates the per-policy
// coordinator with both slots empty. Creating twice for the same policy
// yields a 409 carrying the existing coordinator's id.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}

	policyID, err := primitive.ObjectIDFromHex(req.PolicyID)
	if err != nil {
		httpapi.BadRequest(w, "invalid policy_id")
		return
	}

	now := time.Now().UTC()
	deadlines, badReq := buildDeadlines(models.Deadlines{}, req.AMMCDeadline, req.NIADeadline, req.OverallDeadline, now)
	if badReq != "" {
		httpapi.BadRequest(w, badReq)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	policy, err := h.Policies.GetByID(ctx, policyID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if !policy.EligibleForAssignment() {
		httpapi.BadRequest(w, "policy is not in a state eligible for assignment")
		return
	}

	created, err := h.Duals.Create(ctx, models.DualAssignment{
		PolicyID:            policyID,
		Priority:            req.Priority,
		EstimatedCompletion: deadlines,
		Timeline: []models.TimelineEvent{{
			Event:       models.EventCreated,
			Timestamp:   now,
			PerformedBy: user.Name,
		}},
	})
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("dual assignment created",
		zap.String("dual_assignment_id", created.ID.Hex()),
		zap.String("policy_id", policyID.Hex()),
		zap.String("performed_by", user.Name))

	httpapi.WriteJSON(w, http.StatusCreated, toResponse(created))
}

// buildDeadlines merges the optional request deadlines over base and
// rejects deadlines in the past. Returns a non-empty message on bad input.
func buildDeadlines(base models.Deadlines, ammc, nia, overall *time.Time, now time.Time) (models.Deadlines, string) {
	out := base
	if ammc != nil {
		if ammc.Before(now) {
			return out, "ammc_deadline is in the past"
		}
		out.AMMC = ammc.UTC()
	}
	if nia != nil {
		if nia.Before(now) {
			return out, "nia_deadline is in the past"
		}
		out.NIA = nia.UTC()
	}
	if overall != nil {
		if overall.Before(now) {
			return out, "overall_deadline is in the past"
		}
		out.Overall = overall.UTC()
	}
	return out, ""
}
