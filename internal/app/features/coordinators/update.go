// internal/app/features/coordinators/update.go
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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUpdate processes PATCH /api/coordinators/{id}. The mutable surface
// is an explicit allow-list (priority and deadlines); request bodies are
// never blind-merged into the document.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.BadRequest(w, err.Error())
		return
	}
	if req.Priority == nil && req.AMMCDeadline == nil && req.NIADeadline == nil && req.OverallDeadline == nil {
		httpapi.BadRequest(w, "no updatable fields supplied")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	da, err := h.Duals.GetByID(ctx, dualID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	now := time.Now().UTC()
	var deadlines *models.Deadlines
	if req.AMMCDeadline != nil || req.NIADeadline != nil || req.OverallDeadline != nil {
		merged, badReq := buildDeadlines(da.EstimatedCompletion, req.AMMCDeadline, req.NIADeadline, req.OverallDeadline, now)
		if badReq != "" {
			httpapi.BadRequest(w, badReq)
			return
		}
		deadlines = &merged
	}

	details := ""
	if req.Priority != nil {
		details = "priority set to " + *req.Priority
	}

	updated, err := h.Duals.UpdateAdminFields(ctx, dualID, req.Priority, deadlines, models.TimelineEvent{
		Event:       models.EventAdminUpdated,
		PerformedBy: user.Name,
		Details:     details,
	})
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("dual assignment updated",
		zap.String("dual_assignment_id", dualID.Hex()),
		zap.String("performed_by", user.Name))

	httpapi.WriteJSON(w, http.StatusOK, toResponse(updated))
}
