// internal/app/features/coordinators/candidates.go
package coordinators

import (
	"context"
	"net/http"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/httpapi"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/timeouts"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCandidates processes GET /api/coordinators/{id}/candidates, listing
// the active, available surveyors for the requested organization, best-rated
// first. The workload cap is enforced at assign time, not here; a candidate
// shown in this list can still be rejected by the capacity check.
func (h *Handler) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	dualID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid coordinator id")
		return
	}
	org := models.Organization(r.URL.Query().Get("organization"))
	if !org.Valid() {
		httpapi.BadRequest(w, "organization must be AMMC or NIA")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Duals.GetByID(ctx, dualID); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	candidates, err := h.Surveyors.ListAvailable(ctx, org)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	if candidates == nil {
		candidates = []models.Surveyor{}
	}
	httpapi.WriteJSON(w, http.StatusOK, candidates)
}
