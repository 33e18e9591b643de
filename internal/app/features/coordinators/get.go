// internal/app/features/coordinators/get.go
package coordinators

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/dualassign"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/httpapi"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/timeouts"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleGet processes GET /api/coordinators/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	dualID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid coordinator id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	da, err := h.Duals.GetByID(ctx, dualID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toResponse(da))
}

// HandleGetContacts processes GET /api/coordinators/{id}/contacts, returning
// the point-in-time contact snapshots for both slots (null when unfilled).
func (h *Handler) HandleGetContacts(w http.ResponseWriter, r *http.Request) {
	dualID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid coordinator id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	da, err := h.Duals.GetByID(ctx, dualID)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}

	contacts := da.SurveyorContacts()
	httpapi.WriteJSON(w, http.StatusOK, contactsResponse{
		AMMC: contacts[models.OrgAMMC],
		NIA:  contacts[models.OrgNIA],
	})
}

// HandleList processes GET /api/coordinators with optional filters:
// priority, processing_status, policy_id, overdue=true, limit.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()

	if q.Get("overdue") == "true" {
		onlyOverdue, err := h.Duals.ListOverdue(ctx, time.Now().UTC())
		if err != nil {
			httpapi.WriteError(w, h.Log, err)
			return
		}
		writeList(w, onlyOverdue)
		return
	}

	f := dualassign.ListFilter{
		Priority:         q.Get("priority"),
		ProcessingStatus: q.Get("processing_status"),
	}
	if f.Priority != "" && !models.ValidPriority(f.Priority) {
		httpapi.BadRequest(w, "invalid priority filter")
		return
	}
	if hexID := q.Get("policy_id"); hexID != "" {
		policyID, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			httpapi.BadRequest(w, "invalid policy_id filter")
			return
		}
		f.PolicyID = policyID
	}

	limit := int64(0)
	if s := q.Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			httpapi.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	list, err := h.Duals.List(ctx, f, limit)
	if err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	writeList(w, list)
}

func writeList(w http.ResponseWriter, list []models.DualAssignment) {
	out := make([]coordinatorResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toResponse(d))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}
