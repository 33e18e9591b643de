// internal/app/system/httpapi/httpapi.go

// Package httpapi centralizes JSON response rendering and the mapping from
// domain errors to HTTP status codes. Handlers return specific, actionable
// error payloads (e.g. naming the surveyor already occupying a slot) so the
// admin UI can offer retry-safe behavior instead of a generic failure.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/assignments"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/dualassign"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/policies"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/surveyors"
	"go.uber.org/zap"
)

// ErrorBody is the JSON error envelope for all API failures.
type ErrorBody struct {
	Error string `json:"error"`

	// ExistingID carries the id of the conflicting record for Conflict
	// responses (existing coordinator or occupying assignment), enabling
	// idempotent retry-safe UI behavior.
	ExistingID string `json:"existing_id,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: msg})
}

// WriteError maps a domain error to an HTTP response. Unknown errors are
// logged and rendered as an opaque 500; precondition failures pass through
// with their specific messages.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	var existsErr *dualassign.CoordinatorExistsError
	if errors.As(err, &existsErr) {
		WriteJSON(w, http.StatusConflict, ErrorBody{
			Error:      existsErr.Error(),
			ExistingID: existsErr.ExistingID.Hex(),
		})
		return
	}

	var slotErr *dualassign.SlotConflictError
	if errors.As(err, &slotErr) {
		WriteJSON(w, http.StatusConflict, ErrorBody{
			Error:      slotErr.Error(),
			ExistingID: slotErr.ExistingAssignmentID.Hex(),
		})
		return
	}

	switch {
	case errors.Is(err, dualassign.ErrNotFound),
		errors.Is(err, assignments.ErrNotFound),
		errors.Is(err, policies.ErrNotFound),
		errors.Is(err, surveyors.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorBody{Error: err.Error()})
	case errors.Is(err, dualassign.ErrSlotEmpty):
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
	default:
		log.Error("request failed", zap.Error(err))
		WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal error"})
	}
}
