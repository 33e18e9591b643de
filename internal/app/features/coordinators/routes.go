// internal/app/features/coordinators/routes.go
package coordinators

import (
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all coordinator routes under the path where the caller
// mounts it. Typically: r.Mount("/api/coordinators", coordinators.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Reads: any signed-in user.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleGet)
		pr.Get("/{id}/contacts", h.HandleGetContacts)
	})

	// Admin-only workflow mutations.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))

		pr.Post("/", h.HandleCreate)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Get("/{id}/candidates", h.HandleCandidates)
		pr.Post("/{id}/assign", h.HandleAssign)
	})

	// Report submission: admins or the surveyor-side user for the org.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin", "surveyor"))

		pr.Post("/{id}/reports", h.HandleReportSubmitted)
	})

	return r
}
