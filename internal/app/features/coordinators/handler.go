// internal/app/features/coordinators/handler.go
package coordinators

import (
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/assignments"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/dualassign"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/policies"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/store/surveyors"
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/app/system/notify"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxConcurrent caps a surveyor's open assignments when the profile
// does not specify its own limit.
const DefaultMaxConcurrent = 3

// Handler is the feature-level handler for the dual-assignment coordinator
// API. It holds the DB handle, stores, and logger provided at startup.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Duals       *dualassign.Store
	Assignments *assignments.Store
	Surveyors   *surveyors.Store
	Policies    *policies.Store
	Notifier    *notify.Notifier

	validate *validator.Validate
	sanitize *bluemonday.Policy
}

func NewHandler(db *mongo.Database, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Duals:       dualassign.New(db),
		Assignments: assignments.New(db),
		Surveyors:   surveyors.New(db),
		Policies:    policies.New(db),
		Notifier:    notifier,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		sanitize:    bluemonday.StrictPolicy(),
	}
}
