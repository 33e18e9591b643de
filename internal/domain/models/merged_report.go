// internal/domain/models/merged_report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MergedReport is the combined survey report produced once both
// organizations have submitted. The merge poller creates it; the content
// pipeline that fills in the substantive body is owned downstream.
type MergedReport struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PolicyID         primitive.ObjectID `bson:"policy_id" json:"policy_id"`
	DualAssignmentID primitive.ObjectID `bson:"dual_assignment_id" json:"dual_assignment_id"`

	AMMCReportID string `bson:"ammc_report_id" json:"ammc_report_id"`
	NIAReportID  string `bson:"nia_report_id" json:"nia_report_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
