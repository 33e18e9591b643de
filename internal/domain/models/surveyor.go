// internal/domain/models/surveyor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Surveyor is a licensed property surveyor belonging to one of the two
// partner organizations. The directory is read-mostly: profiles are
// maintained elsewhere and consulted here for eligibility checks and
// contact snapshots.
type Surveyor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Organization Organization       `bson:"organization" json:"organization"`

	LicenseNumber   string  `bson:"license_number" json:"license_number"`
	Specialization  string  `bson:"specialization" json:"specialization"`
	ExperienceYears int     `bson:"experience_years" json:"experience_years"`
	Rating          float64 `bson:"rating" json:"rating"`

	Status    string `bson:"status" json:"status"` // "active" or "inactive"
	Available bool   `bson:"available" json:"available"`

	// MaxConcurrent caps open assignments; 0 means the service default.
	MaxConcurrent int `bson:"max_concurrent" json:"max_concurrent"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
