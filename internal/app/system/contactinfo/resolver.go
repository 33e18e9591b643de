// internal/app/system/contactinfo/resolver.go

// Package contactinfo builds the denormalized contact snapshot embedded
// into a coordinator slot at assignment time. The snapshot is deliberately
// a point-in-time copy; later profile edits do not flow back into slots.
package contactinfo

import (
	"github.com/Leaders-Network/FCT-DCIP-BACKEND-sub001/internal/domain/models"
)

// Snapshot copies the surveyor's contact and profile fields into the shape
// stored on a coordinator slot.
func Snapshot(sv models.Surveyor) models.ContactSnapshot {
	return models.ContactSnapshot{
		Name:            sv.FullName,
		Email:           sv.Email,
		Phone:           sv.Phone,
		LicenseNumber:   sv.LicenseNumber,
		Specialization:  sv.Specialization,
		ExperienceYears: sv.ExperienceYears,
		Rating:          sv.Rating,
	}
}
