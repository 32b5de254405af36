package models

import (
	"time"

	"github.com/google/uuid"
)

// Contractor is a service provider profile, one-to-one with a user. New
// contractors start in the pending state and must be approved by an officer
// before they can be assigned to complaints.
type Contractor struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	Phone           string     `db:"phone" json:"phone"`
	CompanyName     string     `db:"company_name" json:"company_name"`
	LicenseNumber   string     `db:"license_number" json:"license_number"`
	Specialization  string     `db:"specialization" json:"specialization"`
	Region          string     `db:"region" json:"region"`
	Status          string     `db:"status" json:"status"`
	ApprovedByID    *uuid.UUID `db:"approved_by_id" json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// IsApproved reports whether the contractor passed officer approval.
func (c *Contractor) IsApproved() bool {
	return c.Status == ApprovalApproved
}

// IsEligibleFor reports whether the contractor may be assigned to a
// complaint with the given region and category. The same predicate backs
// both the officer's assignment choices and the server-side validation of
// an assignment attempt.
func (c *Contractor) IsEligibleFor(region, category string) bool {
	return c.IsApproved() && c.Region == region && c.Specialization == category
}
