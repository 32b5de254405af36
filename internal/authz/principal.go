// Package authz carries the acting principal through every mutating call and
// enforces role-scoped access to complaints.
package authz

import (
	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
)

// Principal is the acting identity, resolved once at request entry and passed
// explicitly into every service call. ProfileID is the role profile (citizen,
// officer or contractor), not the login user. Region, Specialization and
// ApprovalStatus are populated only for the roles that have them.
type Principal struct {
	UserID         uuid.UUID
	ProfileID      uuid.UUID
	Role           string
	Region         string
	Specialization string
	ApprovalStatus string
}

// CitizenPrincipal builds the principal for a citizen profile.
func CitizenPrincipal(c *models.Citizen) Principal {
	return Principal{
		UserID:    c.UserID,
		ProfileID: c.ID,
		Role:      models.RoleCitizen,
		Region:    c.Region,
	}
}

// OfficerPrincipal builds the principal for an officer profile.
func OfficerPrincipal(o *models.Officer) Principal {
	return Principal{
		UserID:    o.UserID,
		ProfileID: o.ID,
		Role:      models.RoleOfficer,
		Region:    o.Region,
	}
}

// ContractorPrincipal builds the principal for a contractor profile.
func ContractorPrincipal(c *models.Contractor) Principal {
	return Principal{
		UserID:         c.UserID,
		ProfileID:      c.ID,
		Role:           models.RoleContractor,
		Region:         c.Region,
		Specialization: c.Specialization,
		ApprovalStatus: c.Status,
	}
}

// IsCitizen reports whether the principal acts as a citizen.
func (p Principal) IsCitizen() bool { return p.Role == models.RoleCitizen }

// IsOfficer reports whether the principal acts as an officer.
func (p Principal) IsOfficer() bool { return p.Role == models.RoleOfficer }

// IsContractor reports whether the principal acts as a contractor.
func (p Principal) IsContractor() bool { return p.Role == models.RoleContractor }
