package authz

import (
	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// Authorization failures are FORBIDDEN, distinct from the INVALID_TRANSITION
// errors of the state machine: callers can tell "not allowed" from "not
// possible right now". Claim conflicts are CONFLICT so a second officer sees
// a warning rather than a hard denial.
var (
	errNotOfficer       = apperror.New(apperror.ErrCodeForbidden, "only officers may perform this action")
	errNotContractor    = apperror.New(apperror.ErrCodeForbidden, "only contractors may perform this action")
	errNotCitizen       = apperror.New(apperror.ErrCodeForbidden, "only citizens may perform this action")
	errWrongRegion      = apperror.New(apperror.ErrCodeForbidden, "you can only act on complaints from your own region")
	errNotAssignedOff   = apperror.New(apperror.ErrCodeForbidden, "you are not assigned to this complaint")
	errNotAssignedContr = apperror.New(apperror.ErrCodeForbidden, "you are not assigned to this complaint")
	errNotOwner         = apperror.New(apperror.ErrCodeForbidden, "you do not have permission to view this complaint")
	errAlreadyClaimed   = apperror.New(apperror.ErrCodeConflict, "this complaint is already assigned to another officer")
	errContractorClosed = apperror.New(apperror.ErrCodeForbidden, "you cannot update this complaint in its current status")
)

// AuthorizeSubmit checks that the principal may create a complaint for the
// given citizen profile: citizens submit for themselves only.
func AuthorizeSubmit(p Principal) error {
	if !p.IsCitizen() {
		return errNotCitizen
	}
	return nil
}

// AuthorizeView checks read access to a complaint: the owning citizen, the
// in-region officer, or the assigned contractor.
func AuthorizeView(p Principal, c *models.Complaint) error {
	switch {
	case p.IsCitizen():
		if !c.IsOwnedBy(p.ProfileID) {
			return errNotOwner
		}
	case p.IsOfficer():
		if c.Region != p.Region {
			return errWrongRegion
		}
	case p.IsContractor():
		if !c.IsAssignedContractor(p.ProfileID) {
			return errNotAssignedContr
		}
	default:
		return apperror.ErrForbidden
	}
	return nil
}

// AuthorizeClaim checks that an officer may claim an unassigned complaint in
// their home region. First-committer-wins: the caller runs this under the
// complaint's row lock, so the second claimer observes the officer reference
// set by the first and receives a conflict.
func AuthorizeClaim(p Principal, c *models.Complaint) error {
	if !p.IsOfficer() {
		return errNotOfficer
	}
	if c.Region != p.Region {
		return errWrongRegion
	}
	if c.HasOfficer() {
		return errAlreadyClaimed
	}
	return nil
}

// AuthorizeOfficerAction checks that the principal is the complaint's
// assigned officer acting inside their home region.
func AuthorizeOfficerAction(p Principal, c *models.Complaint) error {
	if !p.IsOfficer() {
		return errNotOfficer
	}
	if c.Region != p.Region {
		return errWrongRegion
	}
	if !c.IsAssignedOfficer(p.ProfileID) {
		return errNotAssignedOff
	}
	return nil
}

// AuthorizeContractorAction checks that the principal is the complaint's
// currently assigned contractor and that the complaint is in a status a
// contractor may act on (assigned or in_progress).
func AuthorizeContractorAction(p Principal, c *models.Complaint) error {
	if !p.IsContractor() {
		return errNotContractor
	}
	if !c.IsAssignedContractor(p.ProfileID) {
		return errNotAssignedContr
	}
	if c.Status != models.StatusAssigned && c.Status != models.StatusInProgress {
		return errContractorClosed
	}
	return nil
}

// AuthorizeApproval checks that the principal is an officer; contractor
// approval is not region-scoped in this workflow.
func AuthorizeApproval(p Principal) error {
	if !p.IsOfficer() {
		return errNotOfficer
	}
	return nil
}
