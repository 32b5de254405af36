package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

func northOfficer() Principal {
	return OfficerPrincipal(&models.Officer{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Region: models.RegionNorth,
	})
}

func TestAuthorizeClaim_RegionMismatch(t *testing.T) {
	p := northOfficer()
	c := &models.Complaint{Region: models.RegionSouth, Status: models.StatusReported}

	err := AuthorizeClaim(p, c)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAuthorizeClaim_AlreadyClaimed(t *testing.T) {
	p := northOfficer()
	other := uuid.New()
	c := &models.Complaint{Region: models.RegionNorth, Status: models.StatusReported, OfficerID: &other}

	err := AuthorizeClaim(p, c)
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestAuthorizeClaim_OK(t *testing.T) {
	p := northOfficer()
	c := &models.Complaint{Region: models.RegionNorth, Status: models.StatusReported}

	assert.NoError(t, AuthorizeClaim(p, c))
}

func TestAuthorizeClaim_NotOfficer(t *testing.T) {
	p := CitizenPrincipal(&models.Citizen{ID: uuid.New(), UserID: uuid.New(), Region: models.RegionNorth})
	c := &models.Complaint{Region: models.RegionNorth, Status: models.StatusReported}

	assert.True(t, apperror.IsForbidden(AuthorizeClaim(p, c)))
}

func TestAuthorizeOfficerAction(t *testing.T) {
	p := northOfficer()

	unclaimed := &models.Complaint{Region: models.RegionNorth}
	assert.True(t, apperror.IsForbidden(AuthorizeOfficerAction(p, unclaimed)))

	mine := &models.Complaint{Region: models.RegionNorth, OfficerID: &p.ProfileID}
	assert.NoError(t, AuthorizeOfficerAction(p, mine))

	otherOfficer := uuid.New()
	claimed := &models.Complaint{Region: models.RegionNorth, OfficerID: &otherOfficer}
	assert.True(t, apperror.IsForbidden(AuthorizeOfficerAction(p, claimed)))
}

func TestAuthorizeContractorAction(t *testing.T) {
	contractor := &models.Contractor{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Region:         models.RegionNorth,
		Specialization: models.CategoryRoad,
		Status:         models.ApprovalApproved,
	}
	p := ContractorPrincipal(contractor)

	assigned := &models.Complaint{Status: models.StatusInProgress, ContractorID: &contractor.ID}
	assert.NoError(t, AuthorizeContractorAction(p, assigned))

	notMine := &models.Complaint{Status: models.StatusInProgress}
	assert.True(t, apperror.IsForbidden(AuthorizeContractorAction(p, notMine)))

	completed := &models.Complaint{Status: models.StatusCompleted, ContractorID: &contractor.ID}
	assert.True(t, apperror.IsForbidden(AuthorizeContractorAction(p, completed)))
}

func TestAuthorizeView(t *testing.T) {
	citizen := &models.Citizen{ID: uuid.New(), UserID: uuid.New(), Region: models.RegionEast}
	p := CitizenPrincipal(citizen)

	own := &models.Complaint{CitizenID: citizen.ID}
	assert.NoError(t, AuthorizeView(p, own))

	foreign := &models.Complaint{CitizenID: uuid.New()}
	assert.True(t, apperror.IsForbidden(AuthorizeView(p, foreign)))
}
