package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/authz"
	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/validation"
)

// ContractorStore describes the contractor profile storage dependency.
type ContractorStore interface {
	Create(ctx context.Context, contractor *models.Contractor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Contractor, error)
	ListEligible(ctx context.Context, region, category string) ([]models.Contractor, error)
	ListPending(ctx context.Context) ([]models.Contractor, error)
	Approve(ctx context.Context, id, officerID uuid.UUID, at time.Time) error
	Reject(ctx context.Context, id uuid.UUID, reason string) error
}

// ContractorService covers the contractor approval workflow. Only approved
// contractors show up as assignment candidates.
type ContractorService struct {
	contractors ContractorStore
	notifier    Notifier
}

// NewContractorService creates the contractor service.
func NewContractorService(contractors ContractorStore, notifier Notifier) *ContractorService {
	return &ContractorService{contractors: contractors, notifier: notifier}
}

// ListPending returns applications awaiting an officer's decision.
func (s *ContractorService) ListPending(ctx context.Context, p authz.Principal) ([]models.Contractor, error) {
	if err := authz.AuthorizeApproval(p); err != nil {
		return nil, err
	}
	return s.contractors.ListPending(ctx)
}

// Approve accepts a pending contractor application.
func (s *ContractorService) Approve(ctx context.Context, p authz.Principal, contractorID uuid.UUID) (*models.Contractor, error) {
	if err := authz.AuthorizeApproval(p); err != nil {
		return nil, err
	}

	if err := s.contractors.Approve(ctx, contractorID, p.ProfileID, time.Now()); err != nil {
		return nil, err
	}

	contractor, err := s.contractors.GetByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(contractor.Email, "Application approved",
		fmt.Sprintf("Hello %s, your contractor application has been approved. You can now receive work assignments in the %s region.", contractor.Name, contractor.Region))

	return contractor, nil
}

// Reject declines a pending contractor application with a reason.
func (s *ContractorService) Reject(ctx context.Context, p authz.Principal, contractorID uuid.UUID, reason string) (*models.Contractor, error) {
	if err := authz.AuthorizeApproval(p); err != nil {
		return nil, err
	}
	if err := validation.ValidateRejectionReason(reason); err != nil {
		return nil, err
	}

	if err := s.contractors.Reject(ctx, contractorID, reason); err != nil {
		return nil, err
	}

	contractor, err := s.contractors.GetByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(contractor.Email, "Application rejected",
		fmt.Sprintf("Hello %s, your contractor application was rejected. Reason: %s", contractor.Name, reason))

	return contractor, nil
}
