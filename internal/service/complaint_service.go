package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/authz"
	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/region"
	"github.com/sakshiot4/UrbanWatch-plus/internal/repository"
	"github.com/sakshiot4/UrbanWatch-plus/internal/validation"
)

// ComplaintStore describes the complaint storage dependency. UpdateLocked
// runs its callback while holding the complaint's row lock, which is how
// every status change is serialized against concurrent actors.
type ComplaintStore interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	GetByTrackingToken(ctx context.Context, token uuid.UUID) (*models.Complaint, error)
	UpdateLocked(ctx context.Context, id uuid.UUID, fn func(c *models.Complaint) error) (*models.Complaint, error)
	List(ctx context.Context, f repository.ComplaintFilter) ([]models.Complaint, error)
	Count(ctx context.Context, f repository.ComplaintFilter) (int, error)
	CountResolved(ctx context.Context) (int, error)
	ListRecentlyClosed(ctx context.Context, limit int) ([]models.Complaint, error)
}

// Notifier queues an email without blocking the caller.
type Notifier interface {
	Notify(to, subject, body string)
}

// Broadcaster pushes an event to a user's live connections.
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

const (
	officerQueuePageSize = 15
	dashboardPageSize    = 10

	eventComplaintUpdated = "complaint.updated"
)

// Page is one page of a complaint listing.
type Page struct {
	Items   []models.Complaint `json:"items"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// ComplaintService drives the complaint lifecycle. Every mutation follows
// the same shape: take the row lock, authorize the principal against the
// loaded complaint, check the transition table, mutate, persist. Emails and
// live pushes happen after the commit and never affect the outcome.
type ComplaintService struct {
	complaints  ComplaintStore
	contractors ContractorStore
	citizens    CitizenRepository
	officers    OfficerRepository
	users       UserRepository
	notifier    Notifier
	hub         Broadcaster
}

// NewComplaintService creates the complaint service.
func NewComplaintService(
	complaints ComplaintStore,
	contractors ContractorStore,
	citizens CitizenRepository,
	officers OfficerRepository,
	users UserRepository,
	notifier Notifier,
	hub Broadcaster,
) *ComplaintService {
	return &ComplaintService{
		complaints:  complaints,
		contractors: contractors,
		citizens:    citizens,
		officers:    officers,
		users:       users,
		notifier:    notifier,
		hub:         hub,
	}
}

// SubmitInput holds the fields of a new complaint.
type SubmitInput struct {
	Title       string
	Description string
	Category    string
	Region      string
	Pincode     string
	Location    *string
	Latitude    *float64
	Longitude   *float64
	ProofImage  *string
}

// Submit creates a complaint in the reported status. When the request
// carries no region it is resolved from the pincode, falling back to the
// citizen's home region.
func (s *ComplaintService) Submit(ctx context.Context, p authz.Principal, in SubmitInput) (*models.Complaint, error) {
	if err := authz.AuthorizeSubmit(p); err != nil {
		return nil, err
	}
	if err := validation.ValidateComplaintTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateComplaintDescription(in.Description); err != nil {
		return nil, err
	}
	if !models.IsValidCategory(in.Category) {
		return nil, apperror.New(apperror.ErrCodeValidation, "unknown category")
	}
	if err := validation.ValidatePincode(in.Pincode); err != nil {
		return nil, err
	}

	resolved := in.Region
	if resolved != "" && !models.IsValidRegion(resolved) {
		return nil, apperror.New(apperror.ErrCodeValidation, "unknown region")
	}
	if resolved == "" {
		if in.Pincode != "" {
			resolved = region.FromPincode(in.Pincode)
		} else {
			resolved = p.Region
		}
	}
	if resolved == "" {
		resolved = models.RegionCentral
	}

	now := time.Now()
	complaint := &models.Complaint{
		ID:            uuid.New(),
		TrackingToken: uuid.New(),
		CitizenID:     p.ProfileID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Region:        resolved,
		Status:        models.StatusReported,
		Location:      in.Location,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		ProofImage:    in.ProofImage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Pincode != "" {
		complaint.Pincode = &in.Pincode
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.notifyCitizen(ctx, complaint, "Complaint received",
		fmt.Sprintf("Your complaint %q has been registered in the %s region. Track its progress with token %s.",
			complaint.Title, complaint.Region, complaint.TrackingToken))

	return complaint, nil
}

// Get returns a complaint, enforcing role-scoped read access.
func (s *ComplaintService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeView(p, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// ComplaintDetail is a complaint plus the participant names shown on the
// detail page.
type ComplaintDetail struct {
	Complaint      *models.Complaint `json:"complaint"`
	Timeline       []TimelineStep    `json:"timeline"`
	OfficerName    *string           `json:"officer_name,omitempty"`
	ContractorName *string           `json:"contractor_name,omitempty"`
}

// Detail returns the complaint with its timeline and the names of the officer
// and contractor working it. Name lookups are best-effort; a missing profile
// never fails the read.
func (s *ComplaintService) Detail(ctx context.Context, p authz.Principal, id uuid.UUID) (*ComplaintDetail, error) {
	complaint, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	detail := &ComplaintDetail{Complaint: complaint, Timeline: Timeline(complaint)}
	if complaint.OfficerID != nil {
		if officer, err := s.officers.GetByID(ctx, *complaint.OfficerID); err == nil {
			detail.OfficerName = &officer.Name
		}
	}
	if complaint.ContractorID != nil {
		if contractor, err := s.contractors.GetByID(ctx, *complaint.ContractorID); err == nil {
			detail.ContractorName = &contractor.Name
		}
	}
	return detail, nil
}

// Claim assigns an unclaimed in-region complaint to the calling officer.
// The check-and-set runs under the row lock, so when two officers race the
// second one observes the first officer's claim and gets a conflict.
func (s *ComplaintService) Claim(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Complaint, error) {
	now := time.Now()
	complaint, err := s.complaints.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		if err := authz.AuthorizeClaim(p, c); err != nil {
			return err
		}
		if err := applyTransition(c, models.StatusAssigned, now); err != nil {
			return err
		}
		officerID := p.ProfileID
		c.OfficerID = &officerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCitizen(ctx, complaint, "Complaint under review",
		fmt.Sprintf("A municipal officer has taken up your complaint %q. You will be notified as work progresses.", complaint.Title))

	return complaint, nil
}

// EligibleContractors lists assignment candidates for a complaint: approved
// contractors whose region and specialization match it, ordered by name.
func (s *ComplaintService) EligibleContractors(ctx context.Context, p authz.Principal, id uuid.UUID) ([]models.Contractor, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeOfficerAction(p, complaint); err != nil {
		return nil, err
	}
	return s.contractors.ListEligible(ctx, complaint.Region, complaint.Category)
}

// AssignContractor hands the complaint to a contractor and moves it to
// in_progress. Eligibility is re-checked here regardless of what list the
// officer picked from.
func (s *ComplaintService) AssignContractor(ctx context.Context, p authz.Principal, id, contractorID uuid.UUID) (*models.Complaint, error) {
	contractor, err := s.contractors.GetByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	complaint, err := s.complaints.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		if err := authz.AuthorizeOfficerAction(p, c); err != nil {
			return err
		}
		if !contractor.IsEligibleFor(c.Region, c.Category) {
			return apperror.New(apperror.ErrCodeValidation, "contractor is not eligible for this complaint")
		}
		if err := applyTransition(c, models.StatusInProgress, now); err != nil {
			return err
		}
		assignee := contractor.ID
		c.ContractorID = &assignee
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(contractor.Email, "New work assignment",
		fmt.Sprintf("Hello %s, you have been assigned to %q (%s, %s region). Please start the work and upload a completion photo when done.",
			contractor.Name, complaint.Title, complaint.Category, complaint.Region))
	s.push(contractor.UserID, complaint)
	s.pushToCitizen(ctx, complaint)

	return complaint, nil
}

// RemoveContractor withdraws the current contractor and returns the
// complaint to assigned. The in_progress timestamp is left as is so a later
// re-assignment does not rewrite history.
func (s *ComplaintService) RemoveContractor(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Complaint, error) {
	var removedID uuid.UUID

	now := time.Now()
	complaint, err := s.complaints.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		if err := authz.AuthorizeOfficerAction(p, c); err != nil {
			return err
		}
		if c.ContractorID == nil {
			return apperror.New(apperror.ErrCodeValidation, "no contractor is assigned to this complaint")
		}
		if err := applyTransition(c, models.StatusAssigned, now); err != nil {
			return err
		}

		// Remember who was removed, but look them up after the row lock
		// is released. Notification is best effort anyway.
		removedID = *c.ContractorID
		c.ContractorID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed, err := s.contractors.GetByID(ctx, removedID); err == nil {
		s.notifier.Notify(removed.Email, "Assignment withdrawn",
			fmt.Sprintf("Hello %s, your assignment to %q has been withdrawn by the supervising officer.", removed.Name, complaint.Title))
		s.push(removed.UserID, complaint)
	}

	return complaint, nil
}

// Complete marks the work done. A completion photo must be present, either
// uploaded with this call or stored earlier; without one the complaint
// stays in_progress. Feedback from a previous rejection is cleared.
func (s *ComplaintService) Complete(ctx context.Context, p authz.Principal, id uuid.UUID, image string) (*models.Complaint, error) {
	now := time.Now()
	complaint, err := s.complaints.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		if err := authz.AuthorizeContractorAction(p, c); err != nil {
			return err
		}
		if image != "" {
			img := image
			c.CompletionImage = &img
		}
		if !c.HasCompletionImage() {
			return apperror.New(apperror.ErrCodeValidation, "a completion photo is required to mark the work done")
		}
		if err := applyTransition(c, models.StatusCompleted, now); err != nil {
			return err
		}
		c.OfficerFeedback = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyOfficer(ctx, complaint, "Work completed",
		fmt.Sprintf("The contractor reports %q as completed. Please verify the work and close or reject it.", complaint.Title))
	s.pushToCitizen(ctx, complaint)

	return complaint, nil
}

// RejectWork sends completed work back to the contractor. The completion
// timestamp is cleared and the in_progress timestamp refreshed, so the
// record shows the rework cycle instead of the original attempt.
func (s *ComplaintService) RejectWork(ctx context.Context, p authz.Principal, id uuid.UUID, reason string) (*models.Complaint, error) {
	if err := validation.ValidateRejectionReason(reason); err != nil {
		return nil, err
	}

	now := time.Now()
	complaint, err := s.complaints.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		if err := authz.AuthorizeOfficerAction(p, c); err != nil {
			return err
		}
		if err := applyTransition(c, models.StatusInProgress, now); err != nil {
			return err
		}
		c.CompletedAt = nil
		c.InProgressAt = &now
		feedback := reason
		c.OfficerFeedback = &feedback
		return nil
	})
	if err != nil {
		return nil, err
	}

	if complaint.ContractorID != nil {
		if contractor, err := s.contractors.GetByID(ctx, *complaint.ContractorID); err == nil {
			s.notifier.Notify(contractor.Email, "Work rejected",
				fmt.Sprintf("Hello %s, the work on %q was not accepted. Officer feedback: %s", contractor.Name, complaint.Title, reason))
			s.push(contractor.UserID, complaint)
		}
	}

	return complaint, nil
}

// Close accepts completed work and ends the complaint's lifecycle.
func (s *ComplaintService) Close(ctx context.Context, p authz.Principal, id uuid.UUID) (*models.Complaint, error) {
	now := time.Now()
	complaint, err := s.complaints.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		if err := authz.AuthorizeOfficerAction(p, c); err != nil {
			return err
		}
		return applyTransition(c, models.StatusClosed, now)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCitizen(ctx, complaint, "Complaint resolved",
		fmt.Sprintf("Your complaint %q has been resolved and closed. Thank you for reporting it.", complaint.Title))

	return complaint, nil
}

// OfficerQueue lists unclaimed reported complaints in the officer's region.
func (s *ComplaintService) OfficerQueue(ctx context.Context, p authz.Principal, page int) (*Page, error) {
	if !p.IsOfficer() {
		return nil, apperror.ErrForbidden
	}
	return s.page(ctx, repository.ComplaintFilter{
		Statuses:   []models.ComplaintStatus{models.StatusReported},
		Region:     p.Region,
		Unassigned: true,
	}, page, officerQueuePageSize)
}

// OfficerComplaints lists the officer's own claimed complaints, most
// recently touched first.
func (s *ComplaintService) OfficerComplaints(ctx context.Context, p authz.Principal, page int) (*Page, error) {
	if !p.IsOfficer() {
		return nil, apperror.ErrForbidden
	}
	officerID := p.ProfileID
	return s.page(ctx, repository.ComplaintFilter{
		OfficerID: &officerID,
		OrderBy:   "updated_at DESC",
	}, page, officerQueuePageSize)
}

// ContractorActive lists the contractor's open assignments.
func (s *ComplaintService) ContractorActive(ctx context.Context, p authz.Principal, page int) (*Page, error) {
	if err := s.requireApprovedContractor(p); err != nil {
		return nil, err
	}
	contractorID := p.ProfileID
	return s.page(ctx, repository.ComplaintFilter{
		Statuses:     []models.ComplaintStatus{models.StatusAssigned, models.StatusInProgress},
		ContractorID: &contractorID,
		OrderBy:      "updated_at DESC",
	}, page, dashboardPageSize)
}

// ContractorHistory lists the contractor's finished assignments.
func (s *ComplaintService) ContractorHistory(ctx context.Context, p authz.Principal, page int) (*Page, error) {
	if err := s.requireApprovedContractor(p); err != nil {
		return nil, err
	}
	contractorID := p.ProfileID
	return s.page(ctx, repository.ComplaintFilter{
		Statuses:     []models.ComplaintStatus{models.StatusCompleted, models.StatusClosed},
		ContractorID: &contractorID,
		OrderBy:      "updated_at DESC",
	}, page, dashboardPageSize)
}

// CitizenPending lists the citizen's complaints still being worked on.
func (s *ComplaintService) CitizenPending(ctx context.Context, p authz.Principal, page int) (*Page, error) {
	if !p.IsCitizen() {
		return nil, apperror.ErrForbidden
	}
	citizenID := p.ProfileID
	return s.page(ctx, repository.ComplaintFilter{
		Statuses:  []models.ComplaintStatus{models.StatusReported, models.StatusAssigned, models.StatusInProgress},
		CitizenID: &citizenID,
	}, page, dashboardPageSize)
}

// CitizenResolved lists the citizen's completed and closed complaints.
func (s *ComplaintService) CitizenResolved(ctx context.Context, p authz.Principal, page int) (*Page, error) {
	if !p.IsCitizen() {
		return nil, apperror.ErrForbidden
	}
	citizenID := p.ProfileID
	return s.page(ctx, repository.ComplaintFilter{
		Statuses:  []models.ComplaintStatus{models.StatusCompleted, models.StatusClosed},
		CitizenID: &citizenID,
	}, page, dashboardPageSize)
}

// requireApprovedContractor gates contractor dashboards so pending and
// rejected applicants see their approval state instead of an empty list.
func (s *ComplaintService) requireApprovedContractor(p authz.Principal) error {
	if !p.IsContractor() {
		return apperror.ErrForbidden
	}
	switch p.ApprovalStatus {
	case models.ApprovalApproved:
		return nil
	case models.ApprovalRejected:
		return apperror.New(apperror.ErrCodeForbidden, "your contractor application was rejected")
	default:
		return apperror.New(apperror.ErrCodeForbidden, "your contractor application is awaiting approval")
	}
}

func (s *ComplaintService) page(ctx context.Context, f repository.ComplaintFilter, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.complaints.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	f.Limit = perPage
	f.Offset = (page - 1) * perPage
	items, err := s.complaints.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &Page{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// applyTransition validates a status edge against the transition table and
// records the entry timestamp. Each per-status timestamp is set only on the
// first entry; rework-specific refreshes are done by the caller.
func applyTransition(c *models.Complaint, next models.ComplaintStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return apperror.InvalidTransition(string(c.Status), string(next))
	}

	c.Status = next
	c.UpdatedAt = now

	switch next {
	case models.StatusAssigned:
		if c.AssignedAt == nil {
			c.AssignedAt = &now
		}
	case models.StatusInProgress:
		if c.InProgressAt == nil {
			c.InProgressAt = &now
		}
	case models.StatusCompleted:
		if c.CompletedAt == nil {
			c.CompletedAt = &now
		}
	case models.StatusClosed:
		if c.ClosedAt == nil {
			c.ClosedAt = &now
		}
	}
	return nil
}

// notifyCitizen emails the complaint's owner and pushes the update to their
// live connections. Failures are logged and swallowed.
func (s *ComplaintService) notifyCitizen(ctx context.Context, c *models.Complaint, subject, body string) {
	citizen, err := s.citizens.GetByID(ctx, c.CitizenID)
	if err != nil {
		logger.Log.WithError(err).Warn("complaint service: citizen lookup for notification failed")
		return
	}
	user, err := s.users.GetByID(ctx, citizen.UserID)
	if err != nil {
		logger.Log.WithError(err).Warn("complaint service: user lookup for notification failed")
		return
	}
	s.notifier.Notify(user.Email, subject, body)
	s.push(citizen.UserID, c)
}

// notifyOfficer emails the complaint's assigned officer.
func (s *ComplaintService) notifyOfficer(ctx context.Context, c *models.Complaint, subject, body string) {
	if c.OfficerID == nil {
		return
	}
	officer, err := s.officers.GetByID(ctx, *c.OfficerID)
	if err != nil {
		logger.Log.WithError(err).Warn("complaint service: officer lookup for notification failed")
		return
	}
	s.notifier.Notify(officer.Email, subject, body)
	s.push(officer.UserID, c)
}

func (s *ComplaintService) pushToCitizen(ctx context.Context, c *models.Complaint) {
	citizen, err := s.citizens.GetByID(ctx, c.CitizenID)
	if err != nil {
		return
	}
	s.push(citizen.UserID, c)
}

func (s *ComplaintService) push(userID uuid.UUID, c *models.Complaint) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastToUser(userID, eventComplaintUpdated, c); err != nil {
		logger.Log.WithError(err).Warn("complaint service: live push failed")
	}
}
