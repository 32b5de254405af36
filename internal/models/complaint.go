package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus is the lifecycle status of a complaint.
type ComplaintStatus string

const (
	StatusReported   ComplaintStatus = "reported"
	StatusAssigned   ComplaintStatus = "assigned"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusCompleted  ComplaintStatus = "completed"
	StatusClosed     ComplaintStatus = "closed"
)

// StatusTransitions is the exhaustive transition table. Any edge not listed
// here is illegal; "closed" is terminal.
var StatusTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusReported:   {StatusAssigned},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusAssigned},
	StatusCompleted:  {StatusClosed, StatusInProgress},
	StatusClosed:     {},
}

func (s ComplaintStatus) IsValid() bool {
	switch s {
	case StatusReported, StatusAssigned, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// CanTransitionTo is a pure lookup in the transition table.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	allowed, ok := StatusTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

// Complaint is the central entity of the workflow. Status may only change
// through the transition table; the per-status timestamps are each set on
// first entry to that status and never overwritten, except InProgressAt which
// is refreshed when an officer rejects completed work.
type Complaint struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TrackingToken uuid.UUID       `db:"tracking_token" json:"tracking_token"`
	CitizenID     uuid.UUID       `db:"citizen_id" json:"citizen_id"`
	OfficerID     *uuid.UUID      `db:"officer_id" json:"officer_id,omitempty"`
	ContractorID  *uuid.UUID      `db:"contractor_id" json:"contractor_id,omitempty"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	Category      string          `db:"category" json:"category"`
	Region        string          `db:"region" json:"region"`
	Status        ComplaintStatus `db:"status" json:"status"`

	Location  *string  `db:"location" json:"location,omitempty"`
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`
	Pincode   *string  `db:"pincode" json:"pincode,omitempty"`

	ProofImage      *string `db:"proof_image" json:"proof_image,omitempty"`
	CompletionImage *string `db:"completion_image" json:"completion_image,omitempty"`
	OfficerFeedback *string `db:"officer_feedback" json:"officer_feedback,omitempty"`

	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	AssignedAt   *time.Time `db:"assigned_at" json:"assigned_at,omitempty"`
	InProgressAt *time.Time `db:"in_progress_at" json:"in_progress_at,omitempty"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	ClosedAt     *time.Time `db:"closed_at" json:"closed_at,omitempty"`
}

// IsOwnedBy reports whether the complaint belongs to the given citizen profile.
func (c *Complaint) IsOwnedBy(citizenID uuid.UUID) bool {
	return c.CitizenID == citizenID
}

// HasOfficer reports whether an officer has claimed the complaint.
func (c *Complaint) HasOfficer() bool {
	return c.OfficerID != nil
}

// IsAssignedOfficer reports whether the given officer profile is the
// complaint's assigned officer.
func (c *Complaint) IsAssignedOfficer(officerID uuid.UUID) bool {
	return c.OfficerID != nil && *c.OfficerID == officerID
}

// IsAssignedContractor reports whether the given contractor profile is the
// complaint's currently assigned contractor.
func (c *Complaint) IsAssignedContractor(contractorID uuid.UUID) bool {
	return c.ContractorID != nil && *c.ContractorID == contractorID
}

// HasCompletionImage reports whether a completion image is stored.
func (c *Complaint) HasCompletionImage() bool {
	return c.CompletionImage != nil && *c.CompletionImage != ""
}
