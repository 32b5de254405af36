package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

const wallOfFameSize = 3

// TimelineStep is one step of the five-step progress timeline.
type TimelineStep struct {
	Label     string     `json:"label"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Reached   bool       `json:"reached"`
}

// TrackingView is the public, unauthenticated projection of a complaint.
// It exposes progress only; reporter and assignee identities stay private.
type TrackingView struct {
	Title       string                 `json:"title"`
	Category    string                 `json:"category"`
	Region      string                 `json:"region"`
	Status      models.ComplaintStatus `json:"status"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Timeline    []TimelineStep         `json:"timeline"`
}

// ResolvedHighlight is one entry of the home page's recently resolved list.
type ResolvedHighlight struct {
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Region   string     `json:"region"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

// HomeStats feeds the public landing page.
type HomeStats struct {
	TotalFixed       int                 `json:"total_fixed"`
	RecentlyResolved []ResolvedHighlight `json:"recently_resolved"`
	SampleTokens     []uuid.UUID         `json:"sample_tokens"`
}

// TrackingService serves the unauthenticated tracking and stats surface.
// The tracking token works as a capability: whoever holds it may view the
// complaint's progress.
type TrackingService struct {
	complaints ComplaintStore
}

// NewTrackingService creates the tracking service.
func NewTrackingService(complaints ComplaintStore) *TrackingService {
	return &TrackingService{complaints: complaints}
}

// TrackByToken resolves a tracking token to the progress timeline. A
// malformed token reads as not found, so probing reveals nothing about
// which tokens exist.
func (s *TrackingService) TrackByToken(ctx context.Context, token string) (*TrackingView, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, apperror.ErrComplaintNotFound
	}

	complaint, err := s.complaints.GetByTrackingToken(ctx, parsed)
	if err != nil {
		return nil, err
	}

	return &TrackingView{
		Title:       complaint.Title,
		Category:    complaint.Category,
		Region:      complaint.Region,
		Status:      complaint.Status,
		SubmittedAt: complaint.CreatedAt,
		Timeline:    Timeline(complaint),
	}, nil
}

// HomeStats returns the landing page numbers: how many complaints were
// fixed, the most recent closures, and a few tokens for the tracking demo.
func (s *TrackingService) HomeStats(ctx context.Context) (*HomeStats, error) {
	total, err := s.complaints.CountResolved(ctx)
	if err != nil {
		return nil, err
	}

	closed, err := s.complaints.ListRecentlyClosed(ctx, wallOfFameSize)
	if err != nil {
		return nil, err
	}

	stats := &HomeStats{
		TotalFixed:       total,
		RecentlyResolved: make([]ResolvedHighlight, 0, len(closed)),
		SampleTokens:     make([]uuid.UUID, 0, len(closed)),
	}
	for _, c := range closed {
		stats.RecentlyResolved = append(stats.RecentlyResolved, ResolvedHighlight{
			Title:    c.Title,
			Category: c.Category,
			Region:   c.Region,
			ClosedAt: c.ClosedAt,
		})
		stats.SampleTokens = append(stats.SampleTokens, c.TrackingToken)
	}
	return stats, nil
}

// Timeline projects a complaint onto the ordered five-step progress view.
// A step is reached when its timestamp is set; rejecting completed work
// clears the completion timestamp, so the timeline moves backwards with
// the complaint.
func Timeline(c *models.Complaint) []TimelineStep {
	submitted := c.CreatedAt
	return []TimelineStep{
		{Label: "Submitted", Timestamp: &submitted, Reached: true},
		{Label: "Assigned", Timestamp: c.AssignedAt, Reached: c.AssignedAt != nil},
		{Label: "In Progress", Timestamp: c.InProgressAt, Reached: c.InProgressAt != nil},
		{Label: "Completed", Timestamp: c.CompletedAt, Reached: c.CompletedAt != nil},
		{Label: "Closed", Timestamp: c.ClosedAt, Reached: c.ClosedAt != nil},
	}
}
