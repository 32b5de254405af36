package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// ComplaintRepository is responsible for complaint persistence.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository creates a new instance.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	id, tracking_token, citizen_id, officer_id, contractor_id,
	title, description, category, region, status,
	location, latitude, longitude, pincode,
	proof_image, completion_image, officer_feedback,
	created_at, updated_at, assigned_at, in_progress_at, completed_at, closed_at`

// Create inserts a new complaint.
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	query := `
		INSERT INTO complaints (
			id, tracking_token, citizen_id, officer_id, contractor_id,
			title, description, category, region, status,
			location, latitude, longitude, pincode,
			proof_image, completion_image, officer_feedback,
			created_at, updated_at, assigned_at, in_progress_at, completed_at, closed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.TrackingToken, c.CitizenID, c.OfficerID, c.ContractorID,
		c.Title, c.Description, c.Category, c.Region, c.Status,
		c.Location, c.Latitude, c.Longitude, c.Pincode,
		c.ProofImage, c.CompletionImage, c.OfficerFeedback,
		c.CreatedAt, c.UpdatedAt, c.AssignedAt, c.InProgressAt, c.CompletedAt, c.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("complaint repository: create %w", err)
	}
	return nil
}

// GetByID returns a complaint by its identifier.
func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var c models.Complaint
	query := `SELECT` + complaintColumns + ` FROM complaints WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("complaint repository: get by id %w", err)
	}
	return &c, nil
}

// GetByTrackingToken returns a complaint by its public tracking token.
func (r *ComplaintRepository) GetByTrackingToken(ctx context.Context, token uuid.UUID) (*models.Complaint, error) {
	var c models.Complaint
	query := `SELECT` + complaintColumns + ` FROM complaints WHERE tracking_token = $1`
	if err := r.db.GetContext(ctx, &c, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("complaint repository: get by token %w", err)
	}
	return &c, nil
}

// UpdateLocked runs fn on the complaint row while holding its exclusive row
// lock, then persists the result. The read-validate-mutate-persist sequence
// runs inside one transaction with SELECT ... FOR UPDATE, so two concurrent
// actors on the same complaint are serialized; unrelated complaints are not.
// When fn returns an error the transaction is rolled back and nothing is
// persisted.
func (r *ComplaintRepository) UpdateLocked(ctx context.Context, id uuid.UUID, fn func(c *models.Complaint) error) (*models.Complaint, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("complaint repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var c models.Complaint
	query := `SELECT` + complaintColumns + ` FROM complaints WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("complaint repository: lock %w", err)
	}

	if err := fn(&c); err != nil {
		return nil, err
	}

	update := `
		UPDATE complaints SET
			officer_id = $2,
			contractor_id = $3,
			status = $4,
			completion_image = $5,
			officer_feedback = $6,
			updated_at = $7,
			assigned_at = $8,
			in_progress_at = $9,
			completed_at = $10,
			closed_at = $11
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update,
		c.ID, c.OfficerID, c.ContractorID, c.Status,
		c.CompletionImage, c.OfficerFeedback,
		c.UpdatedAt, c.AssignedAt, c.InProgressAt, c.CompletedAt, c.ClosedAt,
	); err != nil {
		return nil, fmt.Errorf("complaint repository: update %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("complaint repository: commit %w", err)
	}

	return &c, nil
}

// ComplaintFilter describes the predicates of a complaint listing.
type ComplaintFilter struct {
	Statuses     []models.ComplaintStatus
	Region       string
	CitizenID    *uuid.UUID
	OfficerID    *uuid.UUID
	ContractorID *uuid.UUID
	Unassigned   bool
	OrderBy      string // "created_at DESC" by default
	Limit        int
	Offset       int
}

func (f ComplaintFilter) build() (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if len(f.Statuses) > 0 {
		placeholders := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			args = append(args, s)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if f.Region != "" {
		add("region = $%d", f.Region)
	}
	if f.CitizenID != nil {
		add("citizen_id = $%d", *f.CitizenID)
	}
	if f.OfficerID != nil {
		add("officer_id = $%d", *f.OfficerID)
	}
	if f.ContractorID != nil {
		add("contractor_id = $%d", *f.ContractorID)
	}
	if f.Unassigned {
		conds = append(conds, "officer_id IS NULL")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	return where, args
}

// List returns complaints matching the filter.
func (r *ComplaintRepository) List(ctx context.Context, f ComplaintFilter) ([]models.Complaint, error) {
	where, args := f.build()

	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}

	query := `SELECT` + complaintColumns + ` FROM complaints` + where + ` ORDER BY ` + orderBy
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	complaints := []models.Complaint{}
	if err := r.db.SelectContext(ctx, &complaints, query, args...); err != nil {
		return nil, fmt.Errorf("complaint repository: list %w", err)
	}
	return complaints, nil
}

// Count returns the number of complaints matching the filter.
func (r *ComplaintRepository) Count(ctx context.Context, f ComplaintFilter) (int, error) {
	where, args := f.build()

	var count int
	query := `SELECT COUNT(*) FROM complaints` + where
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("complaint repository: count %w", err)
	}
	return count, nil
}

// CountResolved returns how many complaints reached completed or closed.
func (r *ComplaintRepository) CountResolved(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM complaints WHERE status IN ($1, $2)`
	if err := r.db.GetContext(ctx, &count, query, models.StatusCompleted, models.StatusClosed); err != nil {
		return 0, fmt.Errorf("complaint repository: count resolved %w", err)
	}
	return count, nil
}

// ListRecentlyClosed returns the most recently closed complaints.
func (r *ComplaintRepository) ListRecentlyClosed(ctx context.Context, limit int) ([]models.Complaint, error) {
	return r.List(ctx, ComplaintFilter{
		Statuses: []models.ComplaintStatus{models.StatusClosed},
		OrderBy:  "updated_at DESC",
		Limit:    limit,
	})
}
