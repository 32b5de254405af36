package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// ContractorRepository is responsible for contractor profiles and the
// approval workflow state they carry.
type ContractorRepository struct {
	db *sqlx.DB
}

// NewContractorRepository creates a new instance.
func NewContractorRepository(db *sqlx.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

const contractorColumns = `
	id, user_id, name, email, phone, company_name, license_number,
	specialization, region, status, approved_by_id, approved_at,
	rejection_reason, created_at`

// Create inserts a new contractor profile.
func (r *ContractorRepository) Create(ctx context.Context, c *models.Contractor) error {
	query := `
		INSERT INTO contractors (
			id, user_id, name, email, phone, company_name, license_number,
			specialization, region, status, approved_by_id, approved_at,
			rejection_reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.CompanyName, c.LicenseNumber,
		c.Specialization, c.Region, c.Status, c.ApprovedByID, c.ApprovedAt,
		c.RejectionReason, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("contractor repository: create %w", err)
	}
	return nil
}

// GetByID returns a contractor profile by identifier.
func (r *ContractorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	var c models.Contractor
	query := `SELECT` + contractorColumns + ` FROM contractors WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrContractorNotFound
		}
		return nil, fmt.Errorf("contractor repository: get by id %w", err)
	}
	return &c, nil
}

// GetByUserID returns the contractor profile attached to a login identity.
func (r *ContractorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Contractor, error) {
	var c models.Contractor
	query := `SELECT` + contractorColumns + ` FROM contractors WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &c, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrContractorNotFound
		}
		return nil, fmt.Errorf("contractor repository: get by user id %w", err)
	}
	return &c, nil
}

// ListEligible returns approved contractors matching the complaint's region
// and category, ordered by name for determinism. The same query backs both
// the officer's assignment choices and the server-side validation of an
// assignment attempt.
func (r *ContractorRepository) ListEligible(ctx context.Context, region, category string) ([]models.Contractor, error) {
	contractors := []models.Contractor{}
	query := `
		SELECT` + contractorColumns + `
		FROM contractors
		WHERE status = $1 AND region = $2 AND specialization = $3
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &contractors, query, models.ApprovalApproved, region, category); err != nil {
		return nil, fmt.Errorf("contractor repository: list eligible %w", err)
	}
	return contractors, nil
}

// ListPending returns contractors awaiting approval, oldest first.
func (r *ContractorRepository) ListPending(ctx context.Context) ([]models.Contractor, error) {
	contractors := []models.Contractor{}
	query := `SELECT` + contractorColumns + ` FROM contractors WHERE status = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &contractors, query, models.ApprovalPending); err != nil {
		return nil, fmt.Errorf("contractor repository: list pending %w", err)
	}
	return contractors, nil
}

// Approve moves a pending contractor to approved, recording the approving
// officer and the approval time. The WHERE guard on status makes concurrent
// approve/reject attempts lose cleanly.
func (r *ContractorRepository) Approve(ctx context.Context, id, officerID uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contractors
		SET status = $2, approved_by_id = $3, approved_at = $4, rejection_reason = NULL
		WHERE id = $1 AND status = $5
	`, id, models.ApprovalApproved, officerID, at, models.ApprovalPending)
	if err != nil {
		return fmt.Errorf("contractor repository: approve %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contractor repository: approve rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "contractor is not awaiting approval")
	}
	return nil
}

// Reject moves a pending contractor to rejected with the stored reason.
func (r *ContractorRepository) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contractors
		SET status = $2, rejection_reason = $3
		WHERE id = $1 AND status = $4
	`, id, models.ApprovalRejected, reason, models.ApprovalPending)
	if err != nil {
		return fmt.Errorf("contractor repository: reject %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contractor repository: reject rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "contractor is not awaiting approval")
	}
	return nil
}
