package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// OfficerRepository is responsible for officer profiles.
type OfficerRepository struct {
	db *sqlx.DB
}

// NewOfficerRepository creates a new instance.
func NewOfficerRepository(db *sqlx.DB) *OfficerRepository {
	return &OfficerRepository{db: db}
}

const officerColumns = `id, user_id, name, email, phone, region, created_at`

// Create inserts a new officer profile.
func (r *OfficerRepository) Create(ctx context.Context, o *models.Officer) error {
	query := `
		INSERT INTO officers (id, user_id, name, email, phone, region, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.UserID, o.Name, o.Email, o.Phone, o.Region, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("officer repository: create %w", err)
	}
	return nil
}

// GetByID returns an officer profile by identifier.
func (r *OfficerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Officer, error) {
	var o models.Officer
	query := `SELECT ` + officerColumns + ` FROM officers WHERE id = $1`
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrOfficerNotFound
		}
		return nil, fmt.Errorf("officer repository: get by id %w", err)
	}
	return &o, nil
}

// GetByUserID returns the officer profile attached to a login identity.
func (r *OfficerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Officer, error) {
	var o models.Officer
	query := `SELECT ` + officerColumns + ` FROM officers WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &o, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrOfficerNotFound
		}
		return nil, fmt.Errorf("officer repository: get by user id %w", err)
	}
	return &o, nil
}
