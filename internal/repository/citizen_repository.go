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

// CitizenRepository is responsible for citizen profiles.
type CitizenRepository struct {
	db *sqlx.DB
}

// NewCitizenRepository creates a new instance.
func NewCitizenRepository(db *sqlx.DB) *CitizenRepository {
	return &CitizenRepository{db: db}
}

const citizenColumns = `id, user_id, name, phone, address, region, created_at`

// Create inserts a new citizen profile.
func (r *CitizenRepository) Create(ctx context.Context, c *models.Citizen) error {
	query := `
		INSERT INTO citizens (id, user_id, name, phone, address, region, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Phone, c.Address, c.Region, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("citizen repository: create %w", err)
	}
	return nil
}

// GetByID returns a citizen profile by identifier.
func (r *CitizenRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Citizen, error) {
	var c models.Citizen
	query := `SELECT ` + citizenColumns + ` FROM citizens WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrCitizenNotFound
		}
		return nil, fmt.Errorf("citizen repository: get by id %w", err)
	}
	return &c, nil
}

// GetByUserID returns the citizen profile attached to a login identity.
func (r *CitizenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Citizen, error) {
	var c models.Citizen
	query := `SELECT ` + citizenColumns + ` FROM citizens WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &c, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrCitizenNotFound
		}
		return nil, fmt.Errorf("citizen repository: get by user id %w", err)
	}
	return &c, nil
}
