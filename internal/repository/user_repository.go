package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// UserRepository is responsible for login identities.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, role, is_active, last_login_at, created_at, updated_at`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperror.New(apperror.ErrCodeConflict, "email or username already registered")
		}
		return fmt.Errorf("user repository: create %w", err)
	}
	return nil
}

// GetByID returns a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return &u, nil
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}
	return &u, nil
}

// UpdateLastLoginAt records the login time.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}
	return nil
}
