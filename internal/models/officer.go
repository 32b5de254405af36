package models

import (
	"time"

	"github.com/google/uuid"
)

// Officer is a municipal officer profile, one-to-one with a user. An
// officer's authority is scoped to complaints in their home region.
type Officer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Region    string    `db:"region" json:"region"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
