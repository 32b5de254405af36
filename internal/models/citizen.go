package models

import (
	"time"

	"github.com/google/uuid"
)

// Citizen is the reporter profile, one-to-one with a user.
type Citizen struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	Region    string    `db:"region" json:"region"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
