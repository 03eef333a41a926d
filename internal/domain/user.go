package domain

import (
	"time"

	"github.com/google/uuid"
)

// User owns every belief session, log and calibration record.
type User struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
