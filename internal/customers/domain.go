// Package customers manages utility customer records.
package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a metered water connection account.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Zone        string    `json:"zone"`
	MeterNumber string    `json:"meter_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Connection statuses.
const (
	StatusActive       = "active"
	StatusSuspended    = "suspended"
	StatusDisconnected = "disconnected"
)

// IsValidStatus rejects unknown connection statuses at the boundary.
func IsValidStatus(s string) bool {
	return s == StatusActive || s == StatusSuspended || s == StatusDisconnected
}

// ListFilter narrows customer listings.
type ListFilter struct {
	Zone   string
	Status string
	Page   int
	Limit  int
}
