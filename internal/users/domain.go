// Package users manages the profiles behind authenticated principals.
package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/rbac"
)

// User is an account profile linked to an identity-provider subject.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Subject    string     `json:"subject"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       rbac.Role  `json:"role"`
	Active     bool       `json:"active"`
	CustomerID *uuid.UUID `json:"customer_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ListFilter narrows user listings.
type ListFilter struct {
	Role   string
	Active *bool
	Page   int
	Limit  int
}
