// Package complaints implements the customer complaint lifecycle:
// open -> assigned -> in_progress -> resolved -> closed.
package complaints

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/rbac"
)

// Complaint is a customer-reported issue tracked with a human-readable
// document number (CMP{YYYY}{MM}{seq}).
type Complaint struct {
	ID          uuid.UUID            `json:"id"`
	Number      string               `json:"complaint_no"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Status      rbac.ComplaintStatus `json:"status"`
	AssignedTo  *uuid.UUID           `json:"assigned_to,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Complaint categories accepted at the boundary.
var categories = []string{"water_quality", "supply_interruption", "billing", "leakage", "meter", "other"}

// IsValidCategory rejects unknown category values instead of persisting
// them.
func IsValidCategory(c string) bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}

// ListFilter narrows complaint listings. Owner fields are forced by the
// service from the principal, never taken from client input.
type ListFilter struct {
	Status     string
	CustomerID *uuid.UUID
	AssignedTo *uuid.UUID
	Page       int
	Limit      int
}

func (c *Complaint) target() *rbac.Target {
	t := &rbac.Target{CustomerID: &c.CustomerID}
	if c.AssignedTo != nil {
		t.AssigneeID = c.AssignedTo
	}
	return t
}
