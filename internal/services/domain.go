// Package services implements customer service requests (new connections,
// repairs, disconnections): pending -> assigned -> in_progress -> completed.
package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/rbac"
)

// ServiceRequest is a customer-initiated work order tracked with a
// human-readable document number (SRV{YYYY}{MM}{seq}).
type ServiceRequest struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"service_no"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	Type          string             `json:"type"`
	Description   string             `json:"description"`
	Status        rbac.ServiceStatus `json:"status"`
	AssignedTo    *uuid.UUID         `json:"assigned_to,omitempty"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

var requestTypes = []string{"new_connection", "repair", "disconnection", "meter_replacement", "inspection", "other"}

// IsValidType rejects unknown request types at the boundary.
func IsValidType(t string) bool {
	for _, known := range requestTypes {
		if known == t {
			return true
		}
	}
	return false
}

// ListFilter narrows service request listings. Owner fields are forced by
// the service from the principal, never taken from client input.
type ListFilter struct {
	Status     string
	CustomerID *uuid.UUID
	AssignedTo *uuid.UUID
	Page       int
	Limit      int
}

func (sr *ServiceRequest) target() *rbac.Target {
	t := &rbac.Target{CustomerID: &sr.CustomerID}
	if sr.AssignedTo != nil {
		t.AssigneeID = sr.AssignedTo
	}
	return t
}
