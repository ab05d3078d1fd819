// Package distributions manages tanker fleet delivery trips.
package distributions

import (
	"time"

	"github.com/google/uuid"
)

// Distribution is one scheduled tanker trip into a supply zone.
type Distribution struct {
	ID            uuid.UUID `json:"id"`
	DriverName    string    `json:"driver_name"`
	VehicleNumber string    `json:"vehicle_number"`
	Zone          string    `json:"zone"`
	ScheduledDate time.Time `json:"scheduled_date"`
	VolumeLitres  int       `json:"volume_litres"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Trip statuses.
const (
	StatusScheduled  = "scheduled"
	StatusDispatched = "dispatched"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// IsValidStatus rejects unknown trip statuses at the boundary.
func IsValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusDispatched, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a trip may move from one status to
// another. Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusScheduled:
		return to == StatusDispatched || to == StatusCancelled
	case StatusDispatched:
		return to == StatusDelivered || to == StatusCancelled
	}
	return false
}

// ListFilter narrows trip listings.
type ListFilter struct {
	Zone   string
	Status string
	Page   int
	Limit  int
}
