// Package notifications stores per-user messages produced by lifecycle
// events elsewhere in the system.
package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/rbac"
)

// Notification is one message addressed to a single user.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter narrows notification listings.
type ListFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Page       int
	Limit      int
}

func (n *Notification) target() *rbac.Target {
	return &rbac.Target{UserID: &n.UserID}
}
