// Package invoices manages billing and payment recording.
package invoices

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/rbac"
)

// Invoice bills a customer for a billing period.
type Invoice struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"due_date"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Payment records money received against an invoice.
type Payment struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// Invoice statuses.
const (
	StatusUnpaid  = "unpaid"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// IsValidStatus rejects unknown invoice statuses at the boundary.
func IsValidStatus(s string) bool {
	return s == StatusUnpaid || s == StatusPaid || s == StatusOverdue
}

var paymentMethods = []string{"cash", "card", "bank_transfer", "online"}

// IsValidMethod rejects unknown payment methods at the boundary.
func IsValidMethod(m string) bool {
	for _, known := range paymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Stats aggregates billing figures across all invoices.
type Stats struct {
	TotalInvoices int     `json:"total_invoices"`
	TotalBilled   float64 `json:"total_billed"`
	Collected     float64 `json:"collected"`
	Outstanding   float64 `json:"outstanding"`
}

// ListFilter narrows invoice listings.
type ListFilter struct {
	CustomerID *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

func (i *Invoice) target() *rbac.Target {
	return &rbac.Target{CustomerID: &i.CustomerID}
}
