package rbac

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquacore/aquacore/internal/platform/httpx"
)

func activePrincipal(role Role) *Principal {
	return &Principal{ID: uuid.New(), Email: "user@example.com", Role: role, Active: true}
}

func TestAuthorizeNilPrincipal(t *testing.T) {
	d := Authorize(nil, ResourceComplaint, ActionList, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
	assert.True(t, errors.Is(d.Err(), httpx.ErrUnauthenticated))
}

func TestAuthorizeInactivePrincipal(t *testing.T) {
	p := activePrincipal(RoleAdmin)
	p.Active = false
	d := Authorize(p, ResourceComplaint, ActionList, nil)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestAuthorizePlainAllow(t *testing.T) {
	d := Authorize(activePrincipal(RoleAdmin), ResourceUser, ActionDelete, nil)
	assert.True(t, d.Allowed)
	require.NoError(t, d.Err())
}

func TestAuthorizeDeny(t *testing.T) {
	d := Authorize(activePrincipal(RoleTechnician), ResourceInvoice, ActionList, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonForbidden, d.Reason)
	assert.True(t, errors.Is(d.Err(), httpx.ErrForbidden))
}

func TestAuthorizeOwnerGrantWithoutTarget(t *testing.T) {
	// Listing endpoints pass a nil target; the caller must then force the
	// owner filter into the query.
	d := Authorize(activePrincipal(RoleCustomer), ResourceComplaint, ActionList, nil)
	assert.True(t, d.Allowed)
}

func TestAuthorizeCustomerOwnership(t *testing.T) {
	customerID := uuid.New()
	p := activePrincipal(RoleCustomer)
	p.CustomerID = &customerID

	own := &Target{CustomerID: &customerID}
	d := Authorize(p, ResourceComplaint, ActionRead, own)
	assert.True(t, d.Allowed)

	otherID := uuid.New()
	foreign := &Target{CustomerID: &otherID}
	d = Authorize(p, ResourceComplaint, ActionRead, foreign)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)
	assert.True(t, errors.Is(d.Err(), httpx.ErrNotOwner))
}

func TestAuthorizeTechnicianOwnership(t *testing.T) {
	p := activePrincipal(RoleTechnician)

	assigned := &Target{AssigneeID: &p.ID}
	d := Authorize(p, ResourceComplaint, ActionUpdate, assigned)
	assert.True(t, d.Allowed)

	otherID := uuid.New()
	elsewhere := &Target{AssigneeID: &otherID}
	d = Authorize(p, ResourceComplaint, ActionUpdate, elsewhere)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	unassigned := &Target{}
	d = Authorize(p, ResourceComplaint, ActionUpdate, unassigned)
	assert.Equal(t, ReasonNotOwner, d.Reason)
}

func TestAuthorizeUserIDOwnership(t *testing.T) {
	p := activePrincipal(RoleDriverManager)

	d := Authorize(p, ResourceNotification, ActionRead, &Target{UserID: &p.ID})
	assert.True(t, d.Allowed)

	otherID := uuid.New()
	d = Authorize(p, ResourceNotification, ActionRead, &Target{UserID: &otherID})
	assert.Equal(t, ReasonNotOwner, d.Reason)
}

func TestAuthorizeComplaintStatusTransition(t *testing.T) {
	technician := activePrincipal(RoleTechnician)
	target := &Target{AssigneeID: &technician.ID}

	d := AuthorizeComplaintStatus(technician, target, ComplaintInProgress)
	assert.True(t, d.Allowed)

	d = AuthorizeComplaintStatus(technician, target, ComplaintClosed)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInvalidTransition, d.Reason)
	assert.True(t, errors.Is(d.Err(), httpx.ErrInvalidTransition))
}

func TestAuthorizeServiceStatusTransition(t *testing.T) {
	manager := activePrincipal(RoleServiceManager)
	d := AuthorizeServiceStatus(manager, &Target{}, ServiceCancelled)
	assert.True(t, d.Allowed)

	technician := activePrincipal(RoleTechnician)
	target := &Target{AssigneeID: &technician.ID}
	d = AuthorizeServiceStatus(technician, target, ServiceCancelled)
	assert.Equal(t, ReasonInvalidTransition, d.Reason)

	d = AuthorizeServiceStatus(technician, target, ServiceCompleted)
	assert.True(t, d.Allowed)
}

func TestAuthorizeStatusDeniedBeforeTransitionCheck(t *testing.T) {
	// A role without the update grant gets forbidden, not
	// invalid-transition, even for a status it could never set.
	customer := activePrincipal(RoleCustomer)
	d := AuthorizeComplaintStatus(customer, &Target{}, ComplaintResolved)
	assert.Equal(t, ReasonForbidden, d.Reason)
}
