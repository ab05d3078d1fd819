package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantForClosedWorld(t *testing.T) {
	// Every role x resource x action combination must resolve to a defined
	// effect; anything the table does not name denies.
	for _, role := range Roles() {
		for _, res := range AllResources() {
			for _, act := range AllActions() {
				eff := GrantFor(role, res, act)
				assert.Contains(t, []Effect{EffectAllow, EffectAllowOwner, EffectDeny}, eff,
					"role=%s res=%s act=%s", role, res, act)
			}
		}
	}
}

func TestGrantForUnknownRoleDenies(t *testing.T) {
	for _, res := range AllResources() {
		for _, act := range AllActions() {
			assert.Equal(t, EffectDeny, GrantFor(Role("intruder"), res, act))
		}
	}
}

func TestAdminHasFullCRUDOnEntities(t *testing.T) {
	for _, res := range []Resource{ResourceUser, ResourceCustomer, ResourceComplaint,
		ResourceService, ResourceProduct, ResourceInvoice, ResourceDistribution} {
		for _, act := range AllActions() {
			assert.Equal(t, EffectAllow, GrantFor(RoleAdmin, res, act),
				"admin should hold %s on %s", act, res)
		}
	}
}

func TestCustomerGrants(t *testing.T) {
	assert.Equal(t, EffectAllow, GrantFor(RoleCustomer, ResourceComplaint, ActionCreate))
	assert.Equal(t, EffectAllowOwner, GrantFor(RoleCustomer, ResourceComplaint, ActionList))
	assert.Equal(t, EffectAllowOwner, GrantFor(RoleCustomer, ResourceInvoice, ActionRead))
	assert.Equal(t, EffectAllowOwner, GrantFor(RoleCustomer, ResourceCustomer, ActionRead))
	assert.Equal(t, EffectDeny, GrantFor(RoleCustomer, ResourceComplaint, ActionDelete))
	assert.Equal(t, EffectDeny, GrantFor(RoleCustomer, ResourceProduct, ActionList))
	assert.Equal(t, EffectDeny, GrantFor(RoleCustomer, ResourceUser, ActionList))
}

func TestTechnicianGrants(t *testing.T) {
	assert.Equal(t, EffectAllowOwner, GrantFor(RoleTechnician, ResourceComplaint, ActionList))
	assert.Equal(t, EffectAllowOwner, GrantFor(RoleTechnician, ResourceService, ActionUpdate))
	assert.Equal(t, EffectDeny, GrantFor(RoleTechnician, ResourceComplaint, ActionCreate))
	assert.Equal(t, EffectDeny, GrantFor(RoleTechnician, ResourceInvoice, ActionList))
}

func TestEveryRoleOwnsNotifications(t *testing.T) {
	for _, role := range Roles() {
		assert.Equal(t, EffectAllowOwner, GrantFor(role, ResourceNotification, ActionList), "role=%s", role)
		assert.Equal(t, EffectAllowOwner, GrantFor(role, ResourceNotification, ActionRead), "role=%s", role)
		assert.Equal(t, EffectAllowOwner, GrantFor(role, ResourceNotification, ActionUpdate), "role=%s", role)
		assert.Equal(t, EffectDeny, GrantFor(role, ResourceNotification, ActionDelete), "role=%s", role)
	}
}

func TestGrantsForRoleReturnsCopy(t *testing.T) {
	grantsCopy := GrantsForRole(RoleCustomer)
	require.NotNil(t, grantsCopy)
	grantsCopy[ResourceUser] = map[Action]Effect{ActionDelete: EffectAllow}

	assert.Equal(t, EffectDeny, GrantFor(RoleCustomer, ResourceUser, ActionDelete))
}

func TestRolesStableOrder(t *testing.T) {
	first := Roles()
	second := Roles()
	require.Equal(t, first, second)
	assert.Len(t, first, 8)
	assert.Equal(t, RoleAdmin, first[0])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Dept Head", RoleDeptHead.DisplayName())
	assert.Equal(t, "Service Manager", RoleServiceManager.DisplayName())
}
