package rbac

// Resource identifies an entity type under access control.
type Resource string

// Resources under access control.
const (
	ResourceUser         Resource = "user"
	ResourceCustomer     Resource = "customer"
	ResourceComplaint    Resource = "complaint"
	ResourceService      Resource = "service"
	ResourceProduct      Resource = "product"
	ResourceInvoice      Resource = "invoice"
	ResourceDistribution Resource = "distribution"
	ResourceNotification Resource = "notification"
)

// Action is an operation on a resource.
type Action string

// Actions on resources.
const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Effect is the outcome recorded in the grant table.
type Effect uint8

// Grant effects. Deny is the zero value, so any combination absent from the
// table fails closed.
const (
	EffectDeny Effect = iota
	EffectAllow
	EffectAllowOwner
)

var allActions = []Action{ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete}

var allResources = []Resource{
	ResourceUser,
	ResourceCustomer,
	ResourceComplaint,
	ResourceService,
	ResourceProduct,
	ResourceInvoice,
	ResourceDistribution,
	ResourceNotification,
}

// AllActions returns every defined action.
func AllActions() []Action {
	out := make([]Action, len(allActions))
	copy(out, allActions)
	return out
}

// AllResources returns every resource under access control.
func AllResources() []Resource {
	out := make([]Resource, len(allResources))
	copy(out, allResources)
	return out
}

func crud() map[Action]Effect {
	return map[Action]Effect{
		ActionList:   EffectAllow,
		ActionRead:   EffectAllow,
		ActionCreate: EffectAllow,
		ActionUpdate: EffectAllow,
		ActionDelete: EffectAllow,
	}
}

func readOnly() map[Action]Effect {
	return map[Action]Effect{
		ActionList: EffectAllow,
		ActionRead: EffectAllow,
	}
}

func ownNotifications() map[Action]Effect {
	return map[Action]Effect{
		ActionList:   EffectAllowOwner,
		ActionRead:   EffectAllowOwner,
		ActionUpdate: EffectAllowOwner,
	}
}

// grants is the single source of truth mapping Role x Resource x Action to
// an effect. Both the server guard and the /api/roles payload consumed by
// the client derive from it. Unlisted combinations deny.
var grants = map[Role]map[Resource]map[Action]Effect{
	RoleAdmin: {
		ResourceUser:         crud(),
		ResourceCustomer:     crud(),
		ResourceComplaint:    crud(),
		ResourceService:      crud(),
		ResourceProduct:      crud(),
		ResourceInvoice:      crud(),
		ResourceDistribution: crud(),
		ResourceNotification: ownNotifications(),
	},
	RoleDeptHead: {
		ResourceUser:     readOnly(),
		ResourceCustomer: readOnly(),
		ResourceComplaint: {
			ActionList:   EffectAllow,
			ActionRead:   EffectAllow,
			ActionUpdate: EffectAllow,
		},
		ResourceService: {
			ActionList:   EffectAllow,
			ActionRead:   EffectAllow,
			ActionUpdate: EffectAllow,
		},
		ResourceProduct:      readOnly(),
		ResourceInvoice:      readOnly(),
		ResourceDistribution: readOnly(),
		ResourceNotification: ownNotifications(),
	},
	RoleServiceManager: {
		ResourceCustomer: readOnly(),
		ResourceComplaint: {
			ActionList:   EffectAllow,
			ActionRead:   EffectAllow,
			ActionCreate: EffectAllow,
			ActionUpdate: EffectAllow,
		},
		ResourceService: {
			ActionList:   EffectAllow,
			ActionRead:   EffectAllow,
			ActionCreate: EffectAllow,
			ActionUpdate: EffectAllow,
		},
		ResourceProduct:      readOnly(),
		ResourceNotification: ownNotifications(),
	},
	RoleAccountsManager: {
		ResourceCustomer: readOnly(),
		ResourceInvoice: {
			ActionList:   EffectAllow,
			ActionRead:   EffectAllow,
			ActionCreate: EffectAllow,
			ActionUpdate: EffectAllow,
		},
		ResourceProduct:      readOnly(),
		ResourceNotification: ownNotifications(),
	},
	RoleProductManager: {
		ResourceProduct:      crud(),
		ResourceNotification: ownNotifications(),
	},
	RoleDriverManager: {
		ResourceProduct:      readOnly(),
		ResourceDistribution: crud(),
		ResourceNotification: ownNotifications(),
	},
	RoleTechnician: {
		ResourceComplaint: {
			ActionList:   EffectAllowOwner,
			ActionRead:   EffectAllowOwner,
			ActionUpdate: EffectAllowOwner,
		},
		ResourceService: {
			ActionList:   EffectAllowOwner,
			ActionRead:   EffectAllowOwner,
			ActionUpdate: EffectAllowOwner,
		},
		ResourceProduct:      readOnly(),
		ResourceNotification: ownNotifications(),
	},
	RoleCustomer: {
		ResourceCustomer: {
			ActionRead: EffectAllowOwner,
		},
		ResourceComplaint: {
			ActionList:   EffectAllowOwner,
			ActionRead:   EffectAllowOwner,
			ActionCreate: EffectAllow,
		},
		ResourceService: {
			ActionList:   EffectAllowOwner,
			ActionRead:   EffectAllowOwner,
			ActionCreate: EffectAllow,
		},
		ResourceInvoice: {
			ActionList: EffectAllowOwner,
			ActionRead: EffectAllowOwner,
		},
		ResourceNotification: ownNotifications(),
	},
}

// GrantFor looks up the effect for a role, resource and action. Absent
// combinations return EffectDeny.
func GrantFor(role Role, res Resource, act Action) Effect {
	byResource, ok := grants[role]
	if !ok {
		return EffectDeny
	}
	byAction, ok := byResource[res]
	if !ok {
		return EffectDeny
	}
	return byAction[act]
}

// GrantsForRole returns the role's grant table keyed by resource then
// action, for the client-side guard payload. The returned maps are copies.
func GrantsForRole(role Role) map[Resource]map[Action]Effect {
	src := grants[role]
	out := make(map[Resource]map[Action]Effect, len(src))
	for res, byAction := range src {
		inner := make(map[Action]Effect, len(byAction))
		for act, eff := range byAction {
			inner[act] = eff
		}
		out[res] = inner
	}
	return out
}

// MarshalText renders the effect for JSON payloads.
func (e Effect) MarshalText() ([]byte, error) {
	switch e {
	case EffectAllow:
		return []byte("allow"), nil
	case EffectAllowOwner:
		return []byte("allow_if_owner"), nil
	default:
		return []byte("deny"), nil
	}
}
