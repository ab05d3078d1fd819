package rbac

// ComplaintStatus is a lifecycle state of a complaint.
type ComplaintStatus string

// Complaint lifecycle: open -> assigned -> in_progress -> resolved -> closed.
const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintAssigned   ComplaintStatus = "assigned"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

// ServiceStatus is a lifecycle state of a service request.
type ServiceStatus string

// Service request lifecycle: pending -> assigned -> in_progress -> completed.
const (
	ServicePending    ServiceStatus = "pending"
	ServiceAssigned   ServiceStatus = "assigned"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceCancelled  ServiceStatus = "cancelled"
)

var complaintStatuses = []ComplaintStatus{
	ComplaintOpen,
	ComplaintAssigned,
	ComplaintInProgress,
	ComplaintResolved,
	ComplaintClosed,
}

var serviceStatuses = []ServiceStatus{
	ServicePending,
	ServiceAssigned,
	ServiceInProgress,
	ServiceCompleted,
	ServiceCancelled,
}

// ComplaintStatuses returns every complaint lifecycle state.
func ComplaintStatuses() []ComplaintStatus {
	out := make([]ComplaintStatus, len(complaintStatuses))
	copy(out, complaintStatuses)
	return out
}

// ServiceStatuses returns every service request lifecycle state.
func ServiceStatuses() []ServiceStatus {
	out := make([]ServiceStatus, len(serviceStatuses))
	copy(out, serviceStatuses)
	return out
}

// IsValidComplaintStatus reports whether the value names a known state.
func IsValidComplaintStatus(s string) bool {
	for _, st := range complaintStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// IsValidServiceStatus reports whether the value names a known state.
func IsValidServiceStatus(s string) bool {
	for _, st := range serviceStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

func allComplaintStatuses() map[ComplaintStatus]bool {
	return map[ComplaintStatus]bool{
		ComplaintOpen:       true,
		ComplaintAssigned:   true,
		ComplaintInProgress: true,
		ComplaintResolved:   true,
		ComplaintClosed:     true,
	}
}

func noComplaintStatuses() map[ComplaintStatus]bool {
	return map[ComplaintStatus]bool{
		ComplaintOpen:       false,
		ComplaintAssigned:   false,
		ComplaintInProgress: false,
		ComplaintResolved:   false,
		ComplaintClosed:     false,
	}
}

func allServiceStatuses() map[ServiceStatus]bool {
	return map[ServiceStatus]bool{
		ServicePending:    true,
		ServiceAssigned:   true,
		ServiceInProgress: true,
		ServiceCompleted:  true,
		ServiceCancelled:  true,
	}
}

func noServiceStatuses() map[ServiceStatus]bool {
	return map[ServiceStatus]bool{
		ServicePending:    false,
		ServiceAssigned:   false,
		ServiceInProgress: false,
		ServiceCompleted:  false,
		ServiceCancelled:  false,
	}
}

// complaintStatusWrites defines, for every role and every complaint status,
// whether the role may write that status. The table is total: no
// combination falls through to an implicit allow.
var complaintStatusWrites = map[Role]map[ComplaintStatus]bool{
	RoleAdmin:           allComplaintStatuses(),
	RoleDeptHead:        allComplaintStatuses(),
	RoleServiceManager:  allComplaintStatuses(),
	RoleAccountsManager: noComplaintStatuses(),
	RoleProductManager:  noComplaintStatuses(),
	RoleDriverManager:   noComplaintStatuses(),
	RoleTechnician: {
		ComplaintOpen:       false,
		ComplaintAssigned:   false,
		ComplaintInProgress: true,
		ComplaintResolved:   true,
		ComplaintClosed:     false,
	},
	RoleCustomer: noComplaintStatuses(),
}

// serviceStatusWrites is the service-request counterpart of
// complaintStatusWrites, equally total.
var serviceStatusWrites = map[Role]map[ServiceStatus]bool{
	RoleAdmin:           allServiceStatuses(),
	RoleDeptHead:        allServiceStatuses(),
	RoleServiceManager:  allServiceStatuses(),
	RoleAccountsManager: noServiceStatuses(),
	RoleProductManager:  noServiceStatuses(),
	RoleDriverManager:   noServiceStatuses(),
	RoleTechnician: {
		ServicePending:    false,
		ServiceAssigned:   true,
		ServiceInProgress: true,
		ServiceCompleted:  true,
		ServiceCancelled:  false,
	},
	RoleCustomer: noServiceStatuses(),
}

// CanSetComplaintStatus reports whether the role may write the given
// complaint status. Roles absent from the table deny.
func CanSetComplaintStatus(role Role, status ComplaintStatus) bool {
	byStatus, ok := complaintStatusWrites[role]
	if !ok {
		return false
	}
	return byStatus[status]
}

// CanSetServiceStatus reports whether the role may write the given service
// request status. Roles absent from the table deny.
func CanSetServiceStatus(role Role, status ServiceStatus) bool {
	byStatus, ok := serviceStatusWrites[role]
	if !ok {
		return false
	}
	return byStatus[status]
}
