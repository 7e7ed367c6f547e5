package auth

import "zoo/pkg/model"

const (
	AnimalsView   = "animals:view"
	AnimalsCreate = "animals:create"
	AnimalsUpdate = "animals:update"
	AnimalsDelete = "animals:delete"

	MedicalView   = "medical:view"
	MedicalCreate = "medical:create"
	MedicalUpdate = "medical:update"

	VisitorsView   = "visitors:view"
	VisitorsCreate = "visitors:create"
	VisitorsUpdate = "visitors:update"
	VisitorsDelete = "visitors:delete"

	TicketsView   = "tickets:view"
	TicketsCreate = "tickets:create"
	TicketsUpdate = "tickets:update"
	TicketsDelete = "tickets:delete"

	WorkOrdersView   = "workorders:view"
	WorkOrdersCreate = "workorders:create"
	WorkOrdersUpdate = "workorders:update"
	WorkOrdersAssign = "workorders:assign"

	StaffView   = "staff:view"
	StaffCreate = "staff:create"
	StaffUpdate = "staff:update"
	StaffDelete = "staff:delete"

	ReportsView     = "reports:view"
	ReportsGenerate = "reports:generate"

	SettingsView   = "settings:view"
	SettingsUpdate = "settings:update"
)

var allPermissions = []string{
	AnimalsView, AnimalsCreate, AnimalsUpdate, AnimalsDelete,
	MedicalView, MedicalCreate, MedicalUpdate,
	VisitorsView, VisitorsCreate, VisitorsUpdate, VisitorsDelete,
	TicketsView, TicketsCreate, TicketsUpdate, TicketsDelete,
	WorkOrdersView, WorkOrdersCreate, WorkOrdersUpdate, WorkOrdersAssign,
	StaffView, StaffCreate, StaffUpdate, StaffDelete,
	ReportsView, ReportsGenerate,
	SettingsView, SettingsUpdate,
}

var knownPermissions = func() map[string]struct{} {
	m := make(map[string]struct{}, len(allPermissions))
	for _, p := range allPermissions {
		m[p] = struct{}{}
	}
	return m
}()

var rolePermissions = map[string][]string{
	model.RoleAdmin: allPermissions,
	model.RoleVeterinarian: {
		AnimalsView, AnimalsUpdate,
		MedicalView, MedicalCreate, MedicalUpdate,
		WorkOrdersView, WorkOrdersCreate, WorkOrdersUpdate,
		ReportsView,
	},
	model.RoleCaretaker: {
		AnimalsView, AnimalsUpdate,
		WorkOrdersView, WorkOrdersCreate, WorkOrdersUpdate,
		VisitorsView,
	},
	model.RoleReceptionist: {
		VisitorsView, VisitorsCreate, VisitorsUpdate,
		TicketsView, TicketsCreate, TicketsUpdate,
		AnimalsView,
	},
	model.RoleVolunteer: {
		AnimalsView, VisitorsView, TicketsView,
	},
}

func AllPermissions() []string {
	return append([]string(nil), allPermissions...)
}

// DefaultPermissions returns a copy of the permissions a role gets when none
// are set explicitly. Unknown roles get none.
func DefaultPermissions(role string) []string {
	return append([]string{}, rolePermissions[role]...)
}

func IsKnownPermission(p string) bool {
	_, ok := knownPermissions[p]
	return ok
}

// Allowed reports whether claims satisfy the route policy. Admin passes every
// check. When roles is non-empty the caller's role must be listed; every
// permission in perms must be granted.
func Allowed(claims *AccessClaims, roles []string, perms []string) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.RoleAdmin {
		return true
	}
	if len(roles) > 0 && !contains(roles, claims.Role) {
		return false
	}
	for _, p := range perms {
		if !contains(claims.Permissions, p) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
