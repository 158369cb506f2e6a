package authz

import (
	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

// Operation names an action gated by the capability matrix.
type Operation string

const (
	OpCreateReport    Operation = "create_report"
	OpReadOwnReports  Operation = "read_own_reports"
	OpReadAllReports  Operation = "read_all_reports"
	OpChangeStatus    Operation = "change_status"
	OpAssign          Operation = "assign"
	OpHideReport      Operation = "hide_report"
	OpChangeRole      Operation = "change_role"
	OpListUsers       Operation = "list_users"
	OpListTechnicians Operation = "list_technicians"
)

// capabilities is the role to permitted-operation matrix. Checked before any
// store mutation; a denied call never reaches the repository layer.
var capabilities = map[domain.Role]map[Operation]struct{}{
	domain.RoleUser: {
		OpCreateReport:   {},
		OpReadOwnReports: {},
	},
	domain.RoleTechnician: {
		OpCreateReport:   {},
		OpReadOwnReports: {},
		OpReadAllReports: {},
		OpChangeStatus:   {},
	},
	domain.RoleAdmin: {
		OpCreateReport:    {},
		OpReadOwnReports:  {},
		OpReadAllReports:  {},
		OpChangeStatus:    {},
		OpAssign:          {},
		OpHideReport:      {},
		OpChangeRole:      {},
		OpListUsers:       {},
		OpListTechnicians: {},
	},
}

// Can reports whether the role is granted the operation.
func Can(role domain.Role, op Operation) bool {
	grants, ok := capabilities[role]
	if !ok {
		return false
	}
	_, granted := grants[op]
	return granted
}

// CanChangeRole additionally blocks an actor from changing their own role,
// admin or not.
func CanChangeRole(actorRole domain.Role, actorID, targetID string) bool {
	if !Can(actorRole, OpChangeRole) {
		return false
	}
	return actorID != targetID
}
