// Package rbac holds the closed role and permission enumerations, the static
// role-to-permission matrix, and the access-control gate that decides whether
// a request may be served.
package rbac

// Role is the closed set of platform roles, fixed at deploy time.
type Role string

const (
	RolePlatformAdmin     Role = "platform_admin"
	RoleHR                Role = "hr"
	RoleManager           Role = "manager"
	RoleEmployee          Role = "employee"
	RoleTalentAcquisition Role = "talent_acquisition"
)

// Roles returns every known role.
func Roles() []Role {
	return []Role{
		RolePlatformAdmin,
		RoleHR,
		RoleManager,
		RoleEmployee,
		RoleTalentAcquisition,
	}
}

// ParseRole maps a raw string onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePlatformAdmin, RoleHR, RoleManager, RoleEmployee, RoleTalentAcquisition:
		return Role(s), true
	}
	return "", false
}

// Permission is the closed set of fine-grained capabilities.
type Permission string

const (
	PermViewDashboard        Permission = "view_dashboard"
	PermManageEmployees      Permission = "manage_employees"
	PermViewEmployees        Permission = "view_employees"
	PermApplyLeave           Permission = "apply_leave"
	PermApproveLeave         Permission = "approve_leave"
	PermManagePayroll        Permission = "manage_payroll"
	PermViewPayslips         Permission = "view_payslips"
	PermManageAttendance     Permission = "manage_attendance"
	PermViewAttendance       Permission = "view_attendance"
	PermManageRecruitment    Permission = "manage_recruitment"
	PermViewCandidates       Permission = "view_candidates"
	PermViewReports          Permission = "view_reports"
	PermManageTenantSettings Permission = "manage_tenant_settings"
	PermManageFeatureFlags   Permission = "manage_feature_flags"
	PermUseAIFeatures        Permission = "use_ai_features"
)

// Permissions returns every known permission.
func Permissions() []Permission {
	return []Permission{
		PermViewDashboard,
		PermManageEmployees,
		PermViewEmployees,
		PermApplyLeave,
		PermApproveLeave,
		PermManagePayroll,
		PermViewPayslips,
		PermManageAttendance,
		PermViewAttendance,
		PermManageRecruitment,
		PermViewCandidates,
		PermViewReports,
		PermManageTenantSettings,
		PermManageFeatureFlags,
		PermUseAIFeatures,
	}
}

// rolePermissions is the single source of truth mapping roles to the
// permissions they hold. The map is total: every role has an entry. No other
// component may infer permissions from role names.
var rolePermissions = map[Role][]Permission{
	RolePlatformAdmin: {
		PermViewDashboard,
		PermManageEmployees,
		PermViewEmployees,
		PermApplyLeave,
		PermApproveLeave,
		PermManagePayroll,
		PermViewPayslips,
		PermManageAttendance,
		PermViewAttendance,
		PermManageRecruitment,
		PermViewCandidates,
		PermViewReports,
		PermManageTenantSettings,
		PermManageFeatureFlags,
		PermUseAIFeatures,
	},
	RoleHR: {
		PermViewDashboard,
		PermManageEmployees,
		PermViewEmployees,
		PermApplyLeave,
		PermApproveLeave,
		PermManagePayroll,
		PermViewPayslips,
		PermManageAttendance,
		PermViewAttendance,
		PermViewReports,
		PermUseAIFeatures,
	},
	RoleManager: {
		PermViewDashboard,
		PermViewEmployees,
		PermApplyLeave,
		PermApproveLeave,
		PermViewPayslips,
		PermViewAttendance,
		PermViewReports,
	},
	RoleEmployee: {
		PermViewDashboard,
		PermApplyLeave,
		PermViewPayslips,
		PermViewAttendance,
	},
	RoleTalentAcquisition: {
		PermViewDashboard,
		PermApplyLeave,
		PermViewPayslips,
		PermViewAttendance,
		PermManageRecruitment,
		PermViewCandidates,
		PermUseAIFeatures,
	},
}

// PermissionsFor returns a copy of the permission set the matrix grants to
// the role. Unknown roles get an empty set.
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
