package constants

import "fmt"

const (
	RoleStudent    = "student"
	RoleDepartment = "department"
	RoleOSAS       = "osas"
)

// Role error message templates
const (
	ErrOnlyStudentsCanAccess   = "Access denied. Student accounts only (%s)."
	ErrOnlyDepartmentCanAccess = "Access denied. Department accounts only (%s)."
	ErrOnlyOSASCanAccess       = "Access denied. OSAS accounts only (%s)."
)

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorDepartment(feature string) string {
	return fmt.Sprintf(ErrOnlyDepartmentCanAccess, feature)
}

func RoleErrorOSAS(feature string) string {
	return fmt.Sprintf(ErrOnlyOSASCanAccess, feature)
}

// ==========================
// Grouped role slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleDepartment,
		RoleOSAS,
	}

	OrganizerRoles = []string{
		RoleDepartment,
		RoleOSAS,
	}

	StudentOnly = []string{
		RoleStudent,
	}

	DepartmentOnly = []string{
		RoleDepartment,
	}

	OSASOnly = []string{
		RoleOSAS,
	}
)
