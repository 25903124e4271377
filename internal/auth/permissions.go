package auth

import "github.com/isdelr/bulletin-board/internal/models"

// Permissions and modules checked by the HTML and JSON handlers.
const (
	PermAddPost = "post.add"
	PermPinPost = "post.notice"

	ModuleAdmin = "admin"
)

var memberPermissions = map[string]bool{
	PermAddPost: true,
}

// HasPermission reports whether user holds perm. Inactive accounts hold
// nothing, admins hold everything, members hold the member set.
func HasPermission(user *models.User, perm string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	if user.IsAdmin {
		return true
	}
	return memberPermissions[perm]
}

// HasModuleAccess reports whether user may use the named module at all.
// Members reach no restricted module.
func HasModuleAccess(user *models.User, module string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	return user.IsAdmin
}
