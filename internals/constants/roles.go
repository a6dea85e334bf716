package constants

import "fmt"

const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleDKM       = "dkm"
	RoleTeacher   = "teacher"
	RoleTreasurer = "treasurer"
	RoleAuthor    = "author"
	RoleStudent   = "student"
	RoleUser      = "user"
)

// Template pesan error role
const (
	ErrOnlyDashboardCanAccess = "❌ Hanya pengurus (DKM, admin, guru, bendahara) yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess    = "❌ Hanya admin/DKM yang boleh mengakses fitur %s."
	ErrOnlyFinanceCanAccess   = "❌ Hanya DKM, admin, atau bendahara yang boleh mengakses fitur %s."
)

func RoleErrorDashboard(feature string) string {
	return fmt.Sprintf(ErrOnlyDashboardCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorFinance(feature string) string {
	return fmt.Sprintf(ErrOnlyFinanceCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	DashboardRoles = []string{
		RoleOwner,
		RoleAdmin,
		RoleDKM,
		RoleTeacher,
		RoleTreasurer,
	}

	AdminAndAbove = []string{
		RoleOwner,
		RoleAdmin,
		RoleDKM,
	}

	FinanceRoles = []string{
		RoleOwner,
		RoleAdmin,
		RoleDKM,
		RoleTreasurer,
	}
)

// RolePriority dipakai untuk memilih role aktif kalau token membawa beberapa role.
var RolePriority = map[string]int{
	RoleOwner:     100,
	RoleAdmin:     90,
	RoleDKM:       80,
	RoleTeacher:   70,
	RoleTreasurer: 60,
	RoleAuthor:    50,
	RoleStudent:   40,
	RoleUser:      10,
}
