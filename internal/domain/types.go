package domain

// Role names a permission level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Permission is a coarse action checked by the router.
type Permission string

const (
	PermRead   Permission = "read"
	PermWrite  Permission = "write"
	PermClose  Permission = "close"
	PermAudit  Permission = "audit"
	PermUsers  Permission = "users"
	PermImport Permission = "import"
	PermExport Permission = "export"
)

var rolePermissions = map[Role][]Permission{
	RoleViewer:   {PermRead},
	RoleOperator: {PermRead, PermWrite},
	RoleManager:  {PermRead, PermWrite, PermClose, PermAudit, PermExport},
	RoleAdmin:    {PermRead, PermWrite, PermClose, PermAudit, PermExport, PermUsers, PermImport},
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := rolePermissions[r]
	return r, ok
}

// Can reports whether the role grants p.
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Actor identifies who performs a mutation; it is copied into audit rows.
type Actor struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// DateRange is an inclusive YYYY-MM-DD interval; empty bounds are open.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date falls in the range.
func (r DateRange) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}
