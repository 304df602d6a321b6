package role

import "time"

// Name identifies a system role.
type Name string

const (
	Admin   Name = "admin"
	Manager Name = "manager"
	Owner   Name = "owner"
)

// Names lists every system role in display order.
var Names = []Name{Admin, Manager, Owner}

func (n Name) Valid() bool {
	return n == Admin || n == Manager || n == Owner
}

type Role struct {
	Name        Name
	Permissions PermissionMap
	UpdatedAt   time.Time
}

// Locked roles cannot have their permissions edited.
func (r Role) Locked() bool {
	return r.Name == Admin
}

// DefaultPermissions seeds role records that do not exist yet.
func DefaultPermissions(n Name) PermissionMap {
	out := PermissionMap{}
	switch n {
	case Admin:
		for _, m := range Modules {
			out[m] = Detailed(true, true)
		}
	case Manager:
		out[ModuleDashboard] = Detailed(true, false)
		out[ModulePayroll] = Detailed(true, true)
		out[ModuleStaff] = Detailed(true, true)
	case Owner:
		for _, m := range Modules {
			out[m] = Detailed(true, false)
		}
	}
	return out
}
