package role

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Module is a feature area that permissions are granted on.
type Module string

const (
	ModuleDashboard Module = "dashboard"
	ModulePayroll   Module = "payroll"
	ModuleStaff     Module = "staff"
	ModuleBranches  Module = "branches"
	ModuleUsers     Module = "users"
	ModuleRoles     Module = "roles"
)

// Modules lists every module in display order.
var Modules = []Module{ModuleDashboard, ModulePayroll, ModuleStaff, ModuleBranches, ModuleUsers, ModuleRoles}

func (m Module) Valid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// Access is the kind of permission being asked for.
type Access string

const (
	AccessView Access = "view"
	AccessEdit Access = "edit"
)

func (a Access) Valid() bool {
	return a == AccessView || a == AccessEdit
}

type permissionKind uint8

const (
	kindNone permissionKind = iota
	kindLegacy
	kindDetailed
)

// Permission is either LegacyView, a bare boolean stored by older records
// that only speaks for view access, or Detailed with explicit view and
// edit flags.
type Permission struct {
	kind permissionKind
	view bool
	edit bool
}

func LegacyView(allowed bool) Permission {
	return Permission{kind: kindLegacy, view: allowed}
}

func Detailed(view, edit bool) Permission {
	return Permission{kind: kindDetailed, view: view, edit: edit}
}

func (p Permission) IsLegacy() bool {
	return p.kind == kindLegacy
}

func (p Permission) IsSet() bool {
	return p.kind != kindNone
}

// Allows answers an access check. ok is false when the permission carries
// no answer at all. A legacy value answers view with its flag and edit
// with false.
func (p Permission) Allows(a Access) (allowed bool, ok bool) {
	switch p.kind {
	case kindDetailed:
		if a == AccessEdit {
			return p.edit, true
		}
		return p.view, true
	case kindLegacy:
		if a == AccessView {
			return p.view, true
		}
		return false, true
	default:
		return false, false
	}
}

// Flags returns the effective view and edit values.
func (p Permission) Flags() (view, edit bool) {
	view, _ = p.Allows(AccessView)
	edit, _ = p.Allows(AccessEdit)
	return view, edit
}

// With returns a detailed permission with one access flag replaced. A
// legacy value is upgraded keeping its view flag.
func (p Permission) With(a Access, allowed bool) Permission {
	view, edit := p.Flags()
	if a == AccessEdit {
		edit = allowed
	} else {
		view = allowed
	}
	return Detailed(view, edit)
}

type detailedJSON struct {
	View bool `json:"view"`
	Edit bool `json:"edit"`
}

func (p Permission) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case kindLegacy:
		return json.Marshal(p.view)
	case kindDetailed:
		return json.Marshal(detailedJSON{View: p.view, Edit: p.edit})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a boolean as LegacyView and an object as Detailed.
func (p *Permission) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = Permission{}
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*p = LegacyView(data[0] == 't')
	case len(data) > 0 && data[0] == '{':
		var d detailedJSON
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*p = Detailed(d.View, d.Edit)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPermission, string(data))
	}
	return nil
}

// PermissionMap holds permissions per module.
type PermissionMap map[Module]Permission

// Lookup resolves one module and access. ok is false when the map has no
// usable entry for the module.
func (m PermissionMap) Lookup(module Module, a Access) (allowed bool, ok bool) {
	p, found := m[module]
	if !found {
		return false, false
	}
	return p.Allows(a)
}

// Clone copies the map so callers can edit it safely.
func (m PermissionMap) Clone() PermissionMap {
	if m == nil {
		return nil
	}
	out := make(PermissionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
