package collection

import (
	"fmt"
	"path/filepath"
)

// Role selects which attribute of a row Data and SetData address.
type Role int

const (
	RoleDisplay  Role = iota // string: base name of the label
	RoleLabel                // string: full label, usually the source path
	RoleVisible              // bool
	RoleKind                 // dataset.Kind
	RoleIdentity             // dataset.ID
	RoleToolTip              // string
	numRoles
)

func (r Role) valid() bool { return r >= 0 && r < numRoles }

// Flags describe what a view may do with a row.
type Flags uint8

const (
	FlagEnabled Flags = 1 << iota
	FlagSelectable
	FlagCheckable // the visibility attribute can be toggled
)

func (f Flags) Has(o Flags) bool { return f&o == o }

// Data returns the attribute of row selected by role, or nil when row is
// out of range. An unknown role panics.
func (c *Collection) Data(row int, role Role) any {
	if !role.valid() {
		panic(fmt.Sprintf("collection: unknown role %d", int(role)))
	}
	d := c.At(row)
	if d == nil {
		return nil
	}
	switch role {
	case RoleDisplay:
		return filepath.Base(d.Label)
	case RoleLabel:
		return d.Label
	case RoleVisible:
		return d.Visible
	case RoleKind:
		return d.Kind
	case RoleIdentity:
		return d.ID
	case RoleToolTip:
		return d.Label + "\n" + d.Summary()
	}
	return nil
}

// Flags reports the capabilities of row; zero when row is out of range.
func (c *Collection) Flags(row int) Flags {
	if c.At(row) == nil {
		return 0
	}
	return FlagEnabled | FlagSelectable | FlagCheckable
}

// SetData changes the attribute of row selected by role. Only RoleVisible
// with a bool value is writable; every other request returns false. A
// DataChanged event is emitted only when the value actually changes.
// An unknown role panics.
func (c *Collection) SetData(row int, value any, role Role) bool {
	if !role.valid() {
		panic(fmt.Sprintf("collection: unknown role %d", int(role)))
	}
	d := c.At(row)
	if d == nil || role != RoleVisible {
		return false
	}
	v, ok := value.(bool)
	if !ok {
		return false
	}
	if d.Visible != v {
		d.Visible = v
		c.notify(Event{Kind: DataChanged, First: row, Last: row})
	}
	return true
}
