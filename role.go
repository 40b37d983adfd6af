package tourauth

import "fmt"

// Role is the typed account role enumeration. Authorization decisions are
// set-membership checks over these values, never raw string comparisons.
type Role uint8

const (
	// RoleUser is an exported constant or variable used by the authentication engine.
	RoleUser Role = iota
	// RoleGuide is an exported constant or variable used by the authentication engine.
	RoleGuide
	// RoleLeadGuide is an exported constant or variable used by the authentication engine.
	RoleLeadGuide
	// RoleAdmin is an exported constant or variable used by the authentication engine.
	RoleAdmin

	roleCount
)

var roleNames = [roleCount]string{
	RoleUser:      "user",
	RoleGuide:     "guide",
	RoleLeadGuide: "lead-guide",
	RoleAdmin:     "admin",
}

// String returns the wire name of the role ("user", "guide", "lead-guide",
// "admin").
func (r Role) String() string {
	if r >= roleCount {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleNames[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r < roleCount
}

// ParseRole converts a wire name into a [Role]. Unknown names return
// [ErrInvalidRole].
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return Role(r), nil
		}
	}
	return 0, ErrInvalidRole
}

// RoleSet is an allow-list of roles, used by [Engine.Authorize] and the
// middleware guards.
type RoleSet uint8

// NewRoleSet builds a set from the given roles. Invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}
