package tourauth

import (
	"errors"
	"testing"
)

func TestRoleRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		role Role
		name string
	}{
		{RoleUser, "user"},
		{RoleGuide, "guide"},
		{RoleLeadGuide, "lead-guide"},
		{RoleAdmin, "admin"},
	} {
		if got := tc.role.String(); got != tc.name {
			t.Fatalf("%v.String() = %q, want %q", tc.role, got, tc.name)
		}
		parsed, err := ParseRole(tc.name)
		if err != nil {
			t.Fatalf("ParseRole(%q) failed: %v", tc.name, err)
		}
		if parsed != tc.role {
			t.Fatalf("ParseRole(%q) = %v, want %v", tc.name, parsed, tc.role)
		}
	}
}

func TestParseRoleUnknown(t *testing.T) {
	for _, name := range []string{"", "superadmin", "User", "ADMIN"} {
		if _, err := ParseRole(name); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", name, err)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() {
		t.Fatal("RoleAdmin should be valid")
	}
	if Role(200).Valid() {
		t.Fatal("out-of-range role should be invalid")
	}
}

func TestRoleSetMembership(t *testing.T) {
	set := NewRoleSet(RoleGuide, RoleAdmin)

	if !set.Contains(RoleGuide) || !set.Contains(RoleAdmin) {
		t.Fatal("expected members to be contained")
	}
	if set.Contains(RoleUser) || set.Contains(RoleLeadGuide) {
		t.Fatal("expected non-members to be excluded")
	}
	if set.Contains(Role(200)) {
		t.Fatal("invalid role must never be contained")
	}

	empty := NewRoleSet()
	if empty.Contains(RoleUser) {
		t.Fatal("empty set contains nothing")
	}

	// Invalid inputs are dropped at construction.
	weird := NewRoleSet(Role(200), RoleUser)
	if !weird.Contains(RoleUser) || weird.Contains(Role(200)) {
		t.Fatal("expected invalid constructor input to be ignored")
	}
}
