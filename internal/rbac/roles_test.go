package rbac

import "testing"

// Every role must have a matrix entry, and every permission it maps to must
// be a member of the global permission enumeration.
func TestMatrixTotality(t *testing.T) {
	known := make(map[Permission]bool)
	for _, p := range Permissions() {
		known[p] = true
	}

	for _, role := range Roles() {
		perms, ok := rolePermissions[role]
		if !ok {
			t.Errorf("role %s has no matrix entry", role)
			continue
		}
		if len(perms) == 0 {
			t.Errorf("role %s maps to an empty permission set", role)
		}
		for _, p := range perms {
			if !known[p] {
				t.Errorf("role %s maps to unknown permission %q", role, p)
			}
		}
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	first := PermissionsFor(RoleEmployee)
	if len(first) == 0 {
		t.Fatal("employee role has no permissions")
	}
	first[0] = Permission("tampered")

	second := PermissionsFor(RoleEmployee)
	if second[0] == Permission("tampered") {
		t.Error("PermissionsFor returned a shared slice; matrix was mutated")
	}
}

func TestPermissionsForUnknownRole(t *testing.T) {
	if perms := PermissionsFor(Role("intern")); perms != nil {
		t.Errorf("expected nil for unknown role, got %v", perms)
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole("hr"); !ok || role != RoleHR {
		t.Errorf("ParseRole(hr) = %v, %v", role, ok)
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Error("ParseRole accepted an unknown role")
	}
}
