package rbac

import (
	"strings"
	"sync"
)

// CombineMode controls how a rule's required permissions combine.
type CombineMode string

const (
	ModeAll CombineMode = "AND"
	ModeAny CombineMode = "OR"
)

// RouteAccessControl pairs a path matcher with the roles and/or permissions
// a request must hold. A matcher is either an exact path or a prefix pattern
// ending in "/*".
type RouteAccessControl struct {
	Matcher     string
	Roles       []Role
	Permissions []Permission
	Mode        CombineMode
}

// Matches reports whether the rule applies to the request path.
func (r RouteAccessControl) Matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Matcher, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Matcher
}

// AccessTable is an ordered collection of access rules. Lookup is a linear
// scan in registration order: the first matching rule wins, so narrower
// matchers must be registered before broader ones. Tables stay small (tens
// of entries), which keeps the scan cheap and the ordering inspectable.
type AccessTable struct {
	mu      sync.RWMutex
	entries []RouteAccessControl
}

func NewAccessTable() *AccessTable {
	return &AccessTable{}
}

// Register appends a rule to the table.
func (t *AccessTable) Register(entry RouteAccessControl) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

// Unregister removes the first rule whose matcher equals the given one and
// reports whether a rule was removed.
func (t *AccessTable) Unregister(matcher string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.entries {
		if e.Matcher == matcher {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the first rule matching the path, or nil for an
// unprotected path.
func (t *AccessTable) Lookup(path string) *RouteAccessControl {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.entries {
		if t.entries[i].Matches(path) {
			entry := t.entries[i]
			return &entry
		}
	}
	return nil
}

// Subject is what the gate judges: the authenticated caller's role and
// resolved permission set. A nil *Subject means no authenticated caller.
type Subject struct {
	Role        Role
	Permissions []Permission
}

// Outcome is the gate's verdict. These are the only outcomes the gate may
// produce; the HTTP layer maps them onto 401/403.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeUnauthenticated
	OutcomeForbiddenRole
	OutcomeForbiddenPermission
)

// Decision carries the verdict and, on a deny, which requirement failed.
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Decide is the single access-control decision algorithm. Every guard
// helper in this package routes through it.
//
//  1. A nil entry means the route is unprotected: allow.
//  2. A protected route with no subject: unauthenticated.
//  3. Required roles: the subject's role must be among them.
//  4. Required permissions: all of them under AND mode, at least one
//     under OR mode.
func Decide(subject *Subject, entry *RouteAccessControl) Decision {
	if entry == nil {
		return Decision{Outcome: OutcomeAllow}
	}
	if subject == nil {
		return Decision{Outcome: OutcomeUnauthenticated, Reason: "authentication required"}
	}

	if len(entry.Roles) > 0 {
		matched := false
		for _, role := range entry.Roles {
			if subject.Role == role {
				matched = true
				break
			}
		}
		if !matched {
			return Decision{
				Outcome: OutcomeForbiddenRole,
				Reason:  "role " + string(subject.Role) + " is not permitted",
			}
		}
	}

	if len(entry.Permissions) > 0 {
		held := make(map[Permission]bool, len(subject.Permissions))
		for _, p := range subject.Permissions {
			held[p] = true
		}

		if entry.Mode == ModeAny {
			for _, p := range entry.Permissions {
				if held[p] {
					return Decision{Outcome: OutcomeAllow}
				}
			}
			return Decision{
				Outcome: OutcomeForbiddenPermission,
				Reason:  "none of the required permissions are held",
			}
		}

		// AND is the default when the mode is unset.
		for _, p := range entry.Permissions {
			if !held[p] {
				return Decision{
					Outcome: OutcomeForbiddenPermission,
					Reason:  "permission " + string(p) + " required",
				}
			}
		}
	}

	return Decision{Outcome: OutcomeAllow}
}

// HasRole reports whether the subject holds one of the given roles.
func HasRole(subject *Subject, roles ...Role) bool {
	return Decide(subject, &RouteAccessControl{Roles: roles}).Allowed()
}

// HasPermission reports whether the subject holds the permission.
func HasPermission(subject *Subject, perm Permission) bool {
	return Decide(subject, &RouteAccessControl{Permissions: []Permission{perm}, Mode: ModeAll}).Allowed()
}

// HasAnyPermission reports whether the subject holds at least one of the
// permissions.
func HasAnyPermission(subject *Subject, perms ...Permission) bool {
	return Decide(subject, &RouteAccessControl{Permissions: perms, Mode: ModeAny}).Allowed()
}

// HasAllPermissions reports whether the subject holds every permission.
func HasAllPermissions(subject *Subject, perms ...Permission) bool {
	return Decide(subject, &RouteAccessControl{Permissions: perms, Mode: ModeAll}).Allowed()
}
