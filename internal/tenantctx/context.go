// Package tenantctx builds the request-scoped tenant context and carries it
// on context.Context so downstream code reads it without parameter threading.
package tenantctx

import (
	"context"

	"github.com/google/uuid"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
)

// Context is the immutable, request-scoped bundle of tenant snapshot,
// authenticated user, role, and resolved permission set. It is created once
// per request and only read afterwards, so it needs no synchronization.
type Context struct {
	tenant      models.Tenant
	userID      uuid.UUID
	role        rbac.Role
	permissions []rbac.Permission
}

// Build combines a resolved tenant with an authenticated principal. The
// permission set always comes from the role matrix; it is never supplied by
// the caller. Returns nil when the tenant is missing.
func Build(tenant *models.Tenant, userID uuid.UUID, role rbac.Role) *Context {
	if tenant == nil {
		return nil
	}
	return &Context{
		tenant:      *tenant.Clone(),
		userID:      userID,
		role:        role,
		permissions: rbac.PermissionsFor(role),
	}
}

// Tenant returns the tenant snapshot held at build time.
func (c *Context) Tenant() models.Tenant {
	return c.tenant
}

func (c *Context) UserID() uuid.UUID {
	return c.userID
}

func (c *Context) Role() rbac.Role {
	return c.role
}

// Permissions returns a copy of the resolved permission set.
func (c *Context) Permissions() []rbac.Permission {
	out := make([]rbac.Permission, len(c.permissions))
	copy(out, c.permissions)
	return out
}

// HasPermission reports whether the context's permission set contains perm.
func (c *Context) HasPermission(perm rbac.Permission) bool {
	if c == nil {
		return false
	}
	for _, p := range c.permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Subject adapts the context for the access gate. Nil-safe: a nil context
// yields a nil subject, which the gate treats as unauthenticated.
func (c *Context) Subject() *rbac.Subject {
	if c == nil {
		return nil
	}
	return &rbac.Subject{Role: c.role, Permissions: c.Permissions()}
}

type ctxKey struct{}

// With binds the tenant context to ctx. Everything called with the returned
// context observes it via FromContext; sibling requests never do, since each
// request carries its own context.Context.
func With(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext returns the bound tenant context, or nil when none is bound.
// Safe to call from anywhere.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	tc, _ := ctx.Value(ctxKey{}).(*Context)
	return tc
}
