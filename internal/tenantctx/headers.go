package tenantctx

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
)

// Header names used to carry a built context across an edge or proxy hop
// where the in-process context.Context does not survive.
const (
	HeaderTenantID        = "X-Tenant-Id"
	HeaderTenantSubdomain = "X-Tenant-Subdomain"
	HeaderUserID          = "X-User-Id"
	HeaderUserRole        = "X-User-Role"
	HeaderPermissions     = "X-Permissions"
)

// ToHeaders serializes the context onto h. The encoding is lossless for
// tenant id, subdomain, user id, role, and the permission list.
func ToHeaders(c *Context, h http.Header) {
	if c == nil {
		return
	}
	h.Set(HeaderTenantID, c.tenant.ID)
	h.Set(HeaderTenantSubdomain, c.tenant.Subdomain)
	h.Set(HeaderUserID, c.userID.String())
	h.Set(HeaderUserRole, string(c.role))

	perms, err := json.Marshal(c.permissions)
	if err != nil {
		// Permissions are plain strings; this cannot fail in practice.
		perms = []byte("[]")
	}
	h.Set(HeaderPermissions, string(perms))
}

// FromHeaders reconstructs a context from headers emitted by ToHeaders.
// Returns nil when the required headers are absent or malformed. The tenant
// portion is a minimal snapshot: only id and subdomain cross the hop.
func FromHeaders(h http.Header) *Context {
	tenantID := h.Get(HeaderTenantID)
	rawUserID := h.Get(HeaderUserID)
	rawRole := h.Get(HeaderUserRole)
	if tenantID == "" || rawUserID == "" || rawRole == "" {
		return nil
	}

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil
	}
	role, ok := rbac.ParseRole(rawRole)
	if !ok {
		return nil
	}

	var perms []rbac.Permission
	if raw := h.Get(HeaderPermissions); raw != "" {
		if err := json.Unmarshal([]byte(raw), &perms); err != nil {
			return nil
		}
	}

	return &Context{
		tenant: models.Tenant{
			ID:        tenantID,
			Subdomain: h.Get(HeaderTenantSubdomain),
		},
		userID:      userID,
		role:        role,
		permissions: perms,
	}
}
