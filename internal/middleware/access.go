package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puneethvarma-001/worksense-sub000/internal/features"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenantctx"
)

// AccessControl enforces the route access table. The first matching rule
// wins; an unmatched path is unprotected and passes through.
func AccessControl(table *rbac.AccessTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := table.Lookup(c.Request.URL.Path)
		tc := tenantctx.FromContext(c.Request.Context())

		decision := rbac.Decide(tc.Subject(), entry)
		switch decision.Outcome {
		case rbac.OutcomeAllow:
			c.Next()
		case rbac.OutcomeUnauthenticated:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			c.Abort()
		}
	}
}

// RequirePermission rejects requests whose context lacks the permission.
func RequirePermission(perm rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := tenantctx.FromContext(c.Request.Context())
		if tc == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !rbac.HasPermission(tc.Subject(), perm) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission " + string(perm) + " required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose context's role is not among the given
// roles.
func RequireRole(roles ...rbac.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := tenantctx.FromContext(c.Request.Context())
		if tc == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !rbac.HasRole(tc.Subject(), roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "role " + string(tc.Role()) + " is not permitted"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireFeature rejects requests for tenants without the feature enabled.
func RequireFeature(svc *features.Service, flag features.Flag) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := CurrentTenant(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
			c.Abort()
			return
		}
		if !svc.IsEnabled(c.Request.Context(), flag, t.ID, t.Tier) {
			c.JSON(http.StatusForbidden, gin.H{"error": "feature '" + string(flag) + "' is not enabled"})
			c.Abort()
			return
		}
		c.Next()
	}
}
