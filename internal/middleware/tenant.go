package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/puneethvarma-001/worksense-sub000/internal/auth"
	"github.com/puneethvarma-001/worksense-sub000/internal/config"
	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenant"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenantctx"
)

// tenantKey stashes the resolved tenant in the gin context for handlers
// that run before or without an authenticated principal.
const tenantKey = "tenant"

// TenantContext resolves the request host to a tenant, resolves the
// authenticated principal, and binds the built tenant context onto the
// request. A request arriving from an edge hop with pre-built context
// headers skips resolution entirely.
//
// No principal is not an error here: the request proceeds without a bound
// context and the access-control layer decides whether that matters.
func TenantContext(dir *tenant.Directory, resolver auth.Resolver, domain *config.DomainConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The edge hop that built these headers already verified tenant
		// status and tier; they are trusted here without re-checking.
		if tc := tenantctx.FromHeaders(c.Request.Header); tc != nil {
			t := tc.Tenant()
			c.Set(tenantKey, &t)
			bindContext(c, tc)
			c.Next()
			return
		}

		subdomain := tenant.ResolveSubdomain(
			c.Request.URL.String(), c.Request.Host, domain.RootDomain, domain.PreviewDomain,
		)
		if subdomain == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		t, err := dir.GetBySubdomain(ctx, subdomain)
		if errors.Is(err, tenant.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			c.Abort()
			return
		}
		if err != nil {
			log.Error().Err(err).Str("subdomain", subdomain).Msg("tenant lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			c.Abort()
			return
		}

		if t.Status != models.TenantStatusActive {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("tenant is %s", t.Status)})
			c.Abort()
			return
		}

		c.Set(tenantKey, t)

		if p := resolver.Resolve(c.Request, subdomain); p != nil {
			bindContext(c, tenantctx.Build(t, p.UserID, p.Role))
		}

		c.Next()
	}
}

// bindContext attaches the tenant context to the request and re-emits it as
// headers so a proxied hop can rebuild it.
func bindContext(c *gin.Context, tc *tenantctx.Context) {
	c.Request = c.Request.WithContext(tenantctx.With(c.Request.Context(), tc))
	tenantctx.ToHeaders(tc, c.Request.Header)
}

// CurrentTenant returns the tenant resolved for this request.
func CurrentTenant(c *gin.Context) (*models.Tenant, bool) {
	v, ok := c.Get(tenantKey)
	if !ok {
		return nil, false
	}
	t, ok := v.(*models.Tenant)
	return t, ok
}
