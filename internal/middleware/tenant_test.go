package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/puneethvarma-001/worksense-sub000/internal/auth"
	"github.com/puneethvarma-001/worksense-sub000/internal/config"
	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenant"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenantctx"
)

var testDomain = config.DomainConfig{
	RootDomain:    "worksense.app",
	PreviewDomain: "worksense-previews.app",
}

func seedWithSuspended() []models.Tenant {
	now := time.Now().UTC()
	seeds := tenant.SeedTenants()
	return append(seeds, models.Tenant{
		ID:        "umbrella",
		Subdomain: "umbrella",
		Name:      "Umbrella Corp",
		Status:    models.TenantStatusSuspended,
		Tier:      models.TierEnterprise,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func demoCookie(t *testing.T, email, subdomain, role string) *http.Cookie {
	t.Helper()
	raw, err := json.Marshal(map[string]string{
		"email":     email,
		"subdomain": subdomain,
		"role":      role,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &http.Cookie{
		Name:  auth.DemoCookieName,
		Value: base64.StdEncoding.EncodeToString(raw),
	}
}

// newTestRouter wires the resolution chain the way cmd/api does, against
// the in-memory store and the demo resolver.
func newTestRouter(t *testing.T, table *rbac.AccessTable) (*gin.Engine, *auth.UserDirectory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seeds := seedWithSuspended()
	dir := tenant.NewDirectory(tenant.NewMemoryStore(seeds...), nil, time.Hour)
	users := auth.NewUserDirectory(seeds)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(TenantContext(dir, auth.NewDemoResolver(users), &testDomain))
	api.Use(AccessControl(table))

	api.GET("/leave/approvals", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	api.GET("/leave/requests", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	api.GET("/settings/tenant", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	api.GET("/whoami", func(c *gin.Context) {
		tc := tenantctx.FromContext(c.Request.Context())
		if tc == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tenant": tc.Tenant().ID,
			"role":   tc.Role(),
		})
	})

	return router, users
}

func standardTable() *rbac.AccessTable {
	table := rbac.NewAccessTable()
	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/leave/approvals",
		Permissions: []rbac.Permission{rbac.PermApproveLeave},
		Mode:        rbac.ModeAll,
	})
	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/leave/*",
		Permissions: []rbac.Permission{rbac.PermApplyLeave, rbac.PermApproveLeave},
		Mode:        rbac.ModeAny,
	})
	table.Register(rbac.RouteAccessControl{
		Matcher: "/api/v1/settings/*",
		Roles:   []rbac.Role{rbac.RolePlatformAdmin},
	})
	return table
}

func doRequest(router *gin.Engine, target string, cookie *http.Cookie, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUnknownSubdomainIs404(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	rec := doRequest(router, "http://nonexistent.worksense.app/api/v1/whoami", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestRootDomainIs404(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	rec := doRequest(router, "http://worksense.app/api/v1/whoami", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSuspendedTenantIs403(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	rec := doRequest(router, "http://umbrella.worksense.app/api/v1/whoami", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestUnauthenticatedProtectedRouteIs401(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	rec := doRequest(router, "http://acme.worksense.app/api/v1/leave/approvals", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
}

func TestUnprotectedRouteWithoutCredentials(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	rec := doRequest(router, "http://acme.worksense.app/api/v1/whoami", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["anonymous"] != true {
		t.Errorf("expected anonymous context, got %v", body)
	}
}

func TestRoleInsufficientIs403(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	cookie := demoCookie(t, "employee@acme.test", "acme", "employee")
	rec := doRequest(router, "http://acme.worksense.app/api/v1/settings/tenant", cookie, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestPermissionOrModeAllows(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	// Employee holds apply_leave but not approve_leave; /leave/* is OR.
	cookie := demoCookie(t, "employee@acme.test", "acme", "employee")
	rec := doRequest(router, "http://acme.worksense.app/api/v1/leave/requests", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// The narrower approvals rule requires approve_leave.
	rec = doRequest(router, "http://acme.worksense.app/api/v1/leave/approvals", cookie, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestManagerCanApproveLeave(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	cookie := demoCookie(t, "manager@acme.test", "acme", "manager")
	rec := doRequest(router, "http://acme.worksense.app/api/v1/leave/approvals", cookie, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestDemoCookieForWrongTenantIsIgnored(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	cookie := demoCookie(t, "hr@acme.test", "acme", "hr")
	rec := doRequest(router, "http://globex.worksense.app/api/v1/leave/approvals", cookie, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
}

func TestPrebuiltHeaderContextSkipsResolution(t *testing.T) {
	router, _ := newTestRouter(t, standardTable())

	h := http.Header{}
	h.Set(tenantctx.HeaderTenantID, "acme")
	h.Set(tenantctx.HeaderTenantSubdomain, "acme")
	h.Set(tenantctx.HeaderUserID, uuid.NewString())
	h.Set(tenantctx.HeaderUserRole, "hr")
	h.Set(tenantctx.HeaderPermissions, `["approve_leave"]`)

	// The host is not even a tenant host; the edge already resolved it.
	rec := doRequest(router, "http://internal-proxy.local/api/v1/leave/approvals", nil, h)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}
