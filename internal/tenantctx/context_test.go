package tenantctx

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
)

func testTenant() *models.Tenant {
	now := time.Now().UTC()
	return &models.Tenant{
		ID:        "acme",
		Subdomain: "acme",
		Name:      "Acme Corp",
		Status:    models.TenantStatusActive,
		Tier:      models.TierEnterprise,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBuildDerivesPermissionsFromMatrix(t *testing.T) {
	tc := Build(testTenant(), uuid.New(), rbac.RoleManager)
	if tc == nil {
		t.Fatal("expected a context")
	}

	want := rbac.PermissionsFor(rbac.RoleManager)
	got := tc.Permissions()
	if len(got) != len(want) {
		t.Fatalf("permission set = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("permission set = %v, want %v", got, want)
		}
	}
}

func TestBuildNilTenant(t *testing.T) {
	if tc := Build(nil, uuid.New(), rbac.RoleHR); tc != nil {
		t.Errorf("expected nil context without a tenant, got %+v", tc)
	}
}

func TestBuildSnapshotsTenant(t *testing.T) {
	src := testTenant()
	tc := Build(src, uuid.New(), rbac.RoleHR)

	src.Name = "Renamed Corp"
	if tc.Tenant().Name != "Acme Corp" {
		t.Error("context observed a mutation of the source tenant record")
	}
}

func TestContextPropagation(t *testing.T) {
	tc := Build(testTenant(), uuid.New(), rbac.RoleEmployee)

	ctx := With(context.Background(), tc)
	if got := FromContext(ctx); got != tc {
		t.Errorf("FromContext = %p, want %p", got, tc)
	}

	if got := FromContext(context.Background()); got != nil {
		t.Errorf("unbound context yielded %+v", got)
	}
	if got := FromContext(nil); got != nil {
		t.Errorf("nil context yielded %+v", got)
	}
}

// Concurrent requests each bind their own context and must never observe a
// sibling's.
func TestContextIsolationAcrossGoroutines(t *testing.T) {
	done := make(chan error, 2)

	for _, sub := range []string{"acme", "globex"} {
		sub := sub
		go func() {
			tenant := testTenant()
			tenant.ID = sub
			tenant.Subdomain = sub
			ctx := With(context.Background(), Build(tenant, uuid.New(), rbac.RoleHR))

			for i := 0; i < 100; i++ {
				if got := FromContext(ctx).Tenant().ID; got != sub {
					done <- errNot(sub, got)
					return
				}
			}
			done <- nil
		}()
	}

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func errNot(want, got string) error {
	return &isolationError{want: want, got: got}
}

type isolationError struct{ want, got string }

func (e *isolationError) Error() string {
	return "observed tenant " + e.got + ", want " + e.want
}

func TestHeaderRoundTrip(t *testing.T) {
	userID := uuid.New()
	tc := Build(testTenant(), userID, rbac.RoleTalentAcquisition)

	h := http.Header{}
	ToHeaders(tc, h)

	got := FromHeaders(h)
	if got == nil {
		t.Fatal("round trip lost the context")
	}
	if got.Tenant().ID != "acme" || got.Tenant().Subdomain != "acme" {
		t.Errorf("tenant = %+v", got.Tenant())
	}
	if got.UserID() != userID {
		t.Errorf("user id = %s, want %s", got.UserID(), userID)
	}
	if got.Role() != rbac.RoleTalentAcquisition {
		t.Errorf("role = %s", got.Role())
	}

	want := tc.Permissions()
	perms := got.Permissions()
	sortPerms(want)
	sortPerms(perms)
	if len(perms) != len(want) {
		t.Fatalf("permissions = %v, want %v", perms, want)
	}
	for i := range want {
		if perms[i] != want[i] {
			t.Fatalf("permissions = %v, want %v", perms, want)
		}
	}
}

func sortPerms(perms []rbac.Permission) {
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
}

func TestFromHeadersRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		h    http.Header
	}{
		{"empty", http.Header{}},
		{"missing user", func() http.Header {
			h := http.Header{}
			h.Set(HeaderTenantID, "acme")
			h.Set(HeaderUserRole, "hr")
			return h
		}()},
		{"bad uuid", func() http.Header {
			h := http.Header{}
			h.Set(HeaderTenantID, "acme")
			h.Set(HeaderUserID, "not-a-uuid")
			h.Set(HeaderUserRole, "hr")
			return h
		}()},
		{"unknown role", func() http.Header {
			h := http.Header{}
			h.Set(HeaderTenantID, "acme")
			h.Set(HeaderUserID, uuid.NewString())
			h.Set(HeaderUserRole, "superuser")
			return h
		}()},
		{"bad permissions json", func() http.Header {
			h := http.Header{}
			h.Set(HeaderTenantID, "acme")
			h.Set(HeaderUserID, uuid.NewString())
			h.Set(HeaderUserRole, "hr")
			h.Set(HeaderPermissions, "{not json")
			return h
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromHeaders(tt.h); got != nil {
				t.Errorf("expected nil, got %+v", got)
			}
		})
	}
}
