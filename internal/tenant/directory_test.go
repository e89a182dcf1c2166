package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// fakeCache is an in-memory Cache that can be flipped into failure mode to
// exercise the fallback path.
type fakeCache struct {
	values map[string]string
	fail   bool

	gets, sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	f.gets++
	if f.fail {
		return "", false, errors.New("connection refused")
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.sets++
	if f.fail {
		return errors.New("connection refused")
	}
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func newTestDirectory(c Cache) *Directory {
	return NewDirectory(NewMemoryStore(SeedTenants()...), c, time.Hour)
}

func TestGetBySubdomainPopulatesCache(t *testing.T) {
	cache := newFakeCache()
	dir := newTestDirectory(cache)
	ctx := context.Background()

	got, err := dir.GetBySubdomain(ctx, "acme")
	if err != nil {
		t.Fatalf("GetBySubdomain: %v", err)
	}
	if got.Name != "Acme Corp" {
		t.Errorf("tenant = %+v", got)
	}

	raw, ok := cache.values["tenant:acme"]
	if !ok {
		t.Fatal("authoritative hit did not populate the cache")
	}
	var cached models.Tenant
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("cached entry is not valid JSON: %v", err)
	}
	if cached.ID != "acme" {
		t.Errorf("cached tenant = %+v", cached)
	}
}

func TestGetBySubdomainServedFromCache(t *testing.T) {
	cache := newFakeCache()
	store := NewMemoryStore(SeedTenants()...)
	dir := NewDirectory(store, cache, time.Hour)
	ctx := context.Background()

	warm, err := dir.GetBySubdomain(ctx, "globex")
	if err != nil {
		t.Fatalf("warm-up: %v", err)
	}

	// Change the store behind the cache; a warm read serves the cached
	// snapshot, stale up to the TTL by design.
	renamed := warm.Clone()
	renamed.Name = "Globex Renamed"
	if err := store.Update(ctx, renamed); err != nil {
		t.Fatalf("store update: %v", err)
	}

	cached, err := dir.GetBySubdomain(ctx, "globex")
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if cached.Name != "Globex Industries" {
		t.Errorf("cached tenant = %+v", cached)
	}
}

func TestGetBySubdomainCacheFailureFallsBack(t *testing.T) {
	cache := newFakeCache()
	cache.fail = true
	dir := newTestDirectory(cache)

	got, err := dir.GetBySubdomain(context.Background(), "acme")
	if err != nil {
		t.Fatalf("cache outage must not fail resolution: %v", err)
	}
	if got.Subdomain != "acme" {
		t.Errorf("tenant = %+v", got)
	}
}

func TestGetBySubdomainUnknown(t *testing.T) {
	dir := newTestDirectory(nil)

	_, err := dir.GetBySubdomain(context.Background(), "nonexistent")
	if !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("err = %v, want ErrTenantNotFound", err)
	}
}

func TestCreateDefaultsAndConflict(t *testing.T) {
	dir := newTestDirectory(newFakeCache())
	ctx := context.Background()

	created, err := dir.Create(ctx, "stark", "Stark Industries", "⚡")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "stark" || created.Subdomain != "stark" {
		t.Errorf("id/subdomain = %s/%s", created.ID, created.Subdomain)
	}
	if created.Status != models.TenantStatusActive {
		t.Errorf("status = %s, want active", created.Status)
	}
	if created.Tier != models.TierStarter {
		t.Errorf("tier = %s, want starter", created.Tier)
	}

	if _, err := dir.Create(ctx, "stark", "Imposter Inc", ""); !errors.Is(err, ErrSubdomainTaken) {
		t.Errorf("duplicate create err = %v, want ErrSubdomainTaken", err)
	}
}

func TestUpdateMergesPartial(t *testing.T) {
	dir := newTestDirectory(newFakeCache())
	ctx := context.Background()

	before, err := dir.GetBySubdomain(ctx, "initech")
	if err != nil {
		t.Fatalf("GetBySubdomain: %v", err)
	}

	name := "Initech LLC"
	tier := models.TierProfessional
	updated, err := dir.Update(ctx, "initech", models.TenantUpdate{Name: &name, Tier: &tier})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != name || updated.Tier != tier {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Icon != before.Icon {
		t.Errorf("icon changed unexpectedly: %q -> %q", before.Icon, updated.Icon)
	}
	if updated.ID != "initech" || updated.Subdomain != "initech" {
		t.Error("identity fields changed on update")
	}
	if !updated.CreatedAt.Equal(before.CreatedAt) {
		t.Error("created_at changed on update")
	}
	if updated.UpdatedAt.Before(before.UpdatedAt) {
		t.Error("updated_at was not bumped")
	}
}

func TestUpdateUnknownTenant(t *testing.T) {
	dir := newTestDirectory(nil)

	name := "Ghost"
	_, err := dir.Update(context.Background(), "ghost", models.TenantUpdate{Name: &name})
	if !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("err = %v, want ErrTenantNotFound", err)
	}
}

// Soft delete is a status transition, never a removal.
func TestStatusTransitionToDeleted(t *testing.T) {
	dir := newTestDirectory(nil)
	ctx := context.Background()

	status := models.TenantStatusDeleted
	if _, err := dir.Update(ctx, "globex", models.TenantUpdate{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := dir.GetBySubdomain(ctx, "globex")
	if err != nil {
		t.Fatalf("deleted tenant must remain readable: %v", err)
	}
	if got.Status != models.TenantStatusDeleted {
		t.Errorf("status = %s, want deleted", got.Status)
	}
}
