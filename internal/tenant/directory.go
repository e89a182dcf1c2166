// Package tenant resolves subdomains to tenant organizations and owns their
// lifecycle: a Redis-fronted directory over an authoritative store.
package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// Cache is the fronting key-value cache. Satisfied by cache.Client; tests
// substitute an in-memory fake. A nil Cache disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Directory looks up and mutates tenant records. Reads go through the cache
// when one is configured; cache failures are absorbed and the authoritative
// store answers instead, losing only the speedup.
type Directory struct {
	store Store
	cache Cache
	ttl   time.Duration
}

func NewDirectory(store Store, cache Cache, ttl time.Duration) *Directory {
	return &Directory{store: store, cache: cache, ttl: ttl}
}

func cacheKey(subdomain string) string {
	return "tenant:" + subdomain
}

// GetBySubdomain returns the tenant registered at the subdomain, or
// ErrTenantNotFound. The returned record is a snapshot the caller owns.
func (d *Directory) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if d.cache != nil {
		raw, ok, err := d.cache.Get(ctx, cacheKey(subdomain))
		if err != nil {
			log.Warn().Err(err).Str("subdomain", subdomain).Msg("tenant cache read failed, falling back to store")
		} else if ok {
			var t models.Tenant
			if err := json.Unmarshal([]byte(raw), &t); err == nil {
				return &t, nil
			}
			log.Warn().Str("subdomain", subdomain).Msg("corrupt tenant cache entry, falling back to store")
		}
	}

	t, err := d.store.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	d.cachePut(ctx, t)
	return t, nil
}

// Create registers a new organization. New tenants start active on the
// starter tier. Duplicate subdomains are rejected with ErrSubdomainTaken.
func (d *Directory) Create(ctx context.Context, subdomain, name, icon string) (*models.Tenant, error) {
	now := time.Now().UTC()
	t := &models.Tenant{
		ID:        subdomain,
		Subdomain: subdomain,
		Name:      name,
		Icon:      icon,
		Status:    models.TenantStatusActive,
		Tier:      models.TierStarter,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := d.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	d.cachePut(ctx, t)
	return t, nil
}

// Update merges the partial update onto the existing record, preserving id,
// subdomain and created_at, and bumps updated_at. Returns ErrTenantNotFound
// when the tenant does not exist.
func (d *Directory) Update(ctx context.Context, id string, update models.TenantUpdate) (*models.Tenant, error) {
	t, err := d.store.GetBySubdomain(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Icon != nil {
		t.Icon = *update.Icon
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Tier != nil {
		t.Tier = *update.Tier
	}
	t.UpdatedAt = time.Now().UTC()

	if err := d.store.Update(ctx, t); err != nil {
		return nil, err
	}

	d.cachePut(ctx, t)
	return t, nil
}

func (d *Directory) cachePut(ctx context.Context, t *models.Tenant) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, cacheKey(t.Subdomain), string(raw), d.ttl); err != nil {
		log.Warn().Err(err).Str("subdomain", t.Subdomain).Msg("failed to cache tenant")
	}
}
