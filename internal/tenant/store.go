package tenant

import (
	"context"
	"sync"
	"time"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// Store is the authoritative source of tenant records behind the directory
// cache. The in-memory seed store serves development and tests; the
// Postgres store is the production driver.
type Store interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	Insert(ctx context.Context, t *models.Tenant) error
	Update(ctx context.Context, t *models.Tenant) error
}

// MemoryStore is a mutex-guarded in-process store.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]*models.Tenant
}

// NewMemoryStore creates a store preloaded with the given tenants.
func NewMemoryStore(seed ...models.Tenant) *MemoryStore {
	s := &MemoryStore{tenants: make(map[string]*models.Tenant, len(seed))}
	for i := range seed {
		t := seed[i]
		s.tenants[t.Subdomain] = &t
	}
	return s
}

func (s *MemoryStore) GetBySubdomain(_ context.Context, subdomain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[subdomain]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Insert(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tenants[t.Subdomain]; exists {
		return ErrSubdomainTaken
	}
	s.tenants[t.Subdomain] = t.Clone()
	return nil
}

func (s *MemoryStore) Update(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tenants[t.Subdomain]; !exists {
		return ErrTenantNotFound
	}
	s.tenants[t.Subdomain] = t.Clone()
	return nil
}

// SeedTenants returns the demo organizations loaded into the memory store.
func SeedTenants() []models.Tenant {
	now := time.Now().UTC()
	return []models.Tenant{
		{
			ID:        "acme",
			Subdomain: "acme",
			Name:      "Acme Corp",
			Icon:      "🏢",
			Status:    models.TenantStatusActive,
			Tier:      models.TierEnterprise,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "globex",
			Subdomain: "globex",
			Name:      "Globex Industries",
			Icon:      "🌐",
			Status:    models.TenantStatusActive,
			Tier:      models.TierProfessional,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "initech",
			Subdomain: "initech",
			Name:      "Initech",
			Icon:      "📎",
			Status:    models.TenantStatusActive,
			Tier:      models.TierStarter,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
