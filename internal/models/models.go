package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant. Tenants are
// never hard-deleted, only transitioned to "deleted".
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusDeleted   TenantStatus = "deleted"
)

// SubscriptionTier represents a tenant's subscription level. Tiers gate
// which feature flags are purchasable at all.
type SubscriptionTier string

const (
	TierStarter      SubscriptionTier = "starter"
	TierProfessional SubscriptionTier = "professional"
	TierEnterprise   SubscriptionTier = "enterprise"
)

// ParseTier maps a raw string onto a known tier.
func ParseTier(s string) (SubscriptionTier, bool) {
	switch SubscriptionTier(s) {
	case TierStarter, TierProfessional, TierEnterprise:
		return SubscriptionTier(s), true
	}
	return "", false
}

// Tenant is one customer organization. The ID is the subdomain: tenants
// are identified by where they are served.
type Tenant struct {
	ID        string           `json:"id"`
	Subdomain string           `json:"subdomain"`
	Name      string           `json:"name"`
	Icon      string           `json:"icon,omitempty"`
	Status    TenantStatus     `json:"status"`
	Tier      SubscriptionTier `json:"tier"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Clone returns an independent copy, used wherever a request must hold a
// snapshot rather than a live record.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// TenantUpdate carries the mutable subset of a tenant record. Nil fields
// are left untouched; id, subdomain and created_at are never updated.
type TenantUpdate struct {
	Name   *string           `json:"name,omitempty"`
	Icon   *string           `json:"icon,omitempty"`
	Status *TenantStatus     `json:"status,omitempty"`
	Tier   *SubscriptionTier `json:"tier,omitempty"`
}

// User is a seed HR-platform user scoped to one tenant.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Subdomain    string    `json:"subdomain"`
	Role         string    `json:"role"`
}
