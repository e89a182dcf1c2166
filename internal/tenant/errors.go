package tenant

import "errors"

var (
	// ErrTenantNotFound means no tenant exists for the subdomain. Callers
	// at the HTTP edge treat this as "fall through to the marketing site",
	// not a server fault.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantInactive means the tenant exists but its status is not
	// active (suspended or deleted).
	ErrTenantInactive = errors.New("tenant is not active")

	// ErrSubdomainTaken is returned by Create when the subdomain is
	// already registered. Signup is first-come-first-served, never an
	// overwrite.
	ErrSubdomainTaken = errors.New("subdomain already taken")
)
