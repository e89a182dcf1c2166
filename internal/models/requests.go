package models

// CreateTenantRequest is the organization signup payload.
type CreateTenantRequest struct {
	Subdomain string `json:"subdomain" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
}

// LoginRequest authenticates a tenant user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SetOverrideRequest toggles a feature flag for one tenant.
type SetOverrideRequest struct {
	Enabled bool `json:"enabled"`
}
