// Package auth fulfills the one contract this platform requires from
// authentication: given a request, produce a (userID, role) pair or none.
package auth

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
	"github.com/puneethvarma-001/worksense-sub000/internal/utils"
)

// Principal is the authenticated caller: who they are and what role they
// hold within the resolved tenant.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   rbac.Role
}

// UserDirectory holds the seed users for the demo tenants, one per role.
// Password hashes are computed once at construction; the shared demo
// password is "worksense".
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]*models.User // key: subdomain + "/" + email
}

const demoPassword = "worksense"

func userKey(subdomain, email string) string {
	return subdomain + "/" + email
}

// NewUserDirectory builds the demo user set for the given tenants.
func NewUserDirectory(tenants []models.Tenant) *UserDirectory {
	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		// bcrypt only fails on invalid cost; the default cost is valid.
		log.Fatal().Err(err).Msg("failed to hash demo password")
	}

	seedRoles := []struct {
		prefix string
		name   string
		role   rbac.Role
	}{
		{"admin", "Platform Admin", rbac.RolePlatformAdmin},
		{"hr", "HR Lead", rbac.RoleHR},
		{"manager", "Team Manager", rbac.RoleManager},
		{"employee", "Employee", rbac.RoleEmployee},
		{"recruiter", "Talent Acquisition", rbac.RoleTalentAcquisition},
	}

	d := &UserDirectory{users: make(map[string]*models.User)}
	for _, t := range tenants {
		for _, seed := range seedRoles {
			email := seed.prefix + "@" + t.Subdomain + ".test"
			u := &models.User{
				ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte(userKey(t.Subdomain, email))),
				Email:        email,
				FullName:     seed.name,
				PasswordHash: hash,
				Subdomain:    t.Subdomain,
				Role:         string(seed.role),
			}
			d.users[userKey(t.Subdomain, email)] = u
		}
	}
	return d
}

// FindByEmail returns the user registered under the tenant with the email.
func (d *UserDirectory) FindByEmail(subdomain, email string) (*models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[userKey(subdomain, utils.NormalizeEmail(email))]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

// Authenticate verifies the user's password and returns the matching
// principal, or nil when the credentials do not match.
func (d *UserDirectory) Authenticate(subdomain, email, password string) *Principal {
	u, ok := d.FindByEmail(subdomain, email)
	if !ok {
		return nil
	}
	if !utils.CheckPasswordHash(password, u.PasswordHash) {
		return nil
	}
	role, ok := rbac.ParseRole(u.Role)
	if !ok {
		return nil
	}
	return &Principal{UserID: u.ID, Email: u.Email, Role: role}
}
