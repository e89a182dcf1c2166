package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/puneethvarma-001/worksense-sub000/internal/config"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
	"github.com/puneethvarma-001/worksense-sub000/internal/utils"
)

// Resolver produces the authenticated principal for a request, or nil when
// the request carries no usable credentials. Resolvers never fail a
// request: an unreadable credential is treated as absent.
type Resolver interface {
	Resolve(r *http.Request, subdomain string) *Principal
}

// DemoCookieName carries the demo session token. The token is base64 JSON
// {email, subdomain, role} with no signature. It exists only so the demo
// can be driven without a login round trip; it is NOT a security mechanism
// and must be replaced, not hardened, in any real deployment.
const DemoCookieName = "demo_session"

type demoToken struct {
	Email     string `json:"email"`
	Subdomain string `json:"subdomain"`
	Role      string `json:"role"`
}

// DemoResolver resolves principals from the demo cookie against the seed
// user directory.
type DemoResolver struct {
	users *UserDirectory
}

func NewDemoResolver(users *UserDirectory) *DemoResolver {
	return &DemoResolver{users: users}
}

func (d *DemoResolver) Resolve(r *http.Request, subdomain string) *Principal {
	cookie, err := r.Cookie(DemoCookieName)
	if err != nil {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var tok demoToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil
	}

	// A token minted for one tenant must not open a session on another.
	if tok.Subdomain != subdomain {
		return nil
	}

	u, ok := d.users.FindByEmail(subdomain, tok.Email)
	if !ok {
		return nil
	}
	role, ok := rbac.ParseRole(tok.Role)
	if !ok {
		return nil
	}

	return &Principal{UserID: u.ID, Email: u.Email, Role: role}
}

// JWTResolver resolves principals from a Bearer session token.
type JWTResolver struct {
	cfg *config.Config
}

func NewJWTResolver(cfg *config.Config) *JWTResolver {
	return &JWTResolver{cfg: cfg}
}

func (j *JWTResolver) Resolve(r *http.Request, subdomain string) *Principal {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	claims, err := utils.ValidateJWT(parts[1], j.cfg)
	if err != nil {
		return nil
	}
	if claims.Subdomain != subdomain {
		return nil
	}
	role, ok := rbac.ParseRole(claims.Role)
	if !ok {
		return nil
	}

	return &Principal{UserID: claims.UserID, Role: role}
}

// ChainResolver tries each resolver in order and returns the first
// principal found.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(r *http.Request, subdomain string) *Principal {
	for _, resolver := range c {
		if p := resolver.Resolve(r, subdomain); p != nil {
			return p
		}
	}
	return nil
}
