package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puneethvarma-001/worksense-sub000/internal/auth"
	"github.com/puneethvarma-001/worksense-sub000/internal/config"
	"github.com/puneethvarma-001/worksense-sub000/internal/middleware"
	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenantctx"
	"github.com/puneethvarma-001/worksense-sub000/internal/utils"
)

// AuthHandler authenticates users within a resolved tenant.
type AuthHandler struct {
	users *auth.UserDirectory
	cfg   *config.Config
}

func NewAuthHandler(users *auth.UserDirectory, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg}
}

// Login verifies credentials against the tenant's users and issues a
// session token.
func (h *AuthHandler) Login(c *gin.Context) {
	t, ok := middleware.CurrentTenant(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := h.users.Authenticate(t.Subdomain, utils.NormalizeEmail(req.Email), req.Password)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(principal.UserID, string(principal.Role), t.Subdomain, h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	user, ok := h.users.FindByEmail(t.Subdomain, principal.Email)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user record not found"})
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// Me returns the caller's tenant context: who they are, their role, and
// the permissions the role grants.
func (h *AuthHandler) Me(c *gin.Context) {
	tc := tenantctx.FromContext(c.Request.Context())
	if tc == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":      tc.Tenant(),
		"user_id":     tc.UserID(),
		"role":        tc.Role(),
		"permissions": tc.Permissions(),
	})
}
