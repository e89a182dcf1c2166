package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puneethvarma-001/worksense-sub000/internal/features"
	"github.com/puneethvarma-001/worksense-sub000/internal/middleware"
	"github.com/puneethvarma-001/worksense-sub000/internal/models"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenant"
	"github.com/puneethvarma-001/worksense-sub000/internal/utils"
)

// TenantHandler exposes organization signup and administration.
type TenantHandler struct {
	dir   *tenant.Directory
	flags *features.Service
}

func NewTenantHandler(dir *tenant.Directory, flags *features.Service) *TenantHandler {
	return &TenantHandler{dir: dir, flags: flags}
}

// Create handles organization signup. New tenants start active on the
// starter tier; duplicate subdomains are rejected.
func (h *TenantHandler) Create(c *gin.Context) {
	var req models.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subdomain := utils.NormalizeSubdomain(req.Subdomain)
	if subdomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subdomain"})
		return
	}

	t, err := h.dir.Create(c.Request.Context(), subdomain, req.Name, req.Icon)
	if errors.Is(err, tenant.ErrSubdomainTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "subdomain already taken"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tenant"})
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Update merges a partial update onto the current tenant.
func (h *TenantHandler) Update(c *gin.Context) {
	t, ok := middleware.CurrentTenant(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	var update models.TenantUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.dir.Update(c.Request.Context(), t.ID, update)
	if errors.Is(err, tenant.ErrTenantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tenant"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetConfig returns the tenant record plus its resolved feature set, used
// by the frontend to configure itself in one round trip.
func (h *TenantHandler) GetConfig(c *gin.Context) {
	t, ok := middleware.CurrentTenant(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":   t,
		"features": h.flags.GetAll(c.Request.Context(), t.ID, t.Tier),
	})
}
