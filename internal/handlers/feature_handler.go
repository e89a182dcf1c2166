package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puneethvarma-001/worksense-sub000/internal/features"
	"github.com/puneethvarma-001/worksense-sub000/internal/middleware"
	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// FeatureHandler exposes flag checks and per-tenant overrides to the UI and
// to administrative tooling.
type FeatureHandler struct {
	svc *features.Service
}

func NewFeatureHandler(svc *features.Service) *FeatureHandler {
	return &FeatureHandler{svc: svc}
}

// List evaluates every flag for the current tenant.
func (h *FeatureHandler) List(c *gin.Context) {
	t, ok := middleware.CurrentTenant(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	c.JSON(http.StatusOK, h.svc.GetAll(c.Request.Context(), t.ID, t.Tier))
}

// GetConfig returns a flag's registry entry.
func (h *FeatureHandler) GetConfig(c *gin.Context) {
	flag := features.Flag(c.Param("flag"))
	cfg, ok := features.GetConfig(flag)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown feature flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"flag": flag, "config": cfg})
}

// SetOverride toggles a flag for the current tenant. The override carries a
// bounded TTL and takes effect on the next check.
func (h *FeatureHandler) SetOverride(c *gin.Context) {
	t, ok := middleware.CurrentTenant(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tenant not resolved"})
		return
	}

	var req models.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flag := features.Flag(c.Param("flag"))
	if err := h.svc.SetOverride(c.Request.Context(), flag, t.ID, req.Enabled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flag":    flag,
		"tenant":  t.ID,
		"enabled": req.Enabled,
	})
}
