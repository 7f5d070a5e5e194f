package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"induslink-backend/internal/store"
)

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "induslink-api"})
}

// GetIndustries handles GET /api/industries.
func (h *Handler) GetIndustries(c *gin.Context) {
	industries, err := h.store.ListIndustries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load industries."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": industries})
}

// GetIndustry handles GET /api/industries/:slug.
func (h *Handler) GetIndustry(c *gin.Context) {
	industry, err := h.store.GetIndustry(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Industry not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load industry."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": industry})
}

// GetMachines handles GET /api/machines with optional industry,
// subIndustry and verified=true filters.
func (h *Handler) GetMachines(c *gin.Context) {
	filter := store.MachineFilter{
		IndustrySlug:    c.Query("industry"),
		SubIndustrySlug: c.Query("subIndustry"),
		VerifiedOnly:    c.Query("verified") == "true",
	}
	machines, err := h.store.ListMachines(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load machines."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": machines})
}

// GetMachine handles GET /api/machines/:id, resolving by numeric ID or
// catalog slug.
func (h *Handler) GetMachine(c *gin.Context) {
	machine, err := h.store.GetMachine(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load machine."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": machine})
}
