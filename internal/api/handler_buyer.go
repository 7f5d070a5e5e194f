package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
)

// GetSavedMachines handles GET /api/buyer/saved, returning the saved
// listings themselves, newest bookmark first.
func (h *Handler) GetSavedMachines(c *gin.Context) {
	user := mw.CurrentUser(c)

	var saved []model.SavedMachine
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Machine").
		Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&saved).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved machines."})
		return
	}

	machines := make([]model.Machine, 0, len(saved))
	for _, entry := range saved {
		if entry.Machine.ID != 0 {
			machines = append(machines, entry.Machine)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": machines})
}

// CheckSavedMachine handles GET /api/buyer/saved/:machineId.
func (h *Handler) CheckSavedMachine(c *gin.Context) {
	user := mw.CurrentUser(c)

	machineID, err := strconv.ParseUint(c.Param("machineId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"saved": false}})
		return
	}

	var count int64
	err = h.store.DB().WithContext(c.Request.Context()).
		Model(&model.SavedMachine{}).
		Where("buyer_id = ? AND machine_id = ?", user.ID, uint(machineID)).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check saved status."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"saved": count > 0}})
}

type saveMachineRequest struct {
	MachineID uint `json:"machineId"`
}

// SaveMachine handles POST /api/buyer/saved. Saving an already-saved
// machine reports alreadySaved instead of failing.
func (h *Handler) SaveMachine(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req saveMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MachineID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid machineId is required."})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var machine model.Machine
	err := db.First(&machine, req.MachineID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save machine."})
		return
	}

	var count int64
	if err := db.Model(&model.SavedMachine{}).
		Where("buyer_id = ? AND machine_id = ?", user.ID, req.MachineID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save machine."})
		return
	}
	if count > 0 {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"alreadySaved": true}})
		return
	}

	saved := model.SavedMachine{BuyerID: user.ID, MachineID: req.MachineID}
	if err := db.Create(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save machine."})
		return
	}
	saved.Machine = machine
	c.JSON(http.StatusCreated, gin.H{"data": saved})
}

// UnsaveMachine handles DELETE /api/buyer/saved/:machineId. Removing an
// absent bookmark is not an error.
func (h *Handler) UnsaveMachine(c *gin.Context) {
	user := mw.CurrentUser(c)

	if machineID, err := strconv.ParseUint(c.Param("machineId"), 10, 64); err == nil {
		err = h.store.DB().WithContext(c.Request.Context()).
			Where("buyer_id = ? AND machine_id = ?", user.ID, uint(machineID)).
			Delete(&model.SavedMachine{}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove saved machine."})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createLeadRequest struct {
	MachineID uint   `json:"machineId"`
	Message   string `json:"message"`
}

// CreateLead handles POST /api/buyer/lead.
func (h *Handler) CreateLead(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MachineID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid machineId is required."})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var machine model.Machine
	err := db.First(&machine, req.MachineID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Machine not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead."})
		return
	}

	lead := model.Lead{
		BuyerID:   user.ID,
		MachineID: machine.ID,
		Message:   strings.TrimSpace(req.Message),
		Status:    model.LeadNew,
	}
	if machine.OwnerUserID != 0 {
		ownerID := machine.OwnerUserID
		lead.MSMEID = &ownerID
	}
	if err := db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": lead})
}
