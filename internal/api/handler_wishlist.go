package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
)

type wishlistRequest struct {
	MachineID uint `json:"machineId"`
}

// AddToWishlist handles POST /api/msme/wishlist. Unlike the saved-machine
// surface, adding a duplicate here is an error.
func (h *Handler) AddToWishlist(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MachineID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "machineId required."})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var count int64
	if err := db.Model(&model.Wishlist{}).
		Where("buyer_id = ? AND machine_id = ?", user.ID, req.MachineID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist."})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Machine already in wishlist."})
		return
	}

	entry := model.Wishlist{BuyerID: user.ID, MachineID: req.MachineID}
	if err := db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

// GetWishlist handles GET /api/msme/wishlist, newest entries first with
// the machine embedded.
func (h *Handler) GetWishlist(c *gin.Context) {
	user := mw.CurrentUser(c)

	var entries []model.Wishlist
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Machine").
		Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// RemoveFromWishlist handles DELETE /api/msme/wishlist/:machineId.
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	user := mw.CurrentUser(c)

	if machineID, err := strconv.ParseUint(c.Param("machineId"), 10, 64); err == nil {
		err = h.store.DB().WithContext(c.Request.Context()).
			Where("buyer_id = ? AND machine_id = ?", user.ID, uint(machineID)).
			Delete(&model.Wishlist{}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist."})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist."})
}
