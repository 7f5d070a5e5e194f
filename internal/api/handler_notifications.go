package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
)

// GetNotifications handles GET /api/notifications: priority entries
// first, then newest first.
func (h *Handler) GetNotifications(c *gin.Context) {
	user := mw.CurrentUser(c)

	var notifications []model.Notification
	err := h.store.DB().WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("priority DESC, created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkNotificationRead handles PATCH /api/notifications/:notificationId/read.
// Scoped to the caller: one user cannot mark another's notifications.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user := mw.CurrentUser(c)

	notificationID, err := strconv.ParseUint(c.Param("notificationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found."})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var notification model.Notification
	err = db.Where("user_id = ?", user.ID).First(&notification, uint(notificationID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read."})
		return
	}

	if err := db.Model(&notification).Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notification})
}
