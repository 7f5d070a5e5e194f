package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
)

type sendMessageRequest struct {
	RecipientID      uint   `json:"recipientId"`
	Content          string `json:"content"`
	MachineRequestID *uint  `json:"machineRequestId"`
}

// SendMessage handles POST /api/messages. The sender role is derived from
// the session, never trusted from the payload.
func (h *Handler) SendMessage(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipientID == 0 || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipientId and content required."})
		return
	}

	senderRole := "supplier"
	if model.IsBuyerRole(user.Role) {
		senderRole = "buyer"
	}

	message := model.Message{
		SenderID:         user.ID,
		RecipientID:      req.RecipientID,
		MachineRequestID: req.MachineRequestID,
		Content:          req.Content,
		SenderRole:       senderRole,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message."})
		return
	}

	h.notifier.Emit(c.Request.Context(), model.Notification{
		UserID:    req.RecipientID,
		Type:      model.NotifNewMessage,
		Title:     "New Message",
		Message:   user.Label() + " sent you a message.",
		RelatedID: &message.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"data": message})
}

type messageResponse struct {
	model.Message
	Sender    model.PublicProfile `json:"sender"`
	Recipient model.PublicProfile `json:"recipient"`
}

// GetThread handles GET /api/messages/:userId: the two-party thread
// between the current user and the counterpart, oldest first.
func (h *Handler) GetThread(c *gin.Context) {
	user := mw.CurrentUser(c)

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"data": []messageResponse{}})
		return
	}

	var messages []model.Message
	err = h.store.DB().WithContext(c.Request.Context()).
		Preload("Sender").Preload("Recipient").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			user.ID, uint(otherID), uint(otherID), user.ID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages."})
		return
	}

	responses := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, messageResponse{
			Message:   message,
			Sender:    message.Sender.Public(),
			Recipient: message.Recipient.Public(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

type conversationResponse struct {
	model.Message
	OtherUser model.PublicProfile `json:"otherUser"`
}

// GetConversations handles GET /api/conversations: the most recent
// message per counterpart, newest conversation first.
func (h *Handler) GetConversations(c *gin.Context) {
	user := mw.CurrentUser(c)
	db := h.store.DB().WithContext(c.Request.Context())

	var messages []model.Message
	err := db.Where("sender_id = ? OR recipient_id = ?", user.ID, user.ID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversations."})
		return
	}

	latest := make(map[uint]model.Message)
	var order []uint
	for _, message := range messages {
		otherID := message.SenderID
		if otherID == user.ID {
			otherID = message.RecipientID
		}
		if _, seen := latest[otherID]; !seen {
			latest[otherID] = message
			order = append(order, otherID)
		}
	}

	var counterparts []model.User
	if len(order) > 0 {
		if err := db.Find(&counterparts, order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversations."})
			return
		}
	}
	profiles := make(map[uint]model.PublicProfile, len(counterparts))
	for i := range counterparts {
		profiles[counterparts[i].ID] = counterparts[i].Public()
	}

	responses := make([]conversationResponse, 0, len(order))
	for _, otherID := range order {
		responses = append(responses, conversationResponse{
			Message:   latest[otherID],
			OtherUser: profiles[otherID],
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}
