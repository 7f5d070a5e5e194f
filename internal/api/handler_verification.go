package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"induslink-backend/internal/mw"
	"induslink-backend/internal/verify"
)

// SubmitVerification handles POST /api/supplier/verify-machine.
func (h *Handler) SubmitVerification(c *gin.Context) {
	user := mw.CurrentUser(c)

	var in verify.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.engine.Submit(c.Request.Context(), user.ID, in)
	if err != nil {
		verifyError(c, err, "Failed to submit machine.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newDraftResponse(draft), "message": "Machine submitted for verification."})
}

// GetOwnVerifications handles GET /api/supplier/verify-machines.
func (h *Handler) GetOwnVerifications(c *gin.Context) {
	user := mw.CurrentUser(c)

	drafts, err := h.engine.ListForSeller(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load verification machines."})
		return
	}

	responses := make([]draftResponse, 0, len(drafts))
	for i := range drafts {
		responses = append(responses, newDraftResponse(&drafts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// DeleteVerification handles DELETE /api/supplier/verify-machines/:machineId.
func (h *Handler) DeleteVerification(c *gin.Context) {
	user := mw.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("machineId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found."})
		return
	}

	if err := h.engine.Delete(c.Request.Context(), user.ID, uint(id)); err != nil {
		verifyError(c, err, "Failed to delete machine verification.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Machine verification deleted."})
}

type conversationMessageRequest struct {
	Content  string `json:"content"`
	Priority *bool  `json:"priority"`
}

// ReplyToAdmin handles POST /api/supplier/verify-machines/:machineId/message.
func (h *Handler) ReplyToAdmin(c *gin.Context) {
	user := mw.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("machineId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found."})
		return
	}

	var req conversationMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required."})
		return
	}

	draft, err := h.engine.SellerMessage(c.Request.Context(), user.ID, uint(id), req.Content)
	if err != nil {
		verifyError(c, err, "Failed to send reply.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newDraftResponse(draft), "message": "Reply sent to admin."})
}
