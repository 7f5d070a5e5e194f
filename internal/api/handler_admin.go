package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"induslink-backend/internal/model"
)

// sellerContact is the seller projection shown in the review queue. The
// admin sees registration details the public profile omits.
type sellerContact struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	GSTIN       string `json:"gstin"`
	Industry    string `json:"industry"`
	SubIndustry string `json:"subIndustry"`
}

type queueEntry struct {
	draftResponse
	Seller sellerContact `json:"seller"`
}

// GetVerificationQueue handles GET /api/admin/verify-machines with an
// optional status filter.
func (h *Handler) GetVerificationQueue(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", model.VerificationPending, model.VerificationApproved, model.VerificationRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status."})
		return
	}

	drafts, err := h.engine.ListQueue(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load verification queue."})
		return
	}

	entries := make([]queueEntry, 0, len(drafts))
	for i := range drafts {
		seller := drafts[i].Seller
		entries = append(entries, queueEntry{
			draftResponse: newDraftResponse(&drafts[i]),
			Seller: sellerContact{
				ID:          seller.ID,
				Name:        seller.Name,
				CompanyName: seller.CompanyName,
				Email:       seller.Email,
				Phone:       seller.Phone,
				Location:    seller.Location,
				GSTIN:       seller.GSTIN,
				Industry:    seller.Industry,
				SubIndustry: seller.SubIndustry,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// SendAdminMessage handles POST /api/admin/verify-machines/:verificationId/message.
func (h *Handler) SendAdminMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("verificationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found."})
		return
	}

	var req conversationMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required."})
		return
	}

	draft, err := h.engine.AdminMessage(c.Request.Context(), uint(id), req.Content, req.Priority)
	if err != nil {
		verifyError(c, err, "Failed to send message.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": newDraftResponse(draft), "message": "Question sent to seller."})
}

type reviewRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

// ReviewVerification handles PATCH /api/admin/verify-machines/:verificationId:
// the approve/reject decision.
func (h *Handler) ReviewVerification(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("verificationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found."})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status."})
		return
	}

	switch req.Status {
	case model.VerificationApproved:
		result, err := h.engine.Approve(c.Request.Context(), uint(id))
		if err != nil {
			verifyError(c, err, "Failed to update verification.")
			return
		}
		if result.AlreadyApproved {
			c.JSON(http.StatusOK, gin.H{
				"data":    gin.H{"verification": newDraftResponse(result.Draft), "machine": result.Machine},
				"message": "Machine verification already approved.",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":    gin.H{"verification": newDraftResponse(result.Draft), "machine": result.Machine},
			"message": "Machine verified and published.",
		})
	case model.VerificationRejected:
		draft, err := h.engine.Reject(c.Request.Context(), uint(id), req.RejectionReason)
		if err != nil {
			verifyError(c, err, "Failed to update verification.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": newDraftResponse(draft), "message": "Machine verification rejected."})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status."})
	}
}
