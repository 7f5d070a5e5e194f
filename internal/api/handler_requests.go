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

const defaultRequestGreeting = "Hi! I'm interested in this machine. Please share pricing, MOQ, and delivery timeline."

type requestMachineRequest struct {
	MachineID    uint   `json:"machineId"`
	BuyerMessage string `json:"buyerMessage"`
}

// RequestMachine handles POST /api/msme/request-machine: records the
// request, opens the buyer/seller conversation with an initial message
// and notifies the seller.
func (h *Handler) RequestMachine(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req requestMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MachineID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "machineId required."})
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request machine."})
		return
	}
	if machine.OwnerUserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seller not found for this machine."})
		return
	}

	request := model.MachineRequest{
		BuyerID:      user.ID,
		MachineID:    machine.ID,
		SellerID:     machine.OwnerUserID,
		Status:       model.RequestPending,
		BuyerMessage: req.BuyerMessage,
	}

	initialContent := strings.TrimSpace(req.BuyerMessage)
	if initialContent == "" {
		initialContent = defaultRequestGreeting
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		message := model.Message{
			SenderID:         user.ID,
			RecipientID:      machine.OwnerUserID,
			MachineRequestID: &request.ID,
			Content:          initialContent,
			SenderRole:       "buyer",
		}
		return tx.Create(&message).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request machine."})
		return
	}

	h.notifier.Emit(c.Request.Context(), model.Notification{
		UserID:    machine.OwnerUserID,
		Type:      model.NotifRequestReceived,
		Title:     "New Machine Request",
		Message:   user.Label() + " has requested your machine.",
		RelatedID: &request.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"data": request, "message": "Seller has been contacted and will reach you soon!"})
}

type buyerRequestResponse struct {
	model.MachineRequest
	Machine machineRef          `json:"machine"`
	Seller  model.PublicProfile `json:"seller"`
}

// GetOwnRequests handles GET /api/msme/requests.
func (h *Handler) GetOwnRequests(c *gin.Context) {
	user := mw.CurrentUser(c)

	var requests []model.MachineRequest
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Machine").Preload("Seller").
		Where("buyer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests."})
		return
	}

	responses := make([]buyerRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, buyerRequestResponse{
			MachineRequest: request,
			Machine:        newMachineRef(&request.Machine),
			Seller:         request.Seller.Public(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

type sellerRequestResponse struct {
	model.MachineRequest
	Machine machineRef          `json:"machine"`
	Buyer   model.PublicProfile `json:"buyer"`
}

// GetIncomingRequests handles GET /api/supplier/requests: requests
// against any of the supplier's machines.
func (h *Handler) GetIncomingRequests(c *gin.Context) {
	user := mw.CurrentUser(c)

	var requests []model.MachineRequest
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Machine").Preload("Buyer").
		Where("seller_id = ?", user.ID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load requests."})
		return
	}

	responses := make([]sellerRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, sellerRequestResponse{
			MachineRequest: request,
			Machine:        newMachineRef(&request.Machine),
			Buyer:          request.Buyer.Public(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

type updateRequestRequest struct {
	Status string `json:"status"`
}

// UpdateRequest handles PATCH /api/supplier/requests/:requestId. Only the
// receiving seller may move a request, and the buyer is notified of every
// transition.
func (h *Handler) UpdateRequest(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req updateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case model.RequestApproved, model.RequestRejected, model.RequestContacted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status."})
		return
	}

	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found."})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var request model.MachineRequest
	err = db.Preload("Buyer").Preload("Machine").First(&request, uint(requestID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request."})
		return
	}
	if request.SellerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden."})
		return
	}

	if err := db.Model(&request).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request."})
		return
	}

	notifType := model.NotifNewMessage
	title := "Seller Contacted"
	message := "Seller has contacted you!"
	switch req.Status {
	case model.RequestApproved:
		notifType = model.NotifRequestApproved
		title = "Request Approved"
		message = "Your machine request has been approved!"
	case model.RequestRejected:
		notifType = model.NotifRequestRejected
		title = "Request Rejected"
		message = "Your machine request has been rejected."
	}
	h.notifier.Emit(c.Request.Context(), model.Notification{
		UserID:    request.BuyerID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: &request.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": sellerRequestResponse{
			MachineRequest: request,
			Machine:        newMachineRef(&request.Machine),
			Buyer:          request.Buyer.Public(),
		},
		"message": "Request " + req.Status + ".",
	})
}
