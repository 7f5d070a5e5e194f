package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
)

// GetOwnMachines handles GET /api/supplier/machines.
func (h *Handler) GetOwnMachines(c *gin.Context) {
	user := mw.CurrentUser(c)
	machines, err := h.store.ListMachinesByOwner(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load machines."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": machines})
}

type createMachineRequest struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	IndustrySlug    string       `json:"industrySlug"`
	SubIndustrySlug string       `json:"subIndustrySlug"`
	Manufacturer    string       `json:"manufacturer"`
	Features        []string     `json:"features"`
	Specs           []model.Spec `json:"specs"`
	Photos          []string     `json:"photos"`
	MinOrderQty     string       `json:"minOrderQty"`
	LeadTimeDays    string       `json:"leadTimeDays"`
	Condition       string       `json:"condition"`
	PriceRange      string       `json:"priceRange"`
	WarrantyMonths  *int         `json:"warrantyMonths"`
}

// CreateMachine handles POST /api/supplier/machines: the direct,
// unverified publication path. Verified listings only ever come out of
// the admin approval flow.
func (h *Handler) CreateMachine(c *gin.Context) {
	user := mw.CurrentUser(c)

	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.IndustrySlug = strings.TrimSpace(req.IndustrySlug)
	req.SubIndustrySlug = strings.TrimSpace(req.SubIndustrySlug)
	req.Manufacturer = strings.TrimSpace(req.Manufacturer)

	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if req.IndustrySlug == "" {
		missing = append(missing, "industrySlug")
	}
	if req.SubIndustrySlug == "" {
		missing = append(missing, "subIndustrySlug")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields.", "missing": missing})
		return
	}

	manufacturer := req.Manufacturer
	if manufacturer == "" {
		manufacturer = user.CompanyName
	}
	warranty := req.WarrantyMonths
	if warranty != nil && *warranty < 0 {
		warranty = nil
	}

	machine := model.Machine{
		Name:            req.Name,
		Description:     req.Description,
		IndustrySlug:    req.IndustrySlug,
		SubIndustrySlug: req.SubIndustrySlug,
		OwnerUserID:     user.ID,
		Manufacturer:    manufacturer,
		Verified:        false,
		Features:        model.CleanStrings(req.Features),
		Specs:           model.CleanSpecs(req.Specs),
		Photos:          model.CleanStrings(req.Photos),
		MinOrderQty:     strings.TrimSpace(req.MinOrderQty),
		LeadTimeDays:    strings.TrimSpace(req.LeadTimeDays),
		Condition:       model.NormalizeCondition(strings.TrimSpace(req.Condition)),
		PriceRange:      strings.TrimSpace(req.PriceRange),
		WarrantyMonths:  warranty,
	}
	if err := h.store.CreateMachine(c.Request.Context(), &machine); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create machine."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": machine})
}

type leadResponse struct {
	model.Lead
	Buyer   model.PublicProfile `json:"buyer"`
	Machine machineRef          `json:"machine"`
}

// GetLeads handles GET /api/supplier/leads: leads against any of the
// supplier's machines, with buyer contact details attached.
func (h *Handler) GetLeads(c *gin.Context) {
	user := mw.CurrentUser(c)
	db := h.store.DB().WithContext(c.Request.Context())

	var machineIDs []uint
	if err := db.Model(&model.Machine{}).
		Where("owner_user_id = ?", user.ID).
		Pluck("id", &machineIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leads."})
		return
	}
	if len(machineIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"data": []leadResponse{}})
		return
	}

	var leads []model.Lead
	err := db.Preload("Buyer").Preload("Machine").
		Where("machine_id IN ?", machineIDs).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leads."})
		return
	}

	responses := make([]leadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, leadResponse{
			Lead:    lead,
			Buyer:   lead.Buyer.Public(),
			Machine: newMachineRef(&lead.Machine),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}
