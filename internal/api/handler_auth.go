package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"induslink-backend/internal/auth"
	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	SubIndustry string `json:"subIndustry"`
	Location    string `json:"location"`
	GSTIN       string `json:"gstin"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterBuyer handles POST /api/auth/register-buyer.
func (h *Handler) RegisterBuyer(c *gin.Context) {
	h.register(c, model.RoleBuyer)
}

// RegisterMSME handles POST /api/auth/register-msme.
func (h *Handler) RegisterMSME(c *gin.Context) {
	h.register(c, model.RoleMSME)
}

// RegisterSupplier handles POST /api/auth/register-supplier.
func (h *Handler) RegisterSupplier(c *gin.Context) {
	h.register(c, model.RoleSupplier)
}

func (h *Handler) register(c *gin.Context, role string) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.CompanyName = strings.TrimSpace(req.CompanyName)

	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Phone == "" {
		missing = append(missing, "phone")
	}
	if role == model.RoleSupplier && req.CompanyName == "" {
		missing = append(missing, "companyName")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields.", "missing": missing})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters."})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var existing model.User
	err := db.First(&existing, "email = ?", req.Email).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered."})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed."})
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Auth.BCryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed."})
		return
	}

	user := model.User{
		Role:         role,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		SubIndustry:  req.SubIndustry,
		Location:     req.Location,
		GSTIN:        req.GSTIN,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed."})
		return
	}

	token, err := h.sessions.Tokens().Sign(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed."})
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login handles POST /api/auth/login. The optional role field gates the
// session onto a portal: a mismatching role is rejected before the
// password is even checked.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	var user model.User
	err := h.store.DB().WithContext(c.Request.Context()).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed."})
		return
	}

	if req.Role != "" && !model.RolesMatch(req.Role, user.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Role mismatch."})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	}

	token, err := h.sessions.Tokens().Sign(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed."})
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	user := mw.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// Logout handles POST /api/auth/logout. Stateless tokens cannot be
// revoked; clearing the cookie is the whole operation.
func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
