package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fooddelight/logger"
	"fooddelight/models"
	"fooddelight/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=100"`
	Phone   string `json:"phone" binding:"required,min=5,max=20"`
	Address string `json:"address" binding:"max=255"`
}

// LoginRequest covers all three roles. Customers sign in with email or name
// plus phone, partners with name plus phone, the admin with username or email
// plus password.
type LoginRequest struct {
	Role     models.UserRole `json:"role" binding:"required,oneof=user partner admin"`
	Login    string          `json:"login" binding:"required"`
	Phone    string          `json:"phone" binding:"required_unless=Role admin,max=20"`
	Password string          `json:"password" binding:"required_if=Role admin"`
}

// Register creates a customer account and signs it in
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email or phone already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}

	user := models.User{Name: strings.TrimSpace(req.Name), Email: req.Email, Phone: req.Phone, Address: req.Address}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		respondError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("user registered", zap.Uint("user_id", user.UserID))

	h.startSession(c, http.StatusCreated, "Account created successfully", userIdentity(user))
}

// Login authenticates a customer, partner or admin and returns a session token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	login := strings.TrimSpace(req.Login)

	var identity session.Identity
	switch req.Role {
	case models.RoleUser:
		var user models.User
		err := h.db.WithContext(ctx).
			Where("(email = ? OR name = ?) AND phone = ?", strings.ToLower(login), login, req.Phone).
			First(&user).Error
		if err != nil {
			h.loginFailed(c, err, "Invalid email/name or phone")
			return
		}
		identity = userIdentity(user)
	case models.RolePartner:
		var partner models.DeliveryPartner
		err := h.db.WithContext(ctx).
			Where("name = ? AND phone = ?", login, req.Phone).
			First(&partner).Error
		if err != nil {
			h.loginFailed(c, err, "Invalid partner name or phone")
			return
		}
		identity = session.Identity{Role: models.RolePartner, PartnerID: partner.PartnerID, Name: partner.Name, Phone: partner.Phone}
	case models.RoleAdmin:
		if (login != h.admin.Username && !strings.EqualFold(login, h.admin.Email)) ||
			bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
			return
		}
		identity = session.Identity{Role: models.RoleAdmin, Name: h.admin.Username, Email: h.admin.Email}
	}

	h.startSession(c, http.StatusOK, "Login successful", identity)
}

func (h *Handler) loginFailed(c *gin.Context, err error, msg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	respondError(c, err)
}

func (h *Handler) startSession(c *gin.Context, status int, msg string, identity session.Identity) {
	s := session.New(identity)
	if err := h.sessions.Create(c.Request.Context(), s); err != nil {
		logger.GetGinLogger(c).Error("create session", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
		return
	}
	token, err := h.auth.GenerateToken(s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, gin.H{
		"message": msg,
		"token":   token,
		"user":    identity,
	})
}

// Logout ends the current session; its token stops working immediately
func (h *Handler) Logout(c *gin.Context) {
	s := currentSession(c)
	if err := h.sessions.Delete(c.Request.Context(), s.ID); err != nil {
		logger.GetGinLogger(c).Error("delete session", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns the signed-in identity, refreshed from the database for
// customers and partners
func (h *Handler) GetProfile(c *gin.Context) {
	s := currentSession(c)
	ctx := c.Request.Context()
	switch s.Identity.Role {
	case models.RoleUser:
		var user models.User
		if err := h.db.WithContext(ctx).First(&user, s.Identity.UserID).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": s.Identity.Role, "user": user})
	case models.RolePartner:
		var partner models.DeliveryPartner
		if err := h.db.WithContext(ctx).First(&partner, s.Identity.PartnerID).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": s.Identity.Role, "partner": partner})
	default:
		c.JSON(http.StatusOK, gin.H{"role": s.Identity.Role, "user": s.Identity})
	}
}

func userIdentity(u models.User) session.Identity {
	return session.Identity{
		Role:    models.RoleUser,
		UserID:  u.UserID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
	}
}
