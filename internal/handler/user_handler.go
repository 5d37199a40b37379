package handler

import (
	"errors"
	"net/http"

	"refearn/internal/domain"
	"refearn/internal/repository"
	"refearn/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	registry *service.RegistryService
	users    *repository.UserRepository
}

func NewUserHandler(registry *service.RegistryService, users *repository.UserRepository) *UserHandler {
	return &UserHandler{registry: registry, users: users}
}

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	ReferrerID *uint  `json:"referrer_id"`
}

// Register handles POST /api/users. An already-registered email logs in as
// the existing user instead of erroring.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a valid email are required"})
		return
	}
	user, existing, err := h.registry.Register(c.Request.Context(), req.Name, req.Email, req.ReferrerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "referrer not found"})
		case errors.Is(err, domain.ErrReferralLimit):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register user"})
		}
		return
	}
	if existing {
		c.JSON(http.StatusOK, gin.H{"message": "user already exists, logging in", "user": user})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created", "user": user})
}

// GetByName handles GET /api/user?name=.
func (h *UserHandler) GetByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	user, err := h.users.GetByName(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListReferrals handles GET /api/referrals?name=, returning the user's
// direct (level 1) and indirect (level 2) referrals.
func (h *UserHandler) ListReferrals(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	user, err := h.users.GetByName(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	level1, level2, err := h.users.ListReferrals(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list referrals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":   gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
		"level1": level1,
		"level2": level2,
	})
}
