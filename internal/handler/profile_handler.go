package handler

import (
	"net/http"

	"pawpals/internal/middleware"
	"pawpals/internal/models"
	"pawpals/internal/repository"
	"pawpals/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users   *repository.UserRepository
	avatars service.AvatarResolver // optional
}

func NewProfileHandler(users *repository.UserRepository, avatars service.AvatarResolver) *ProfileHandler {
	return &ProfileHandler{users: users, avatars: avatars}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": h.response(u)})
}

// UpdateProfile creates the profile row on first write; the account itself
// lives with the identity provider.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		DogName   *string `json:"dog_name"`
		DogBreed  *string `json:"dog_breed"`
		DogAge    *int    `json:"dog_age"`
		AvatarRef *string `json:"avatar_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if u == nil {
		email, _ := c.Get("email")
		u = &models.User{ID: userID, Email: email.(string)}
	}
	if req.DogName != nil {
		u.DogName = req.DogName
	}
	if req.DogBreed != nil {
		u.DogBreed = req.DogBreed
	}
	if req.DogAge != nil {
		u.DogAge = req.DogAge
	}
	if req.AvatarRef != nil {
		u.AvatarRef = req.AvatarRef
	}
	if err := h.users.Save(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": h.response(u)})
}

// DeleteAccount removes the profile row; the stored position goes with it
// via the FK cascade. The identity-provider account is untouched.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) response(u *models.User) gin.H {
	var avatarURL *string
	if u.AvatarRef != nil {
		url := *u.AvatarRef
		if h.avatars != nil {
			url = h.avatars.ImageURL(url)
		}
		avatarURL = &url
	}
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"dog_name":   u.DogName,
		"dog_breed":  u.DogBreed,
		"dog_age":    u.DogAge,
		"avatar_url": avatarURL,
		"created_at": u.CreatedAt,
	}
}
