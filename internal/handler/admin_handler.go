package handler

import (
	"context"
	"net/http"

	"pawpals/internal/models"
	"pawpals/internal/ws"

	"github.com/gin-gonic/gin"
)

// UserDirectory is the slice of the user repository the admin surface needs.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Notifier pushes a payload to all of one user's live connections and reports
// channel occupancy.
type Notifier interface {
	BroadcastToUser(userID string, payload interface{})
	ClientCount() int
}

// AdminHandler backs the admin-only routes: live-channel stats, account
// lookup for support workflows, and targeted notices over the live channel.
type AdminHandler struct {
	users    UserDirectory
	notifier Notifier
}

func NewAdminHandler(users UserDirectory, notifier Notifier) *AdminHandler {
	return &AdminHandler{users: users, notifier: notifier}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected_clients": h.notifier.ClientCount()})
}

// LookupUser finds an account by email.
func (h *AdminHandler) LookupUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	u, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"admin":      u.IsAdmin(),
		"dog_name":   u.DogName,
		"dog_breed":  u.DogBreed,
		"created_at": u.CreatedAt,
	}})
}

// NotifyUser delivers a notice to every live connection the user has open.
// Offline users receive nothing; delivery is best-effort like any other
// channel message.
func (h *AdminHandler) NotifyUser(c *gin.Context) {
	var req struct {
		UserID  string `json:"user_id" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.notifier.BroadcastToUser(req.UserID, ws.Notice(req.Message))
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
