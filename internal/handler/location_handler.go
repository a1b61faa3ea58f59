package handler

import (
	"errors"
	"net/http"

	"pawpals/internal/domain"
	"pawpals/internal/middleware"
	"pawpals/internal/service"
	"pawpals/internal/ws"

	"github.com/gin-gonic/gin"
)

// LocationHandler exposes the REST side of the position store and proximity
// engine; the websocket gateway shares the same service underneath.
type LocationHandler struct {
	svc   *service.LocationService
	radii *ws.RadiusRegistry
}

func NewLocationHandler(svc *service.LocationService, radii *ws.RadiusRegistry) *LocationHandler {
	return &LocationHandler{svc: svc, radii: radii}
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pos, err := h.svc.SaveLocation(c.Request.Context(), userID, *req.Lat, *req.Lng)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos})
}

func (h *LocationHandler) GetMyLocation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	pos, err := h.svc.GetLocation(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if pos == nil {
		c.JSON(http.StatusOK, gin.H{"position": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos})
}

// Nearby answers a one-off proximity query over REST. The radius defaults to
// the caller's live-channel preference so both surfaces agree.
func (h *LocationHandler) Nearby(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Lat    *float64 `form:"lat" binding:"required"`
		Lng    *float64 `form:"lng" binding:"required"`
		Radius float64  `form:"radius"`
		domain.NearbyFilters
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	radius := req.Radius
	if radius <= 0 {
		radius = h.radii.Get(userID)
	}
	entries, err := h.svc.FindNearby(c.Request.Context(), *req.Lat, *req.Lng, radius, req.NearbyFilters)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCoordinate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
		case errors.Is(err, domain.ErrInvalidRadius):
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "nearby lookup failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"nearby": entries})
}
