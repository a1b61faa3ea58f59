package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"pawpals/internal/domain"
)

// Event names on the live update channel.
const (
	EventUpdateLocation     = "update_location"
	EventUpdateSearchRadius = "update_search_radius"
	EventLocationUpdated    = "location_updated"
	EventNotice             = "notice"
	EventError              = "error"
)

// Notice wraps a server-originated message for targeted delivery to one
// user's live connections.
func Notice(message string) interface{} {
	return outEnvelope{
		Event: EventNotice,
		Data:  map[string]string{"message": message},
	}
}

// LocationService is the slice of the location service the gateway needs.
type LocationService interface {
	SaveLocation(ctx context.Context, userID string, lat, lng float64) (*domain.Position, error)
	GetLocation(ctx context.Context, userID string) (*domain.Position, error)
	FindNearby(ctx context.Context, lat, lng, radiusMeters float64, f domain.NearbyFilters) ([]domain.NearbyEntry, error)
}

// Broadcaster fans a payload out to every connected socket.
type Broadcaster interface {
	BroadcastAll(payload interface{})
}

// Envelope is the wire format of every channel message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// UpdatedPosition identifies who moved in a location_updated broadcast.
type UpdatedPosition struct {
	UserID string  `json:"user_id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// LocationUpdated is broadcast to all connected sockets on every position or
// radius change.
type LocationUpdated struct {
	Updated UpdatedPosition      `json:"updated"`
	Nearby  []domain.NearbyEntry `json:"nearby"`
}

type updateLocationData struct {
	UserID  string               `json:"userId"`
	Lat     *float64             `json:"lat"`
	Lng     *float64             `json:"lng"`
	Filters domain.NearbyFilters `json:"filters"`
}

type updateRadiusData struct {
	UserID  string               `json:"userId"`
	Radius  *float64             `json:"radius"`
	Filters domain.NearbyFilters `json:"filters"`
}

// Gateway dispatches live-update channel messages. Each connection's read
// loop calls HandleMessage sequentially, which preserves per-socket message
// order; messages from different sockets interleave freely. Errors stay
// local to the triggering message and never tear down the connection.
type Gateway struct {
	svc   LocationService
	hub   Broadcaster
	radii *RadiusRegistry
}

func NewGateway(svc LocationService, hub Broadcaster, radii *RadiusRegistry) *Gateway {
	return &Gateway{svc: svc, hub: hub, radii: radii}
}

func (g *Gateway) HandleMessage(ctx context.Context, c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.replyError(c, "malformed message")
		return
	}
	switch env.Event {
	case EventUpdateLocation:
		g.handleUpdateLocation(ctx, c, env.Data)
	case EventUpdateSearchRadius:
		g.handleUpdateRadius(ctx, c, env.Data)
	default:
		g.replyError(c, fmt.Sprintf("unknown event %q", env.Event))
	}
}

func (g *Gateway) handleUpdateLocation(ctx context.Context, c *Client, raw []byte) {
	var data updateLocationData
	if err := json.Unmarshal(raw, &data); err != nil {
		g.replyError(c, "malformed update_location payload")
		return
	}
	// Missing userId is silently ignored; clients rely on it being non-fatal.
	if data.UserID == "" {
		return
	}
	if data.Lat == nil || data.Lng == nil {
		g.replyError(c, "lat and lng are required")
		return
	}

	if _, err := g.svc.SaveLocation(ctx, data.UserID, *data.Lat, *data.Lng); err != nil {
		// Never announce a position that wasn't persisted.
		if errors.Is(err, domain.ErrInvalidCoordinate) {
			g.replyError(c, "coordinate out of range")
			return
		}
		log.Printf("ws: save location for %s: %v", data.UserID, err)
		g.replyError(c, "location update failed")
		return
	}

	radius := g.radii.Get(data.UserID)
	nearby, err := g.svc.FindNearby(ctx, *data.Lat, *data.Lng, radius, data.Filters)
	if err != nil {
		log.Printf("ws: nearby lookup for %s: %v", data.UserID, err)
		g.replyError(c, "nearby lookup failed")
		return
	}

	g.broadcastLocationUpdated(data.UserID, *data.Lat, *data.Lng, nearby)
}

func (g *Gateway) handleUpdateRadius(ctx context.Context, c *Client, raw []byte) {
	var data updateRadiusData
	if err := json.Unmarshal(raw, &data); err != nil {
		g.replyError(c, "malformed update_search_radius payload")
		return
	}
	if data.UserID == "" {
		return
	}
	if data.Radius == nil || *data.Radius <= 0 {
		g.replyError(c, "radius must be a positive number")
		return
	}

	g.radii.Set(data.UserID, *data.Radius)

	pos, err := g.svc.GetLocation(ctx, data.UserID)
	if err != nil {
		log.Printf("ws: position lookup for %s: %v", data.UserID, err)
		g.replyError(c, "radius update failed")
		return
	}
	// No stored position yet: nothing to broadcast, but the preference is
	// retained for the user's first location update.
	if pos == nil {
		return
	}

	nearby, err := g.svc.FindNearby(ctx, pos.Lat, pos.Lng, *data.Radius, data.Filters)
	if err != nil {
		log.Printf("ws: nearby lookup for %s: %v", data.UserID, err)
		g.replyError(c, "nearby lookup failed")
		return
	}

	g.broadcastLocationUpdated(data.UserID, pos.Lat, pos.Lng, nearby)
}

func (g *Gateway) broadcastLocationUpdated(userID string, lat, lng float64, nearby []domain.NearbyEntry) {
	g.hub.BroadcastAll(outEnvelope{
		Event: EventLocationUpdated,
		Data: LocationUpdated{
			Updated: UpdatedPosition{UserID: userID, Lat: lat, Lng: lng},
			Nearby:  nearby,
		},
	})
}

// replyError sends a structured error event to the originating connection
// only; errors are never broadcast.
func (g *Gateway) replyError(c *Client, message string) {
	c.SendJSON(outEnvelope{
		Event: EventError,
		Data:  map[string]string{"message": message},
	})
}
