package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"pawpals/internal/domain"
)

type saveCall struct {
	userID   string
	lat, lng float64
}

type findCall struct {
	lat, lng float64
	radius   float64
	filters  domain.NearbyFilters
}

type fakeLocationService struct {
	mu        sync.Mutex
	positions map[string]domain.Position
	saves     []saveCall
	finds     []findCall
	nearby    []domain.NearbyEntry
	saveErr   error
	getErr    error
	findErr   error
}

func newFakeLocationService() *fakeLocationService {
	return &fakeLocationService{positions: make(map[string]domain.Position)}
}

func (s *fakeLocationService) SaveLocation(_ context.Context, userID string, lat, lng float64) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saves = append(s.saves, saveCall{userID, lat, lng})
	pos := domain.Position{UserID: userID, Lat: lat, Lng: lng}
	s.positions[userID] = pos
	return &pos, nil
}

func (s *fakeLocationService) GetLocation(_ context.Context, userID string) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	pos, ok := s.positions[userID]
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

func (s *fakeLocationService) FindNearby(_ context.Context, lat, lng, radius float64, f domain.NearbyFilters) ([]domain.NearbyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.finds = append(s.finds, findCall{lat, lng, radius, f})
	if s.nearby == nil {
		return []domain.NearbyEntry{}, nil
	}
	return s.nearby, nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	payloads []interface{}
}

func (b *fakeBroadcaster) BroadcastAll(payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, payload)
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payloads)
}

func newTestGateway(svc LocationService) (*Gateway, *fakeBroadcaster, *RadiusRegistry) {
	b := &fakeBroadcaster{}
	radii := NewRadiusRegistry(500)
	return NewGateway(svc, b, radii), b, radii
}

func msg(event string, data interface{}) []byte {
	raw, _ := json.Marshal(map[string]interface{}{"event": event, "data": data})
	return raw
}

func errorReplies(c *Client) []string {
	var out []string
	for _, raw := range drain(c) {
		var env struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Event == EventError {
			out = append(out, env.Data["message"])
		}
	}
	return out
}

func TestUpdateLocationBroadcastsToAll(t *testing.T) {
	svc := newFakeLocationService()
	svc.nearby = []domain.NearbyEntry{{UserID: "u2", DistanceMeters: 42}}
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"userId": "u1", "lat": 40.0, "lng": -74.0,
	}))

	if len(svc.saves) != 1 || svc.saves[0] != (saveCall{"u1", 40.0, -74.0}) {
		t.Fatalf("saves = %v", svc.saves)
	}
	if len(svc.finds) != 1 {
		t.Fatalf("finds = %v", svc.finds)
	}
	if svc.finds[0].radius != 500 {
		t.Errorf("first update used radius %v, want default 500", svc.finds[0].radius)
	}
	if b.count() != 1 {
		t.Fatalf("broadcasts = %d, want 1", b.count())
	}

	env := b.payloads[0].(outEnvelope)
	if env.Event != EventLocationUpdated {
		t.Fatalf("event = %q", env.Event)
	}
	update := env.Data.(LocationUpdated)
	if update.Updated != (UpdatedPosition{UserID: "u1", Lat: 40.0, Lng: -74.0}) {
		t.Errorf("updated = %+v", update.Updated)
	}
	if len(update.Nearby) != 1 || update.Nearby[0].UserID != "u2" {
		t.Errorf("nearby = %+v", update.Nearby)
	}
	if replies := errorReplies(c); len(replies) != 0 {
		t.Errorf("unexpected error replies: %v", replies)
	}
}

func TestUpdateLocationForwardsFilters(t *testing.T) {
	svc := newFakeLocationService()
	g, _, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"userId": "u1", "lat": 0.0, "lng": 0.0,
		"filters": map[string]interface{}{"breed": "Corgi"},
	}))

	if len(svc.finds) != 1 || svc.finds[0].filters.Breed != "Corgi" {
		t.Errorf("finds = %+v, want breed filter forwarded", svc.finds)
	}
}

func TestUpdateLocationMissingUserIDIsSilentlyDropped(t *testing.T) {
	svc := newFakeLocationService()
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"lat": 40.0, "lng": -74.0,
	}))

	if len(svc.saves) != 0 || b.count() != 0 {
		t.Errorf("message without userId must be ignored (saves=%v broadcasts=%d)", svc.saves, b.count())
	}
	if replies := errorReplies(c); len(replies) != 0 {
		t.Errorf("missing userId must not produce an error reply: %v", replies)
	}
}

func TestUpdateLocationMissingCoordinatesRepliesError(t *testing.T) {
	svc := newFakeLocationService()
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"userId": "u1", "lat": 40.0,
	}))

	if len(svc.saves) != 0 || b.count() != 0 {
		t.Errorf("incomplete message must not save or broadcast")
	}
	if replies := errorReplies(c); len(replies) != 1 {
		t.Errorf("error replies = %v, want exactly one", replies)
	}
}

func TestUpdateLocationSaveFailureSuppressesBroadcast(t *testing.T) {
	svc := newFakeLocationService()
	svc.saveErr = fmt.Errorf("%w: connection refused", domain.ErrStorageUnavailable)
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"userId": "u1", "lat": 40.0, "lng": -74.0,
	}))

	if b.count() != 0 {
		t.Error("a position that was not persisted must not be announced")
	}
	if replies := errorReplies(c); len(replies) != 1 {
		t.Errorf("error replies = %v, want one", replies)
	}
}

func TestUpdateLocationInvalidCoordinateRepliesError(t *testing.T) {
	svc := newFakeLocationService()
	svc.saveErr = domain.ErrInvalidCoordinate
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"userId": "u1", "lat": 91.0, "lng": 0.0,
	}))

	if b.count() != 0 {
		t.Error("invalid coordinates must not broadcast")
	}
	replies := errorReplies(c)
	if len(replies) != 1 || replies[0] != "coordinate out of range" {
		t.Errorf("error replies = %v", replies)
	}
}

func TestUpdateRadiusWithoutPositionRetainsPreference(t *testing.T) {
	svc := newFakeLocationService()
	g, b, radii := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateSearchRadius, map[string]interface{}{
		"userId": "u1", "radius": 1200.0,
	}))

	if b.count() != 0 {
		t.Error("no stored position: nothing to broadcast")
	}
	if replies := errorReplies(c); len(replies) != 0 {
		t.Errorf("unexpected error replies: %v", replies)
	}
	if got := radii.Get("u1"); got != 1200 {
		t.Fatalf("radius preference = %v, want 1200", got)
	}

	// The retained preference applies to the user's first location update.
	g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
		"userId": "u1", "lat": 0.0, "lng": 0.0,
	}))
	if len(svc.finds) != 1 || svc.finds[0].radius != 1200 {
		t.Errorf("finds = %+v, want radius 1200", svc.finds)
	}
}

func TestUpdateRadiusWithPositionRebroadcasts(t *testing.T) {
	svc := newFakeLocationService()
	svc.positions["u1"] = domain.Position{UserID: "u1", Lat: 40.0, Lng: -74.0}
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateSearchRadius, map[string]interface{}{
		"userId": "u1", "radius": 2000.0,
	}))

	if len(svc.finds) != 1 {
		t.Fatalf("finds = %+v", svc.finds)
	}
	if svc.finds[0] != (findCall{40.0, -74.0, 2000, domain.NearbyFilters{}}) {
		t.Errorf("find = %+v, want stored position with new radius", svc.finds[0])
	}
	if b.count() != 1 {
		t.Fatalf("broadcasts = %d, want 1", b.count())
	}
	update := b.payloads[0].(outEnvelope).Data.(LocationUpdated)
	if update.Updated.Lat != 40.0 || update.Updated.Lng != -74.0 {
		t.Errorf("updated = %+v, want last stored position", update.Updated)
	}
}

func TestUpdateRadiusRejectsNonPositive(t *testing.T) {
	svc := newFakeLocationService()
	g, b, radii := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateSearchRadius, map[string]interface{}{
		"userId": "u1", "radius": -5.0,
	}))

	if b.count() != 0 {
		t.Error("invalid radius must not broadcast")
	}
	if replies := errorReplies(c); len(replies) != 1 {
		t.Errorf("error replies = %v, want one", replies)
	}
	if got := radii.Get("u1"); got != 500 {
		t.Errorf("radius preference = %v, want untouched default", got)
	}
}

func TestMalformedMessagesReplyErrorToSenderOnly(t *testing.T) {
	svc := newFakeLocationService()
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	tests := []struct {
		name string
		raw  []byte
	}{
		{"invalid json", []byte("{not json")},
		{"unknown event", msg("teleport", map[string]interface{}{"userId": "u1"})},
		{"wrong payload type", msg(EventUpdateLocation, "not an object")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.HandleMessage(context.Background(), c, tt.raw)
			if replies := errorReplies(c); len(replies) != 1 {
				t.Errorf("error replies = %v, want one", replies)
			}
			if b.count() != 0 {
				t.Error("errors must never be broadcast")
			}
		})
	}
}

func TestGetLocationFailureRepliesError(t *testing.T) {
	svc := newFakeLocationService()
	svc.getErr = errors.New("connection refused")
	g, b, _ := newTestGateway(svc)
	c := newTestClient("conn-1", "u1")

	g.HandleMessage(context.Background(), c, msg(EventUpdateSearchRadius, map[string]interface{}{
		"userId": "u1", "radius": 1000.0,
	}))

	if b.count() != 0 {
		t.Error("lookup failure must not broadcast")
	}
	if replies := errorReplies(c); len(replies) != 1 {
		t.Errorf("error replies = %v, want one", replies)
	}
}

func TestConcurrentUpdatesFromDifferentUsers(t *testing.T) {
	svc := newFakeLocationService()
	g, b, _ := newTestGateway(svc)

	var wg sync.WaitGroup
	for i, userID := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(userID string, lng float64) {
			defer wg.Done()
			c := newTestClient("conn-"+userID, userID)
			g.HandleMessage(context.Background(), c, msg(EventUpdateLocation, map[string]interface{}{
				"userId": userID, "lat": 0.0, "lng": lng,
			}))
		}(userID, float64(i)*0.001)
	}
	wg.Wait()

	if len(svc.saves) != 2 {
		t.Errorf("saves = %v, want both users persisted", svc.saves)
	}
	if b.count() != 2 {
		t.Errorf("broadcasts = %d, want one per update", b.count())
	}
}
