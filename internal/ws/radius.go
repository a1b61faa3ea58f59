package ws

import (
	"sync"

	"pawpals/internal/domain"
)

// RadiusRegistry tracks each user's preferred search radius in meters.
// Preferences are process-local and keyed by user id rather than connection,
// so they survive reconnects but are lost on restart, and separate server
// processes keep independent values.
type RadiusRegistry struct {
	mu            sync.RWMutex
	radii         map[string]float64
	defaultRadius float64
}

func NewRadiusRegistry(defaultRadius float64) *RadiusRegistry {
	if defaultRadius <= 0 {
		defaultRadius = domain.DefaultSearchRadiusMeters
	}
	return &RadiusRegistry{
		radii:         make(map[string]float64),
		defaultRadius: defaultRadius,
	}
}

// Get returns the user's preferred radius, or the default for users that
// never set one.
func (r *RadiusRegistry) Get(userID string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if radius, ok := r.radii[userID]; ok {
		return radius
	}
	return r.defaultRadius
}

func (r *RadiusRegistry) Set(userID string, radiusMeters float64) {
	if radiusMeters <= 0 {
		return
	}
	r.mu.Lock()
	r.radii[userID] = radiusMeters
	r.mu.Unlock()
}
