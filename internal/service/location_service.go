package service

import (
	"context"
	"fmt"
	"time"

	"pawpals/internal/cache"
	"pawpals/internal/domain"
)

// PositionStore is the persistence contract the proximity engine runs on: an
// atomic upsert keyed by user and a spatial within-radius primitive. The
// production implementation is the PostGIS-backed PositionRepository.
type PositionStore interface {
	Save(ctx context.Context, userID string, lat, lng float64) (*domain.Position, error)
	Get(ctx context.Context, userID string) (*domain.Position, error)
	FindNearby(ctx context.Context, lat, lng, radiusMeters float64, f domain.NearbyFilters) ([]domain.NearbyEntry, error)
}

// AvatarResolver turns a stored avatar ref into a deliverable URL.
type AvatarResolver interface {
	ImageURL(ref string) string
}

// LocationService validates coordinates, runs proximity queries through the
// nearby cache and resolves avatar refs on the way out. Cached results may
// lag position changes by up to the TTL; that bounded staleness is the
// intended trade-off for read-heavy live-update bursts.
type LocationService struct {
	store    PositionStore
	cache    cache.NearbyCache
	cacheTTL time.Duration
	avatars  AvatarResolver // optional
}

func NewLocationService(store PositionStore, c cache.NearbyCache, cacheTTL time.Duration, avatars AvatarResolver) *LocationService {
	if cacheTTL <= 0 {
		cacheTTL = domain.NearbyCacheTTL
	}
	return &LocationService{store: store, cache: c, cacheTTL: cacheTTL, avatars: avatars}
}

func validateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return domain.ErrInvalidCoordinate
	}
	return nil
}

// SaveLocation upserts the user's position. After the call exactly one row
// exists for the user; the returned Position carries the new last_updated.
func (s *LocationService) SaveLocation(ctx context.Context, userID string, lat, lng float64) (*domain.Position, error) {
	if err := validateCoordinate(lat, lng); err != nil {
		return nil, err
	}
	pos, err := s.store.Save(ctx, userID, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return pos, nil
}

// GetLocation returns nil when the user never reported a position.
func (s *LocationService) GetLocation(ctx context.Context, userID string) (*domain.Position, error) {
	pos, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return pos, nil
}

// FindNearby answers "who is within radiusMeters of (lat,lng)", cache-first.
// Results are ordered by ascending distance with user_id as the tie-break,
// and never nil.
func (s *LocationService) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, f domain.NearbyFilters) ([]domain.NearbyEntry, error) {
	if err := validateCoordinate(lat, lng); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		return nil, domain.ErrInvalidRadius
	}

	key := cache.Key(lat, lng, radiusMeters, f)
	if entries, ok := s.cache.Get(ctx, key); ok {
		return entries, nil
	}

	entries, err := s.store.FindNearby(ctx, lat, lng, radiusMeters, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if entries == nil {
		entries = []domain.NearbyEntry{}
	}
	if s.avatars != nil {
		for i := range entries {
			if entries[i].AvatarURL != nil {
				resolved := s.avatars.ImageURL(*entries[i].AvatarURL)
				entries[i].AvatarURL = &resolved
			}
		}
	}
	s.cache.Set(ctx, key, entries, s.cacheTTL)
	return entries, nil
}
