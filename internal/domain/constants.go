package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultSearchRadiusMeters applies to any user that never set a radius
// preference over the live channel.
const DefaultSearchRadiusMeters = 500.0

// NearbyCacheTTL bounds how long a cached proximity result may be served
// after the underlying positions change.
const NearbyCacheTTL = 300000 * time.Millisecond

// Position is a user's last reported geographic coordinate. One row per
// user; overwritten in place on every update.
type Position struct {
	UserID      string    `json:"user_id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	LastUpdated time.Time `json:"last_updated"`
}

// NearbyFilters narrows and pages a proximity query. Field order matters for
// the cache key serialization, so keep Breed/Limit/Offset stable.
type NearbyFilters struct {
	Breed  string `json:"breed,omitempty" form:"breed"`
	Limit  int    `json:"limit,omitempty" form:"limit"`
	Offset int    `json:"offset,omitempty" form:"offset"`
}

// NearbyEntry is one row of a proximity query result, joined with the
// owner's dog profile. Profile fields stay nil when the user row is missing;
// such entries are still returned, never dropped.
type NearbyEntry struct {
	UserID         string  `json:"user_id"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters float64 `json:"distance_meters"`
	DogName        *string `json:"dog_name"`
	DogBreed       *string `json:"dog_breed"`
	DogAge         *int    `json:"dog_age"`
	AvatarURL      *string `json:"avatar_url"`
}
