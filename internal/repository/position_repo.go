package repository

import (
	"context"
	"time"

	"pawpals/internal/domain"

	"gorm.io/gorm"
)

// PositionRepository persists one current position per user on top of
// PostGIS. The radius match, distance computation and ordering all happen in
// SQL so the GIST index is exercised rather than application-level math.
type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

type positionRow struct {
	UserID      string
	Lat         float64
	Lng         float64
	LastUpdated time.Time
}

// Save upserts the user's position atomically; concurrent readers never see
// a torn row. ST_MakePoint takes lng/lat in that order.
func (r *PositionRepository) Save(ctx context.Context, userID string, lat, lng float64) (*domain.Position, error) {
	var row positionRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO users_locations (user_id, location, last_updated)
		VALUES (?, ST_MakePoint(?, ?)::geography, now())
		ON CONFLICT (user_id)
		DO UPDATE SET location = EXCLUDED.location, last_updated = now()
		RETURNING user_id,
		          ST_Y(location::geometry) AS lat,
		          ST_X(location::geometry) AS lng,
		          last_updated
	`, userID, lng, lat).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &domain.Position{UserID: row.UserID, Lat: row.Lat, Lng: row.Lng, LastUpdated: row.LastUpdated}, nil
}

// Get returns nil when the user never reported a position; that is not an
// error.
func (r *PositionRepository) Get(ctx context.Context, userID string) (*domain.Position, error) {
	var rows []positionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT user_id,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lng,
		       last_updated
		FROM users_locations
		WHERE user_id = ?
	`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &domain.Position{UserID: row.UserID, Lat: row.Lat, Lng: row.Lng, LastUpdated: row.LastUpdated}, nil
}

type nearbyRow struct {
	UserID         string
	Lat            float64
	Lng            float64
	DistanceMeters float64
	DogName        *string
	DogBreed       *string
	DogAge         *int
	AvatarRef      *string
}

// FindNearby returns every stored position within radiusMeters of the
// center, profile-joined, closest first with user_id as the tie-break for
// equal distances. The LEFT JOIN keeps profile-less users in the result with
// null fields. Breed filter and pagination apply inside the query so
// limit/offset page the filtered set.
func (r *PositionRepository) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, f domain.NearbyFilters) ([]domain.NearbyEntry, error) {
	query := `
		SELECT ul.user_id,
		       ST_Y(ul.location::geometry) AS lat,
		       ST_X(ul.location::geometry) AS lng,
		       ST_Distance(ul.location, ST_MakePoint(?, ?)::geography) AS distance_meters,
		       u.dog_name, u.dog_breed, u.dog_age, u.avatar_ref
		FROM users_locations ul
		LEFT JOIN users u ON u.id = ul.user_id
		WHERE ST_DWithin(ul.location, ST_MakePoint(?, ?)::geography, ?)`
	args := []interface{}{lng, lat, lng, lat, radiusMeters}
	if f.Breed != "" {
		query += `
		AND u.dog_breed = ?`
		args = append(args, f.Breed)
	}
	query += `
		ORDER BY distance_meters ASC, ul.user_id ASC`
	if f.Limit > 0 {
		query += `
		LIMIT ?`
		args = append(args, f.Limit)
	}
	if f.Offset > 0 {
		query += `
		OFFSET ?`
		args = append(args, f.Offset)
	}

	var rows []nearbyRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.NearbyEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.NearbyEntry{
			UserID:         row.UserID,
			Lat:            row.Lat,
			Lng:            row.Lng,
			DistanceMeters: row.DistanceMeters,
			DogName:        row.DogName,
			DogBreed:       row.DogBreed,
			DogAge:         row.DogAge,
			AvatarURL:      row.AvatarRef,
		})
	}
	return entries, nil
}
