package models

import "time"

// UserPosition is the single current position per user, stored as a PostGIS
// geography point (lng/lat order, SRID 4326). Reads and writes go through
// raw SQL in the repository so the spatial functions and the GIST index do
// the work; gorm only owns the schema.
type UserPosition struct {
	UserID      string    `gorm:"primaryKey;size:64" json:"user_id"`
	Location    string    `gorm:"type:geography(Point,4326);not null" json:"-"`
	LastUpdated time.Time `gorm:"not null;default:now()" json:"last_updated"`
}

func (UserPosition) TableName() string { return "users_locations" }
