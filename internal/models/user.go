package models

import (
	"time"

	"pawpals/internal/domain"
)

// User carries the dog profile attached to an identity-provider account.
// The primary key is the provider's subject id, so no local id sequence.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role      string    `gorm:"size:20;not null;default:user" json:"role"` // user | admin
	DogName   *string   `gorm:"size:100" json:"dog_name"`
	DogBreed  *string   `gorm:"size:100;index" json:"dog_breed"`
	DogAge    *int      `json:"dog_age"`
	AvatarRef *string   `gorm:"size:512" json:"avatar_ref"` // object-storage public id or absolute URL
	CreatedAt time.Time `json:"created_at"`

	// Deleting the account cascades to the stored position.
	Position *UserPosition `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"position,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
