package model

import "github.com/google/uuid"

// Profile is the per-user row holding the admin flag. Rows are created by the
// backend service when a user signs up; this application only reads them
// (except for the grant-admin tool).
type Profile struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IsAdmin bool      `gorm:"not null;default:false" json:"is_admin"`
}

func (Profile) TableName() string {
	return "profiles"
}
