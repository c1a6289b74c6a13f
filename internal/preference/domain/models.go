// Package domain contains core types for the user preference service.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

type UserPreference struct {
	UserID    string         `gorm:"primaryKey" json:"user_id"`
	Theme     string         `gorm:"type:text;not null;default:'system'" json:"theme"`
	Locale    string         `gorm:"type:text;not null;default:'fr'" json:"locale"`
	Timezone  string         `gorm:"type:text;not null;default:'UTC'" json:"timezone"`
	Settings  datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (UserPreference) TableName() string { return "user_preferences" }
