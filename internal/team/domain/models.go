// Package domain contains core types for the team service.
package domain

import "time"

// Team mirrors an identity-provider team into the local store.
type Team struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Team) TableName() string { return "teams" }

// TeamMember links a user to a team with a role.
type TeamMember struct {
	TeamID    string    `gorm:"primaryKey" json:"team_id"`
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	Role      string    `gorm:"not null;default:'member'" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TeamMember) TableName() string { return "team_members" }

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
