package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Run pushes a client-held dataset into the store. Each record is
	// upserted independently; one bad record never aborts the batch.
	// A completed checkpoint short-circuits the run unless forced.
	Run(ctx context.Context, userID string, workspaceID snowflake.ID, req Request) (*Report, error)
	Status(ctx context.Context, userID string) (*ImportCheckpoint, error)
}

type Request struct {
	Force bool    `json:"force"`
	Data  Payload `json:"data"`
}

// Payload mirrors the legacy localStorage dataset. Record ids are the
// client's string keys.
type Payload struct {
	Teams           []TeamRecord         `json:"teams"`
	TeamMembers     []TeamMemberRecord   `json:"team_members"`
	Projects        []ProjectRecord      `json:"projects"`
	Tasks           []TaskRecord         `json:"tasks"`
	Messages        []MessageRecord      `json:"messages"`
	UserPreferences *PreferenceRecord    `json:"user_preferences,omitempty"`
	UserProfile     *ProfileRecord       `json:"user_profile,omitempty"`
	Notifications   []NotificationRecord `json:"notifications"`
}

type TeamRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	OwnerID     string `json:"owner_id"`
}

type TeamMemberRecord struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type ProjectRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

type TaskRecord struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    int        `json:"progress"`
}

type MessageRecord struct {
	ID     string    `json:"id"`
	RoomID string    `json:"room_id"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
	Sender string    `json:"sender"`
}

type PreferenceRecord struct {
	Theme    string `json:"theme"`
	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`
}

type ProfileRecord struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type NotificationRecord struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	IsRead    bool       `json:"is_read"`
	SentAt    time.Time  `json:"sent_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type CategoryCount struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

type Report struct {
	Status  string                   `json:"status"`
	Skipped bool                     `json:"skipped"`
	Counts  map[string]CategoryCount `json:"counts"`
}

var (
	ErrAlreadyImported = errors.New("already_imported")
	ErrImportRunning   = errors.New("import_running")
	ErrBatchTooLarge   = errors.New("batch_too_large")
)
