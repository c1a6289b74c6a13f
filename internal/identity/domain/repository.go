package domain

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type SyncLogRepository interface {
	Insert(ctx context.Context, entry *SyncLog) error
	ListForUser(ctx context.Context, userID string, limit int) ([]SyncLog, error)
}
