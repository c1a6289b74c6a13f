// Package domain contains core types for the file upload service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FileUpload is the metadata row for one stored blob. The blob itself
// lives under the files directory at StoragePath.
type FileUpload struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID  `gorm:"not null;index" json:"workspace_id"`
	ProjectID   *snowflake.ID `gorm:"index" json:"project_id,omitempty"`
	UploaderID  string        `gorm:"column:uploader_id;not null" json:"uploader_id"`
	FileName    string        `gorm:"type:text;not null" json:"file_name"`
	ContentType string        `gorm:"type:text;not null;default:''" json:"content_type"`
	SizeBytes   int64         `gorm:"not null;default:0" json:"size_bytes"`
	StoragePath string        `gorm:"type:text;not null" json:"-"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (FileUpload) TableName() string { return "file_uploads" }
