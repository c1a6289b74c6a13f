package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestCleanup wipes workspace-scoped data. Registered outside
// production only, for end-to-end test isolation.
func (s *Server) TestCleanup(c *gin.Context) {
	tables := []string{
		"chat_messages",
		"chat_rooms",
		"time_entries",
		"tasks",
		"projects",
		"file_uploads",
		"notifications",
		"invites",
		"workspace_members",
		"workspaces",
		"import_checkpoints",
		"audit_logs",
	}

	for _, table := range tables {
		if err := s.db.WithContext(c.Request.Context()).Exec("DELETE FROM " + table).Error; err != nil {
			AbortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
