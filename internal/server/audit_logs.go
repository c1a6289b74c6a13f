package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/kamrel/kamrel/internal/audit/domain"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	wsID, _ := workspaceID(c)

	var req auditdomain.ListAuditLogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.auditSvc.List(c.Request.Context(), wsID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// recordAudit appends a trail entry for a handled mutation. Failures
// are logged by the audit service itself and never fail the request.
func (s *Server) recordAudit(c *gin.Context, wsID *snowflake.ID, actorID, action, resourceType, resourceID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		WorkspaceID:  wsID,
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
	})
}
