package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	importdomain "github.com/kamrel/kamrel/internal/localimport/domain"
)

func (s *Server) RunImport(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)

	var req importdomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.importSvc.Run(c.Request.Context(), uid, wsID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "import.completed", "import", "", map[string]any{"skipped": report.Skipped})
	c.JSON(http.StatusOK, report)
}

func (s *Server) ImportStatus(c *gin.Context) {
	uid, _ := userID(c)

	checkpoint, err := s.importSvc.Status(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkpoint": checkpoint})
}
