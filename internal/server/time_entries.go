package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	timeentrydomain "github.com/kamrel/kamrel/internal/timeentry/domain"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

func (s *Server) ListTimeEntries(c *gin.Context) {
	wsID, _ := workspaceID(c)

	var filter timeentrydomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.timeEntrySvc.List(c.Request.Context(), wsID, filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) StartTimeEntry(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)

	var req timeentrydomain.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.timeEntrySvc.Start(c.Request.Context(), wsID, uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "time_entry.started", "time_entry", entry.ID.String(), nil)
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (s *Server) StopTimeEntry(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	entryID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.timeEntrySvc.Stop(c.Request.Context(), wsID, entryID, uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "time_entry.stopped", "time_entry", entryID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (s *Server) DeleteTimeEntry(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	entryID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.timeEntrySvc.Delete(c.Request.Context(), wsID, entryID, uid); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "time_entry.deleted", "time_entry", entryID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
