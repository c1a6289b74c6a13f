package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

func (s *Server) ListTasks(c *gin.Context) {
	wsID, _ := workspaceID(c)

	var filter taskdomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.taskSvc.List(c.Request.Context(), wsID, filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CreateTask(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)

	var req taskdomain.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.taskSvc.Create(c.Request.Context(), wsID, uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "task.created", "task", task.ID.String(), map[string]any{"title": task.Title})
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) GetTask(c *gin.Context) {
	wsID, _ := workspaceID(c)
	taskID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	task, err := s.taskSvc.GetByID(c.Request.Context(), wsID, taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) UpdateTask(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	taskID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req taskdomain.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.taskSvc.Update(c.Request.Context(), wsID, taskID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "task.updated", "task", taskID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) DeleteTask(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	taskID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.taskSvc.Delete(c.Request.Context(), wsID, taskID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "task.deleted", "task", taskID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
