package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	"github.com/kamrel/kamrel/pkg/db/pagination"
)

func (s *Server) ListProjects(c *gin.Context) {
	wsID, _ := workspaceID(c)

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.projectSvc.List(c.Request.Context(), wsID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CreateProject(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)

	var req projectdomain.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	project, err := s.projectSvc.Create(c.Request.Context(), wsID, uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "project.created", "project", project.ID.String(), map[string]any{"name": project.Name})
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (s *Server) GetProject(c *gin.Context) {
	wsID, _ := workspaceID(c)
	projectID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	project, err := s.projectSvc.GetByID(c.Request.Context(), wsID, projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (s *Server) UpdateProject(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	projectID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req projectdomain.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	project, err := s.projectSvc.Update(c.Request.Context(), wsID, projectID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "project.updated", "project", projectID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (s *Server) DeleteProject(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	projectID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.projectSvc.Delete(c.Request.Context(), wsID, projectID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "project.deleted", "project", projectID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
