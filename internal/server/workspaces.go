package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
)

func (s *Server) ListWorkspaces(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	workspaces, err := s.workspaceSvc.ListByUser(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

func (s *Server) CreateWorkspace(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req workspacedomain.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	workspace, err := s.workspaceSvc.Create(c.Request.Context(), uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, nil, uid, "workspace.created", "workspace", workspace.ID, map[string]any{"name": workspace.Name})
	c.JSON(http.StatusCreated, gin.H{"workspace": workspace})
}

type createDefaultWorkspaceRequest struct {
	InviteToken string `json:"invite_token"`
}

// CreateDefaultWorkspace provisions the user's first workspace. When an
// invite token rides along, accepting the invite replaces provisioning:
// the user joins the inviter's workspace instead of getting a new one.
func (s *Server) CreateDefaultWorkspace(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createDefaultWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	if token := strings.TrimSpace(req.InviteToken); token != "" {
		result, err := s.inviteSvc.Accept(c.Request.Context(), uid, token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		s.recordAudit(c, nil, uid, "invite.accepted", "invite", "", map[string]any{"workspace": result.Workspace})
		c.JSON(http.StatusOK, gin.H{
			"workspace_id":   result.WorkspaceID,
			"workspace_name": result.Workspace,
			"joined":         true,
			"role":           result.Role,
		})
		return
	}

	result, err := s.workspaceSvc.CreateDefault(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, nil, uid, "workspace.created", "workspace", result.WorkspaceID, map[string]any{"name": result.WorkspaceName, "default": true})
	c.JSON(http.StatusOK, result)
}

func (s *Server) ListWorkspaceMembers(c *gin.Context) {
	pathID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if scoped, ok := workspaceID(c); !ok || scoped != pathID {
		AbortWithError(c, ErrForbidden)
		return
	}

	members, err := s.workspaceSvc.ListMembers(c.Request.Context(), pathID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}
