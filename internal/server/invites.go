package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invitedomain "github.com/kamrel/kamrel/internal/invite/domain"
)

func (s *Server) SendInvite(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	pathID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if scoped, ok := workspaceID(c); !ok || scoped != pathID {
		AbortWithError(c, ErrForbidden)
		return
	}

	var req invitedomain.SendInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if s.limiter != nil && !s.limiter.AllowInviteSend(c.Request.Context(), pathID.String()) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	result, err := s.inviteSvc.Send(c.Request.Context(), pathID, uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &pathID, uid, "invite.sent", "invite", result.InviteID, map[string]any{"email": req.Email, "role": req.Role})
	c.JSON(http.StatusCreated, result)
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

func (s *Server) AcceptInvite(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.inviteSvc.Accept(c.Request.Context(), uid, req.Token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, nil, uid, "invite.accepted", "invite", "", map[string]any{"workspace": result.Workspace, "role": result.Role})
	c.JSON(http.StatusOK, result)
}

func (s *Server) ListWorkspaceInvites(c *gin.Context) {
	pathID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if scoped, ok := workspaceID(c); !ok || scoped != pathID {
		AbortWithError(c, ErrForbidden)
		return
	}

	invites, err := s.inviteSvc.ListByWorkspace(c.Request.Context(), pathID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

func (s *Server) RevokeInvite(c *gin.Context) {
	uid, _ := userID(c)
	pathID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if scoped, ok := workspaceID(c); !ok || scoped != pathID {
		AbortWithError(c, ErrForbidden)
		return
	}
	inviteID, err := parseSnowflakeParam(c, "invite_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.inviteSvc.Revoke(c.Request.Context(), pathID, inviteID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &pathID, uid, "invite.revoked", "invite", inviteID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
