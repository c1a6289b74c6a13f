package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/kamrel/kamrel/internal/auth/domain"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	s.recordAudit(c, nil, result.UserID, "auth.login", "session", result.SessionID.String(), nil)

	c.JSON(http.StatusOK, gin.H{
		"user_id":    result.UserID,
		"expires_at": result.ExpiresAt,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if ok {
		_ = s.authsvc.Logout(c.Request.Context(), token)
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) Me(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.identitySvc.GetByID(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AuthCallback completes the identity provider's OAuth flow: the code
// is exchanged for a token, the user record is mirrored locally and a
// session cookie is issued before redirecting into the app.
func (s *Server) AuthCallback(c *gin.Context) {
	ctx := c.Request.Context()

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		s.redirectLoginError(c, "missing_code")
		return
	}
	inviteToken := strings.TrimSpace(c.Query("invite"))

	accessToken, err := s.stackAuth.ExchangeCode(ctx, code)
	if err != nil {
		s.redirectLoginError(c, "auth_failed")
		return
	}

	extUser, err := s.stackAuth.CurrentUser(ctx, accessToken)
	if err != nil {
		s.redirectLoginError(c, "auth_failed")
		return
	}

	user, err := s.identitySvc.SyncUser(ctx, identitydomain.ExternalUser{
		ID:          extUser.ID,
		Email:       extUser.PrimaryEmail,
		DisplayName: extUser.DisplayName,
		AvatarURL:   extUser.ProfileImageURL,
	})
	if err != nil {
		s.redirectLoginError(c, "sync_failed")
		return
	}

	if _, err := s.teamSvc.EnsureUserHasTeam(ctx, user.ID, user.DisplayName); err != nil {
		s.redirectLoginError(c, "team_sync_failed")
		return
	}
	if _, err := s.teamSvc.SyncUserTeams(ctx, user.ID); err != nil {
		s.redirectLoginError(c, "team_sync_failed")
		return
	}

	result, err := s.authsvc.CreateSession(ctx, authdomain.CreateSessionRequest{
		UserID:    user.ID,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		s.redirectLoginError(c, "session_failed")
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	s.recordAudit(c, nil, user.ID, "auth.callback", "session", result.SessionID.String(), nil)

	if inviteToken != "" {
		c.Redirect(http.StatusFound, "/auth/accept-invite?token="+url.QueryEscape(inviteToken))
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) redirectLoginError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape(code))
}
