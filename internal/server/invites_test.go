package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invitedomain "github.com/kamrel/kamrel/internal/invite/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeInviteService struct {
	invitedomain.Service

	acceptResult *invitedomain.AcceptInviteResult
	acceptErr    error
	sendResult   *invitedomain.SendInviteResult
	sendErr      error
}

func (f *fakeInviteService) Accept(ctx context.Context, userID, token string) (*invitedomain.AcceptInviteResult, error) {
	return f.acceptResult, f.acceptErr
}

func (f *fakeInviteService) Send(ctx context.Context, workspaceID snowflake.ID, inviterID string, req invitedomain.SendInviteRequest) (*invitedomain.SendInviteResult, error) {
	return f.sendResult, f.sendErr
}

func authedRouter(userID string, wsID int64) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(func(c *gin.Context) {
		c.Set(contextUserIDKey, userID)
		if wsID != 0 {
			c.Set(contextWorkspaceIDKey, wsID)
		}
	})
	return router
}

func TestAcceptInviteReturnsWorkspace(t *testing.T) {
	s := &Server{inviteSvc: &fakeInviteService{
		acceptResult: &invitedomain.AcceptInviteResult{Success: true, WorkspaceID: "123", Workspace: "Espace de Camille", Role: "member"},
	}}

	router := authedRouter("usr_1", 0)
	router.POST("/api/invites/accept", s.AcceptInvite)

	req := httptest.NewRequest(http.MethodPost, "/api/invites/accept", strings.NewReader(`{"token":"tok_abc"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body invitedomain.AcceptInviteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.Workspace != "Espace de Camille" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAcceptExpiredInviteReturnsBadRequest(t *testing.T) {
	s := &Server{inviteSvc: &fakeInviteService{acceptErr: invitedomain.ErrInviteExpired}}

	router := authedRouter("usr_1", 0)
	router.POST("/api/invites/accept", s.AcceptInvite)

	req := httptest.NewRequest(http.MethodPost, "/api/invites/accept", strings.NewReader(`{"token":"tok_old"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Type)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Message != "Invitation has expired" {
		t.Fatalf("unexpected errors: %+v", body.Error.Errors)
	}
}

func TestSendInviteRejectsWorkspaceMismatch(t *testing.T) {
	s := &Server{inviteSvc: &fakeInviteService{}}

	router := authedRouter("usr_1", 42)
	router.POST("/api/workspaces/:id/invites", s.SendInvite)

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/99/invites", strings.NewReader(`{"email":"a@b.fr","role":"member"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}
