package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/kamrel/kamrel/internal/auth/domain"
	"github.com/kamrel/kamrel/internal/auth/session"
	"github.com/kamrel/kamrel/internal/config"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
)

type fakeAuthService struct {
	authdomain.Service

	session *authdomain.Session
	err     error
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, error) {
	return f.session, f.err
}

type memberRoles struct {
	workspacedomain.Service
	roles map[string]string
}

func (m *memberRoles) MemberRole(ctx context.Context, workspaceID snowflake.ID, userID string) (string, error) {
	role, ok := m.roles[userID]
	if !ok {
		return "", workspacedomain.ErrNotMember
	}
	return role, nil
}

func TestWebAuthRequiredRejectsMissingCookie(t *testing.T) {
	s := &Server{
		sessions: session.NewManager(config.Config{}),
		authsvc:  &fakeAuthService{},
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/protected", s.WebAuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWebAuthRequiredAcceptsValidSession(t *testing.T) {
	s := &Server{
		sessions: session.NewManager(config.Config{}),
		authsvc:  &fakeAuthService{session: &authdomain.Session{UserID: "usr_1"}},
	}

	var seenUser string
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/protected", s.WebAuthRequired(), func(c *gin.Context) {
		seenUser, _ = userID(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "tok_valid"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if seenUser != "usr_1" {
		t.Fatalf("expected user id from session, got %q", seenUser)
	}
}

func TestWorkspaceContextRequiresHeader(t *testing.T) {
	s := &Server{workspaceSvc: &memberRoles{roles: map[string]string{}}}

	router := authedRouter("usr_1", 0)
	router.GET("/scoped", s.WorkspaceContext(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWorkspaceContextRejectsNonMember(t *testing.T) {
	s := &Server{workspaceSvc: &memberRoles{roles: map[string]string{}}}

	router := authedRouter("usr_1", 0)
	router.GET("/scoped", s.WorkspaceContext(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set(HeaderWorkspace, "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWorkspaceContextScopesRequest(t *testing.T) {
	s := &Server{workspaceSvc: &memberRoles{roles: map[string]string{"usr_1": workspacedomain.RoleMember}}}

	var seenWorkspace snowflake.ID
	router := authedRouter("usr_1", 0)
	router.GET("/scoped", s.WorkspaceContext(), func(c *gin.Context) {
		seenWorkspace, _ = workspaceID(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set(HeaderWorkspace, "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if seenWorkspace != snowflake.ID(42) {
		t.Fatalf("expected workspace 42, got %d", seenWorkspace)
	}
}
