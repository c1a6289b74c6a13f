package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	invitedomain "github.com/kamrel/kamrel/internal/invite/domain"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
)

type fakeWorkspaceService struct {
	workspacedomain.Service

	defaultResult *workspacedomain.DefaultWorkspaceResult
	defaultErr    error
	defaultCalls  int
}

func (f *fakeWorkspaceService) CreateDefault(ctx context.Context, userID string) (*workspacedomain.DefaultWorkspaceResult, error) {
	f.defaultCalls++
	return f.defaultResult, f.defaultErr
}

func TestCreateDefaultWorkspaceProvisions(t *testing.T) {
	workspaces := &fakeWorkspaceService{
		defaultResult: &workspacedomain.DefaultWorkspaceResult{WorkspaceID: "123", WorkspaceName: "Espace de Camille"},
	}
	s := &Server{workspaceSvc: workspaces}

	router := authedRouter("usr_1", 0)
	router.POST("/api/workspaces/default", s.CreateDefaultWorkspace)

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/default", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body workspacedomain.DefaultWorkspaceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.WorkspaceName != "Espace de Camille" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if workspaces.defaultCalls != 1 {
		t.Fatalf("expected one CreateDefault call, got %d", workspaces.defaultCalls)
	}
}

func TestCreateDefaultWorkspaceWithInviteJoinsInstead(t *testing.T) {
	workspaces := &fakeWorkspaceService{}
	invites := &fakeInviteService{
		acceptResult: &invitedomain.AcceptInviteResult{Success: true, WorkspaceID: "777", Workspace: "Équipe produit", Role: "member"},
	}
	s := &Server{workspaceSvc: workspaces, inviteSvc: invites}

	router := authedRouter("usr_2", 0)
	router.POST("/api/workspaces/default", s.CreateDefaultWorkspace)

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/default", strings.NewReader(`{"invite_token":"tok_join"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if workspaces.defaultCalls != 0 {
		t.Fatalf("provisioning must be skipped when an invite rides along")
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if joined, _ := body["joined"].(bool); !joined {
		t.Fatalf("expected joined=true, got %v", body)
	}
	if body["workspace_name"] != "Équipe produit" {
		t.Fatalf("unexpected workspace name: %v", body["workspace_name"])
	}
	if body["workspace_id"] != "777" {
		t.Fatalf("expected joined workspace id in response, got %v", body["workspace_id"])
	}
}
