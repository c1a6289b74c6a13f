package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/kamrel/kamrel/internal/auth/domain"
	"github.com/kamrel/kamrel/internal/auth/repository"
	"github.com/kamrel/kamrel/internal/clock"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	identityrepo "github.com/kamrel/kamrel/internal/identity/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (authdomain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&identitydomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users, _ := identityrepo.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	if err := users.Create(context.Background(), &identitydomain.User{
		ID:    "usr_1",
		Email: "alice@example.com",
	}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(zap.NewNop(), clk, users, repository.New(dbConn), node), clk
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.SetPassword(context.Background(), "usr_1", "correct-password"); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWithoutLocalPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "anything",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateSessionAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.CreateSession(context.Background(), authdomain.CreateSessionRequest{UserID: "usr_1"})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected raw token")
	}

	session, err := svc.Authenticate(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if session.UserID != "usr_1" {
		t.Fatalf("expected usr_1, got %s", session.UserID)
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, clk := newTestService(t)

	result, err := svc.CreateSession(context.Background(), authdomain.CreateSessionRequest{UserID: "usr_1"})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	clk.Advance(8 * 24 * time.Hour)

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	if err != authdomain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.CreateSession(context.Background(), authdomain.CreateSessionRequest{UserID: "usr_1"})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	if err != authdomain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}
