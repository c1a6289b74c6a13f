package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamrel/kamrel/internal/clock"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	"github.com/kamrel/kamrel/internal/team/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeProvider struct {
	mu      sync.Mutex
	teams   map[string][]teamdomain.TeamInput
	created []teamdomain.TeamInput
}

func (f *fakeProvider) ListProviderTeams(_ context.Context, userID string) ([]teamdomain.TeamInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]teamdomain.TeamInput(nil), f.teams[userID]...), nil
}

func (f *fakeProvider) CreateProviderTeam(_ context.Context, userID, displayName string) (*teamdomain.TeamInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	team := teamdomain.TeamInput{ID: uuid.NewString(), DisplayName: displayName}
	f.teams[userID] = append(f.teams[userID], team)
	f.created = append(f.created, team)
	return &team, nil
}

func newTestService(t *testing.T, provider *fakeProvider) (teamdomain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&teamdomain.Team{}, &teamdomain.TeamMember{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := New(Params{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:     repository.New(dbConn),
		Provider: provider,
	})
	return svc, dbConn
}

func TestEnsureUserHasTeamCreatesExactlyOne(t *testing.T) {
	provider := &fakeProvider{teams: map[string][]teamdomain.TeamInput{}}
	svc, dbConn := newTestService(t, provider)

	team, err := svc.EnsureUserHasTeam(context.Background(), "usr_1", "Alice")
	require.NoError(t, err)
	require.Equal(t, "Équipe de Alice", team.DisplayName)

	var count int64
	require.NoError(t, dbConn.Model(&teamdomain.Team{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var member teamdomain.TeamMember
	require.NoError(t, dbConn.Where("user_id = ?", "usr_1").First(&member).Error)
	require.Equal(t, teamdomain.RoleAdmin, member.Role)
}

func TestEnsureUserHasTeamReusesProviderTeam(t *testing.T) {
	provider := &fakeProvider{teams: map[string][]teamdomain.TeamInput{
		"usr_1": {{ID: "team_a", DisplayName: "Existing"}},
	}}
	svc, _ := newTestService(t, provider)

	team, err := svc.EnsureUserHasTeam(context.Background(), "usr_1", "Alice")
	require.NoError(t, err)
	require.Equal(t, "team_a", team.ID)
	require.Empty(t, provider.created)
}

func TestEnsureUserHasTeamConcurrentCallsCreateOneTeam(t *testing.T) {
	provider := &fakeProvider{teams: map[string][]teamdomain.TeamInput{}}
	svc, dbConn := newTestService(t, provider)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.EnsureUserHasTeam(context.Background(), "usr_1", "Alice")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, dbConn.Model(&teamdomain.Team{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.Len(t, provider.created, 1)
}

func TestSyncUserTeamsMirrorsAllMemberships(t *testing.T) {
	provider := &fakeProvider{teams: map[string][]teamdomain.TeamInput{
		"usr_1": {
			{ID: "team_a", DisplayName: "Alpha"},
			{ID: "team_b", DisplayName: "Beta"},
		},
	}}
	svc, _ := newTestService(t, provider)

	teams, err := svc.SyncUserTeams(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Len(t, teams, 2)

	listed, err := svc.ListForUser(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
}
