package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	chatrepo "github.com/kamrel/kamrel/internal/chat/repository"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	identityrepo "github.com/kamrel/kamrel/internal/identity/repository"
	"github.com/kamrel/kamrel/internal/localimport/domain"
	localimportrepo "github.com/kamrel/kamrel/internal/localimport/repository"
	notificationdomain "github.com/kamrel/kamrel/internal/notification/domain"
	notificationrepo "github.com/kamrel/kamrel/internal/notification/repository"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	preferencedomain "github.com/kamrel/kamrel/internal/preference/domain"
	preferencerepo "github.com/kamrel/kamrel/internal/preference/repository"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	projectrepo "github.com/kamrel/kamrel/internal/project/repository"
	"github.com/kamrel/kamrel/internal/ratelimit"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	taskrepo "github.com/kamrel/kamrel/internal/task/repository"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	teamrepo "github.com/kamrel/kamrel/internal/team/repository"
	"github.com/kamrel/kamrel/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	svc      domain.Service
	db       *gorm.DB
	clock    *clock.FakeClock
	projects projectdomain.Repository
	tasks    taskdomain.Repository
	chats    chatdomain.Repository
	wsID     snowflake.ID
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&identitydomain.User{},
		&teamdomain.Team{},
		&teamdomain.TeamMember{},
		&projectdomain.Project{},
		&taskdomain.Task{},
		&chatdomain.ChatRoom{},
		&chatdomain.ChatMessage{},
		&notificationdomain.Notification{},
		&preferencedomain.UserPreference{},
		&domain.ImportCheckpoint{},
	))

	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	holder := config.NewStaticRealtimeConfigHolder(config.DefaultRealtimeConfig())
	m := metrics.NewNop()
	limiter := ratelimit.NewLimiter(zap.NewNop(), config.Config{}, holder, m)

	users, _ := identityrepo.New(dbConn)
	require.NoError(t, users.Create(context.Background(), &identitydomain.User{
		ID:    "usr_1",
		Email: "alice@example.com",
	}))

	projects := projectrepo.New(dbConn)
	tasks := taskrepo.New(dbConn)
	chats := chatrepo.New(dbConn)

	svc := New(Params{
		Log:           zap.NewNop(),
		Cfg:           holder,
		Checkpoints:   localimportrepo.New(dbConn),
		Users:         users,
		Teams:         teamrepo.New(dbConn),
		Projects:      projects,
		Tasks:         tasks,
		Chats:         chats,
		Notifications: notificationrepo.New(dbConn),
		Preferences:   preferencerepo.New(dbConn),
		Limiter:       limiter,
		Metrics:       m,
		Clock:         clk,
	})

	return &env{
		svc:      svc,
		db:       dbConn,
		clock:    clk,
		projects: projects,
		tasks:    tasks,
		chats:    chats,
		wsID:     snowflake.ID(42),
	}
}

func samplePayload() domain.Payload {
	due := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	return domain.Payload{
		Teams: []domain.TeamRecord{
			{ID: "team_1", DisplayName: "Équipe de Alice", OwnerID: "usr_1"},
		},
		TeamMembers: []domain.TeamMemberRecord{
			{TeamID: "team_1", UserID: "usr_1", Role: "admin"},
		},
		Projects: []domain.ProjectRecord{
			{ID: "p1", Name: "Refonte du site", Status: "active", Priority: "high"},
		},
		Tasks: []domain.TaskRecord{
			{ID: "t1", ProjectID: "p1", Title: "Maquettes", Status: "in_progress", DueDate: &due, Progress: 40},
		},
		Messages: []domain.MessageRecord{
			{ID: "msg_1", RoomID: "général", Body: "bonjour", SentAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		},
		UserPreferences: &domain.PreferenceRecord{Theme: "dark", Locale: "fr", Timezone: "Europe/Paris"},
		UserProfile:     &domain.ProfileRecord{DisplayName: "Alice Martin"},
		Notifications: []domain.NotificationRecord{
			{ID: "n1", Kind: "mention", Title: "Nouveau message", IsRead: true, SentAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)},
		},
	}
}

func TestRunImportsAllCategories(t *testing.T) {
	e := newTestEnv(t)

	report, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: samplePayload()})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, report.Status)
	require.False(t, report.Skipped)

	for _, category := range []string{"teams", "team_members", "projects", "tasks", "messages", "user_preferences", "user_profile", "notifications"} {
		require.Equal(t, 1, report.Counts[category].Imported, category)
		require.Equal(t, 0, report.Counts[category].Failed, category)
	}

	projects, err := e.projects.List(context.Background(), e.wsID, snowflake.ID(0), 10)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Refonte du site", projects[0].Name)

	var user identitydomain.User
	require.NoError(t, e.db.First(&user, "id = ?", "usr_1").Error)
	require.Equal(t, "Alice Martin", user.DisplayName)
}

func TestRunTwiceOverwritesInsteadOfDuplicating(t *testing.T) {
	e := newTestEnv(t)

	payload := samplePayload()
	_, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: payload})
	require.NoError(t, err)

	payload.Projects[0].Name = "Refonte du site v2"
	report, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Force: true, Data: payload})
	require.NoError(t, err)
	require.Equal(t, 1, report.Counts["projects"].Imported)

	projects, err := e.projects.List(context.Background(), e.wsID, snowflake.ID(0), 10)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Refonte du site v2", projects[0].Name)

	var messageCount int64
	require.NoError(t, e.db.Model(&chatdomain.ChatMessage{}).Count(&messageCount).Error)
	require.Equal(t, int64(1), messageCount)
}

func TestCompletedCheckpointSkipsSecondRun(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: samplePayload()})
	require.NoError(t, err)

	report, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: samplePayload()})
	require.NoError(t, err)
	require.True(t, report.Skipped)
	require.Equal(t, domain.StatusCompleted, report.Status)
}

func TestImportedTeamKeepsOwner(t *testing.T) {
	e := newTestEnv(t)

	payload := domain.Payload{
		Teams: []domain.TeamRecord{
			{ID: "t1", DisplayName: "Équipe locale", OwnerID: "usr_1"},
		},
	}

	report, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: payload})
	require.NoError(t, err)
	require.Equal(t, 1, report.Counts["teams"].Imported)

	var team teamdomain.Team
	require.NoError(t, e.db.First(&team, "id = ?", "t1").Error)
	require.Equal(t, "Équipe locale", team.DisplayName)

	var member teamdomain.TeamMember
	require.NoError(t, e.db.First(&member, "team_id = ? AND user_id = ?", "t1", "usr_1").Error)
	require.Equal(t, teamdomain.RoleAdmin, member.Role)
}

func TestImportedTeamWithoutOwnerFallsBackToCaller(t *testing.T) {
	e := newTestEnv(t)

	payload := domain.Payload{
		Teams: []domain.TeamRecord{
			{ID: "t2", DisplayName: "Sans propriétaire"},
		},
	}

	_, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: payload})
	require.NoError(t, err)

	var member teamdomain.TeamMember
	require.NoError(t, e.db.First(&member, "team_id = ? AND user_id = ?", "t2", "usr_1").Error)
	require.Equal(t, teamdomain.RoleAdmin, member.Role)
}

func TestBadRecordDoesNotAbortBatch(t *testing.T) {
	e := newTestEnv(t)

	payload := samplePayload()
	payload.Tasks = append(payload.Tasks, domain.TaskRecord{ID: "t2", Title: "   "})

	report, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: payload})
	require.NoError(t, err)
	require.Equal(t, 1, report.Counts["tasks"].Imported)
	require.Equal(t, 1, report.Counts["tasks"].Failed)
}

func TestBatchTooLarge(t *testing.T) {
	e := newTestEnv(t)

	payload := domain.Payload{}
	for i := 0; i < config.DefaultRealtimeConfig().ImportMaxBatchSize+1; i++ {
		payload.Teams = append(payload.Teams, domain.TeamRecord{ID: "team", DisplayName: "x"})
	}

	_, err := e.svc.Run(context.Background(), "usr_1", e.wsID, domain.Request{Data: payload})
	require.ErrorIs(t, err, domain.ErrBatchTooLarge)
}

func TestStatusBeforeAnyRun(t *testing.T) {
	e := newTestEnv(t)

	checkpoint, err := e.svc.Status(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, checkpoint.Status)
}
