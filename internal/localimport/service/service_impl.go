package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	"github.com/kamrel/kamrel/internal/clock"
	"github.com/kamrel/kamrel/internal/config"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	"github.com/kamrel/kamrel/internal/localimport/domain"
	notificationdomain "github.com/kamrel/kamrel/internal/notification/domain"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	preferencedomain "github.com/kamrel/kamrel/internal/preference/domain"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	"github.com/kamrel/kamrel/internal/ratelimit"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	"github.com/kamrel/kamrel/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const importLockTTL = 10 * time.Minute

type service struct {
	log           *zap.Logger
	cfg           *config.RealtimeConfigHolder
	checkpoints   domain.CheckpointRepository
	users         identitydomain.Repository
	teams         teamdomain.Repository
	projects      projectdomain.Repository
	tasks         taskdomain.Repository
	chats         chatdomain.Repository
	notifications notificationdomain.Repository
	preferences   preferencedomain.Repository
	limiter       *ratelimit.Limiter
	metrics       *metrics.Metrics
	clock         clock.Clock
}

type Params struct {
	fx.In

	Log           *zap.Logger
	Cfg           *config.RealtimeConfigHolder
	Checkpoints   domain.CheckpointRepository
	Users         identitydomain.Repository
	Teams         teamdomain.Repository
	Projects      projectdomain.Repository
	Tasks         taskdomain.Repository
	Chats         chatdomain.Repository
	Notifications notificationdomain.Repository
	Preferences   preferencedomain.Repository
	Limiter       *ratelimit.Limiter
	Metrics       *metrics.Metrics
	Clock         clock.Clock
}

func New(p Params) domain.Service {
	return &service{
		log:           p.Log.Named("localimport.service"),
		cfg:           p.Cfg,
		checkpoints:   p.Checkpoints,
		users:         p.Users,
		teams:         p.Teams,
		projects:      p.Projects,
		tasks:         p.Tasks,
		chats:         p.Chats,
		notifications: p.Notifications,
		preferences:   p.Preferences,
		limiter:       p.Limiter,
		metrics:       p.Metrics,
		clock:         p.Clock,
	}
}

func (s *service) Run(ctx context.Context, userID string, workspaceID snowflake.ID, req domain.Request) (*domain.Report, error) {
	if err := s.checkBatchSize(req.Data); err != nil {
		return nil, err
	}

	checkpoint, err := s.checkpoints.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if checkpoint != nil && checkpoint.Status == domain.StatusCompleted && !req.Force {
		return &domain.Report{Status: domain.StatusCompleted, Skipped: true}, nil
	}

	lockToken, locked, err := s.limiter.TryLockImport(ctx, userID, importLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, domain.ErrImportRunning
	}
	defer func() {
		if err := s.limiter.ReleaseImport(ctx, userID, lockToken); err != nil {
			s.log.Warn("failed to release import lock", zap.Error(err))
		}
	}()

	now := s.clock.Now()
	if err := s.checkpoints.Upsert(ctx, &domain.ImportCheckpoint{
		UserID:         userID,
		Status:         domain.StatusRunning,
		ImportedCounts: datatypes.JSON([]byte("{}")),
		StartedAt:      &now,
		UpdatedAt:      now,
	}); err != nil {
		return nil, err
	}

	counts := map[string]domain.CategoryCount{
		"teams":            s.importTeams(ctx, userID, req.Data.Teams),
		"team_members":     s.importTeamMembers(ctx, req.Data.TeamMembers),
		"projects":         s.importProjects(ctx, workspaceID, userID, req.Data.Projects),
		"tasks":            s.importTasks(ctx, workspaceID, userID, req.Data.Tasks),
		"messages":         s.importMessages(ctx, workspaceID, userID, req.Data.Messages),
		"user_preferences": s.importPreferences(ctx, userID, req.Data.UserPreferences),
		"user_profile":     s.importProfile(ctx, userID, req.Data.UserProfile),
		"notifications":    s.importNotifications(ctx, workspaceID, userID, req.Data.Notifications),
	}

	for entity, count := range counts {
		if count.Imported > 0 {
			s.metrics.RecordImportRows(ctx, entity, int64(count.Imported))
		}
	}

	countsJSON, err := json.Marshal(counts)
	if err != nil {
		countsJSON = []byte("{}")
	}

	done := s.clock.Now()
	if err := s.checkpoints.Upsert(ctx, &domain.ImportCheckpoint{
		UserID:         userID,
		Status:         domain.StatusCompleted,
		ImportedCounts: datatypes.JSON(countsJSON),
		StartedAt:      &now,
		CompletedAt:    &done,
		UpdatedAt:      done,
	}); err != nil {
		return nil, err
	}

	return &domain.Report{Status: domain.StatusCompleted, Counts: counts}, nil
}

func (s *service) Status(ctx context.Context, userID string) (*domain.ImportCheckpoint, error) {
	checkpoint, err := s.checkpoints.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return &domain.ImportCheckpoint{UserID: userID, Status: domain.StatusPending}, nil
	}
	return checkpoint, nil
}

func (s *service) checkBatchSize(data domain.Payload) error {
	max := s.cfg.Get().ImportMaxBatchSize
	for category, size := range map[string]int{
		"teams":         len(data.Teams),
		"team_members":  len(data.TeamMembers),
		"projects":      len(data.Projects),
		"tasks":         len(data.Tasks),
		"messages":      len(data.Messages),
		"notifications": len(data.Notifications),
	} {
		if size > max {
			s.log.Warn("import batch too large",
				zap.String("category", category),
				zap.Int("size", size),
				zap.Int("max", max))
			return domain.ErrBatchTooLarge
		}
	}
	return nil
}

func (s *service) importTeams(ctx context.Context, callerID string, records []domain.TeamRecord) domain.CategoryCount {
	var count domain.CategoryCount
	now := s.clock.Now()
	for _, record := range records {
		if strings.TrimSpace(record.ID) == "" {
			count.Failed++
			continue
		}
		err := s.teams.UpsertTeam(ctx, &teamdomain.Team{
			ID:          record.ID,
			DisplayName: record.DisplayName,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err == nil {
			// The exported team names its owner; keep that linkage as an
			// admin membership, falling back to whoever runs the import.
			owner := strings.TrimSpace(record.OwnerID)
			if owner == "" {
				owner = callerID
			}
			err = s.teams.UpsertMember(ctx, &teamdomain.TeamMember{
				TeamID:    record.ID,
				UserID:    owner,
				Role:      teamdomain.RoleAdmin,
				CreatedAt: now,
			})
		}
		s.tally(&count, "teams", record.ID, err)
	}
	return count
}

func (s *service) importTeamMembers(ctx context.Context, records []domain.TeamMemberRecord) domain.CategoryCount {
	var count domain.CategoryCount
	now := s.clock.Now()
	for _, record := range records {
		if record.TeamID == "" || record.UserID == "" {
			count.Failed++
			continue
		}
		role := teamdomain.RoleMember
		if record.Role == "admin" {
			role = teamdomain.RoleAdmin
		}
		err := s.teams.UpsertMember(ctx, &teamdomain.TeamMember{
			TeamID:    record.TeamID,
			UserID:    record.UserID,
			Role:      role,
			CreatedAt: now,
		})
		s.tally(&count, "team_members", record.TeamID+"/"+record.UserID, err)
	}
	return count
}

func (s *service) importProjects(ctx context.Context, workspaceID snowflake.ID, userID string, records []domain.ProjectRecord) domain.CategoryCount {
	var count domain.CategoryCount
	now := s.clock.Now()
	for _, record := range records {
		if record.ID == "" || strings.TrimSpace(record.Name) == "" {
			count.Failed++
			continue
		}
		status := record.Status
		if !projectdomain.ValidStatus(status) {
			status = projectdomain.StatusActive
		}
		priority := record.Priority
		if priority == "" {
			priority = "medium"
		}
		err := s.projects.Upsert(ctx, &projectdomain.Project{
			ID:          importedID(workspaceID, "projects", record.ID),
			WorkspaceID: workspaceID,
			Name:        record.Name,
			Description: record.Description,
			Color:       record.Color,
			Status:      status,
			Priority:    priority,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		s.tally(&count, "projects", record.ID, err)
	}
	return count
}

func (s *service) importTasks(ctx context.Context, workspaceID snowflake.ID, userID string, records []domain.TaskRecord) domain.CategoryCount {
	var count domain.CategoryCount
	now := s.clock.Now()
	for _, record := range records {
		if record.ID == "" || strings.TrimSpace(record.Title) == "" {
			count.Failed++
			continue
		}
		status := record.Status
		if !taskdomain.ValidStatus(status) {
			status = taskdomain.StatusTodo
		}
		priority := record.Priority
		if priority == "" {
			priority = "medium"
		}
		progress := record.Progress
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}

		task := &taskdomain.Task{
			ID:          importedID(workspaceID, "tasks", record.ID),
			WorkspaceID: workspaceID,
			Title:       record.Title,
			Description: record.Description,
			Status:      status,
			Priority:    priority,
			DueDate:     record.DueDate,
			Progress:    progress,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if record.ProjectID != "" {
			projectID := importedID(workspaceID, "projects", record.ProjectID)
			task.ProjectID = &projectID
		}
		s.tally(&count, "tasks", record.ID, s.tasks.Upsert(ctx, task))
	}
	return count
}

func (s *service) importMessages(ctx context.Context, workspaceID snowflake.ID, userID string, records []domain.MessageRecord) domain.CategoryCount {
	var count domain.CategoryCount
	now := s.clock.Now()
	rooms := make(map[string]snowflake.ID)

	for _, record := range records {
		if record.ID == "" || record.RoomID == "" {
			count.Failed++
			continue
		}

		roomID, ok := rooms[record.RoomID]
		if !ok {
			roomID = importedID(workspaceID, "chat_rooms", record.RoomID)
			err := s.chats.UpsertRoom(ctx, &chatdomain.ChatRoom{
				ID:          roomID,
				WorkspaceID: workspaceID,
				Name:        record.RoomID,
				CreatedBy:   userID,
				CreatedAt:   now,
			})
			if err != nil {
				count.Failed++
				s.logFailure("messages", record.ID, err)
				continue
			}
			rooms[record.RoomID] = roomID
		}

		sender := record.Sender
		if sender == "" {
			sender = userID
		}
		sentAt := record.SentAt
		if sentAt.IsZero() {
			sentAt = now
		}
		err := s.chats.UpsertMessage(ctx, &chatdomain.ChatMessage{
			ID:        importedID(workspaceID, "chat_messages", record.ID),
			RoomID:    roomID,
			MessageID: record.ID,
			SenderID:  sender,
			Body:      record.Body,
			SentAt:    sentAt,
			CreatedAt: now,
		})
		s.tally(&count, "messages", record.ID, err)
	}
	return count
}

func (s *service) importPreferences(ctx context.Context, userID string, record *domain.PreferenceRecord) domain.CategoryCount {
	var count domain.CategoryCount
	if record == nil {
		return count
	}

	pref := &preferencedomain.UserPreference{
		UserID:    userID,
		Theme:     record.Theme,
		Locale:    record.Locale,
		Timezone:  record.Timezone,
		Settings:  datatypes.JSON([]byte("{}")),
		UpdatedAt: s.clock.Now(),
	}
	if !preferencedomain.ValidTheme(pref.Theme) {
		pref.Theme = "system"
	}
	if pref.Locale == "" {
		pref.Locale = "fr"
	}
	if pref.Timezone == "" {
		pref.Timezone = "UTC"
	}
	s.tally(&count, "user_preferences", userID, s.preferences.Upsert(ctx, pref))
	return count
}

func (s *service) importProfile(ctx context.Context, userID string, record *domain.ProfileRecord) domain.CategoryCount {
	var count domain.CategoryCount
	if record == nil {
		return count
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if name := strings.TrimSpace(record.DisplayName); name != "" {
		fields["display_name"] = name
	}
	if avatar := strings.TrimSpace(record.AvatarURL); avatar != "" {
		fields["avatar_url"] = avatar
	}
	s.tally(&count, "user_profile", userID, s.users.UpdateFields(ctx, userID, fields))
	return count
}

func (s *service) importNotifications(ctx context.Context, workspaceID snowflake.ID, userID string, records []domain.NotificationRecord) domain.CategoryCount {
	var count domain.CategoryCount
	now := s.clock.Now()
	for _, record := range records {
		if record.ID == "" {
			count.Failed++
			continue
		}
		kind := record.Kind
		if kind == "" {
			kind = "imported"
		}
		notification := &notificationdomain.Notification{
			ID:          importedID(workspaceID, "notifications", record.ID),
			UserID:      userID,
			WorkspaceID: &workspaceID,
			Kind:        kind,
			Title:       record.Title,
			Body:        record.Body,
			Payload:     datatypes.JSON([]byte("{}")),
			ExpiresAt:   record.ExpiresAt,
			CreatedAt:   now,
		}
		if record.IsRead {
			readAt := now
			if !record.SentAt.IsZero() {
				readAt = record.SentAt
			}
			notification.ReadAt = &readAt
		}
		s.tally(&count, "notifications", record.ID, s.notifications.Upsert(ctx, notification))
	}
	return count
}

func (s *service) tally(count *domain.CategoryCount, category, recordID string, err error) {
	if err == nil || db.IsDuplicateKeyErr(err) {
		count.Imported++
		return
	}
	count.Failed++
	s.logFailure(category, recordID, err)
}

func (s *service) logFailure(category, recordID string, err error) {
	s.log.Warn("import record failed",
		zap.String("category", category),
		zap.String("record_id", recordID),
		zap.Error(err))
}

// importedID derives a stable row id from the client's string key, so
// re-importing the same record overwrites instead of duplicating.
func importedID(workspaceID snowflake.ID, category, clientID string) snowflake.ID {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s:%s", workspaceID, category, clientID)
	return snowflake.ID(int64(h.Sum64() & (1<<63 - 1)))
}
