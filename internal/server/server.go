package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kamrel/kamrel/internal/audit"
	auditdomain "github.com/kamrel/kamrel/internal/audit/domain"
	"github.com/kamrel/kamrel/internal/auth"
	authdomain "github.com/kamrel/kamrel/internal/auth/domain"
	"github.com/kamrel/kamrel/internal/auth/session"
	"github.com/kamrel/kamrel/internal/authorization"
	"github.com/kamrel/kamrel/internal/chat"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	"github.com/kamrel/kamrel/internal/chat/live"
	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/file"
	filedomain "github.com/kamrel/kamrel/internal/file/domain"
	"github.com/kamrel/kamrel/internal/identity"
	identitydomain "github.com/kamrel/kamrel/internal/identity/domain"
	"github.com/kamrel/kamrel/internal/identity/stackauth"
	"github.com/kamrel/kamrel/internal/invite"
	invitedomain "github.com/kamrel/kamrel/internal/invite/domain"
	"github.com/kamrel/kamrel/internal/localimport"
	importdomain "github.com/kamrel/kamrel/internal/localimport/domain"
	"github.com/kamrel/kamrel/internal/notification"
	notificationdomain "github.com/kamrel/kamrel/internal/notification/domain"
	"github.com/kamrel/kamrel/internal/observability"
	obslogger "github.com/kamrel/kamrel/internal/observability/logger"
	obsmetrics "github.com/kamrel/kamrel/internal/observability/metrics"
	obstracing "github.com/kamrel/kamrel/internal/observability/tracing"
	"github.com/kamrel/kamrel/internal/preference"
	preferencedomain "github.com/kamrel/kamrel/internal/preference/domain"
	"github.com/kamrel/kamrel/internal/project"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	"github.com/kamrel/kamrel/internal/providers/email"
	"github.com/kamrel/kamrel/internal/ratelimit"
	"github.com/kamrel/kamrel/internal/task"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	"github.com/kamrel/kamrel/internal/team"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
	"github.com/kamrel/kamrel/internal/timeentry"
	timeentrydomain "github.com/kamrel/kamrel/internal/timeentry/domain"
	"github.com/kamrel/kamrel/internal/workspace"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	auth.Module,
	identity.Module,
	team.Module,
	workspace.Module,
	invite.Module,
	project.Module,
	task.Module,
	timeentry.Module,
	chat.Module,
	file.Module,
	notification.Module,
	preference.Module,
	localimport.Module,
	email.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	authsvc         authdomain.Service
	sessions        *session.Manager
	stackAuth       *stackauth.Client
	identitySvc     identitydomain.Service
	teamSvc         teamdomain.Service
	workspaceSvc    workspacedomain.Service
	inviteSvc       invitedomain.Service
	projectSvc      projectdomain.Service
	taskSvc         taskdomain.Service
	timeEntrySvc    timeentrydomain.Service
	chatSvc         chatdomain.Service
	chatHub         *live.Hub
	fileSvc         filedomain.Service
	notificationSvc notificationdomain.Service
	preferenceSvc   preferencedomain.Service
	importSvc       importdomain.Service
	auditSvc        auditdomain.Service
	authzSvc        authorization.Service
	limiter         *ratelimit.Limiter
	realtime        *config.RealtimeConfigHolder
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	StackAuth       *stackauth.Client
	IdentitySvc     identitydomain.Service
	TeamSvc         teamdomain.Service
	WorkspaceSvc    workspacedomain.Service
	InviteSvc       invitedomain.Service
	ProjectSvc      projectdomain.Service
	TaskSvc         taskdomain.Service
	TimeEntrySvc    timeentrydomain.Service
	ChatSvc         chatdomain.Service
	ChatHub         *live.Hub `optional:"true"`
	FileSvc         filedomain.Service
	NotificationSvc notificationdomain.Service
	PreferenceSvc   preferencedomain.Service
	ImportSvc       importdomain.Service
	AuditSvc        auditdomain.Service
	AuthzSvc        authorization.Service
	Limiter         *ratelimit.Limiter `optional:"true"`
	Realtime        *config.RealtimeConfigHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		stackAuth:       p.StackAuth,
		identitySvc:     p.IdentitySvc,
		teamSvc:         p.TeamSvc,
		workspaceSvc:    p.WorkspaceSvc,
		inviteSvc:       p.InviteSvc,
		projectSvc:      p.ProjectSvc,
		taskSvc:         p.TaskSvc,
		timeEntrySvc:    p.TimeEntrySvc,
		chatSvc:         p.ChatSvc,
		chatHub:         p.ChatHub,
		fileSvc:         p.FileSvc,
		notificationSvc: p.NotificationSvc,
		preferenceSvc:   p.PreferenceSvc,
		importSvc:       p.ImportSvc,
		auditSvc:        p.AuditSvc,
		authzSvc:        p.AuthzSvc,
		limiter:         p.Limiter,
		realtime:        p.Realtime,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.WebAuthRequired(), s.Me)
	auth.GET("/callback", s.AuthCallback)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.WebAuthRequired())

	api.POST("/teams/sync", s.SyncTeam)

	if s.cfg.Environment != "production" {
		api.POST("/test/cleanup", s.TestCleanup)
	}

	api.GET("/workspaces", s.ListWorkspaces)
	api.POST("/workspaces", s.CreateWorkspace)
	api.POST("/workspaces/default", s.CreateDefaultWorkspace)
	api.POST("/invites/accept", s.AcceptInvite)

	api.GET("/notifications", s.ListNotifications)
	api.PATCH("/notifications/:id/read", s.MarkNotificationRead)
	api.POST("/notifications/read-all", s.MarkAllNotificationsRead)
	api.DELETE("/notifications/:id", s.DeleteNotification)

	api.GET("/preferences", s.GetPreferences)
	api.PUT("/preferences", s.UpdatePreferences)

	ws := api.Group("", s.WorkspaceContext())
	{
		ws.GET("/workspaces/:id/members", s.requireAction(authorization.ObjectMember, authorization.ActionView), s.ListWorkspaceMembers)
		ws.GET("/workspaces/:id/invites", s.requireAction(authorization.ObjectInvite, authorization.ActionView), s.ListWorkspaceInvites)
		ws.POST("/workspaces/:id/invites", s.requireAction(authorization.ObjectInvite, authorization.ActionInviteSend), s.SendInvite)
		ws.DELETE("/workspaces/:id/invites/:invite_id", s.requireAction(authorization.ObjectInvite, authorization.ActionInviteRevoke), s.RevokeInvite)

		ws.GET("/projects", s.requireAction(authorization.ObjectProject, authorization.ActionView), s.ListProjects)
		ws.POST("/projects", s.requireAction(authorization.ObjectProject, authorization.ActionCreate), s.CreateProject)
		ws.GET("/projects/:id", s.requireAction(authorization.ObjectProject, authorization.ActionView), s.GetProject)
		ws.PATCH("/projects/:id", s.requireAction(authorization.ObjectProject, authorization.ActionUpdate), s.UpdateProject)
		ws.DELETE("/projects/:id", s.requireAction(authorization.ObjectProject, authorization.ActionDelete), s.DeleteProject)

		ws.GET("/tasks", s.requireAction(authorization.ObjectTask, authorization.ActionView), s.ListTasks)
		ws.POST("/tasks", s.requireAction(authorization.ObjectTask, authorization.ActionCreate), s.CreateTask)
		ws.GET("/tasks/:id", s.requireAction(authorization.ObjectTask, authorization.ActionView), s.GetTask)
		ws.PATCH("/tasks/:id", s.requireAction(authorization.ObjectTask, authorization.ActionUpdate), s.UpdateTask)
		ws.DELETE("/tasks/:id", s.requireAction(authorization.ObjectTask, authorization.ActionDelete), s.DeleteTask)

		ws.GET("/time-entries", s.requireAction(authorization.ObjectTimeEntry, authorization.ActionView), s.ListTimeEntries)
		ws.POST("/time-entries", s.requireAction(authorization.ObjectTimeEntry, authorization.ActionCreate), s.StartTimeEntry)
		ws.POST("/time-entries/:id/stop", s.requireAction(authorization.ObjectTimeEntry, authorization.ActionUpdate), s.StopTimeEntry)
		ws.DELETE("/time-entries/:id", s.requireAction(authorization.ObjectTimeEntry, authorization.ActionDelete), s.DeleteTimeEntry)

		ws.GET("/rooms", s.requireAction(authorization.ObjectChatRoom, authorization.ActionView), s.ListChatRooms)
		ws.POST("/rooms", s.requireAction(authorization.ObjectChatRoom, authorization.ActionCreate), s.CreateChatRoom)
		ws.GET("/rooms/:room_id/messages", s.requireAction(authorization.ObjectChatRoom, authorization.ActionView), s.ListChatMessages)
		ws.POST("/rooms/:room_id/messages", s.requireAction(authorization.ObjectChatMessage, authorization.ActionChatSend), s.SendChatMessage)
		ws.GET("/rooms/:room_id/stream", s.requireAction(authorization.ObjectChatRoom, authorization.ActionView), s.StreamChatRoom)
		ws.DELETE("/rooms/:room_id/messages/:message_id", s.DeleteChatMessage)

		ws.POST("/files", s.requireAction(authorization.ObjectFile, authorization.ActionFileUpload), s.UploadFile)
		ws.GET("/files", s.requireAction(authorization.ObjectFile, authorization.ActionView), s.ListFiles)
		ws.GET("/files/:id", s.requireAction(authorization.ObjectFile, authorization.ActionView), s.GetFile)
		ws.GET("/files/:id/download", s.requireAction(authorization.ObjectFile, authorization.ActionView), s.DownloadFile)
		ws.DELETE("/files/:id", s.requireAction(authorization.ObjectFile, authorization.ActionDelete), s.DeleteFile)

		ws.POST("/import", s.requireAction(authorization.ObjectImport, authorization.ActionImportRun), s.RunImport)
		ws.GET("/import/status", s.requireAction(authorization.ObjectImport, authorization.ActionImportRun), s.ImportStatus)

		ws.GET("/audit-logs", s.requireAction(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)
	}
}
