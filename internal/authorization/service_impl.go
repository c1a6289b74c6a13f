package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/kamrel/kamrel/internal/audit/domain"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectWorkspace    = "workspace"
	ObjectMember       = "member"
	ObjectInvite       = "invite"
	ObjectProject      = "project"
	ObjectTask         = "task"
	ObjectTimeEntry    = "time_entry"
	ObjectChatRoom     = "chat_room"
	ObjectChatMessage  = "chat_message"
	ObjectFile         = "file"
	ObjectNotification = "notification"
	ObjectAuditLog     = "audit_log"
	ObjectImport       = "import"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionInviteSend   = "send"
	ActionInviteRevoke = "revoke"
	ActionMemberRemove = "remove"
	ActionChatSend     = "send"
	ActionFileUpload   = "upload"
	ActionImportRun    = "run"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Enforcer   *casbin.SyncedEnforcer
	Workspaces workspacedomain.Service
	Audit      auditdomain.Service `optional:"true"`
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	enforcer   *casbin.SyncedEnforcer
	workspaces workspacedomain.Service
	audit      auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func New(p Params) Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("authorization.service"),
		enforcer:   p.Enforcer,
		workspaces: p.Workspaces,
		audit:      p.Audit,
	}
}

func (s *service) Authorize(ctx context.Context, userID string, workspaceID snowflake.ID, object, action string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidActor
	}
	if workspaceID == 0 {
		return ErrInvalidWorkspace
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", userID)
	domain := fmt.Sprintf("ws:%s", workspaceID.String())

	role, err := s.workspaces.MemberRole(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, workspacedomain.ErrNotMember) {
			s.auditDenied(ctx, userID, workspaceID, object, action)
			return ErrForbidden
		}
		return err
	}
	roleName := fmt.Sprintf("role:%s", strings.ToLower(role))

	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, userID, workspaceID, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps the subject's role link in the domain aligned
// with the membership row, replacing stale links from a previous role.
func (s *service) ensureGrouping(subject, roleName, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		_, _ = s.enforcer.RemoveGroupingPolicy(params...)
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *service) auditDenied(ctx context.Context, userID string, workspaceID snowflake.ID, object, action string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, auditdomain.Entry{
		WorkspaceID:  &workspaceID,
		ActorID:      userID,
		Action:       "authorization.denied",
		ResourceType: "authorization",
		Metadata: map[string]any{
			"object": object,
			"action": action,
		},
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	memberPolicies := [][]string{
		{ObjectWorkspace, ActionView},
		{ObjectMember, ActionView},
		{ObjectProject, ActionView},
		{ObjectProject, ActionCreate},
		{ObjectProject, ActionUpdate},
		{ObjectTask, ActionView},
		{ObjectTask, ActionCreate},
		{ObjectTask, ActionUpdate},
		{ObjectTimeEntry, ActionView},
		{ObjectTimeEntry, ActionCreate},
		{ObjectTimeEntry, ActionUpdate},
		{ObjectTimeEntry, ActionDelete},
		{ObjectChatRoom, ActionView},
		{ObjectChatMessage, ActionChatSend},
		{ObjectFile, ActionView},
		{ObjectFile, ActionFileUpload},
		{ObjectNotification, ActionView},
		{ObjectImport, ActionImportRun},
	}

	adminOnly := [][]string{
		{ObjectWorkspace, ActionUpdate},
		{ObjectMember, ActionUpdate},
		{ObjectInvite, ActionView},
		{ObjectInvite, ActionInviteSend},
		{ObjectInvite, ActionInviteRevoke},
		{ObjectProject, ActionDelete},
		{ObjectTask, ActionDelete},
		{ObjectChatRoom, ActionCreate},
		{ObjectChatMessage, ActionDelete},
		{ObjectFile, ActionDelete},
		{ObjectAuditLog, ActionView},
	}

	ownerOnly := [][]string{
		{ObjectWorkspace, ActionDelete},
		{ObjectMember, ActionMemberRemove},
	}

	adminPolicies := append(append([][]string{}, memberPolicies...), adminOnly...)
	ownerPolicies := append(append([][]string{}, adminPolicies...), ownerOnly...)

	for role, policies := range map[string][][]string{
		"role:member": memberPolicies,
		"role:admin":  adminPolicies,
		"role:owner":  ownerPolicies,
	} {
		for _, policy := range policies {
			if _, err := enforcer.AddPolicy(role, policy[0], policy[1]); err != nil {
				return err
			}
		}
	}
	return nil
}
