package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kamrel/kamrel/internal/config"
	"github.com/kamrel/kamrel/internal/observability/metrics"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyChatSend   = "chat:send:%s"
	keyInviteSend = "invite:send:%s"
	keyImportLock = "import:lock:%s"
)

// Limiter throttles chat sends per user and invite sends per workspace.
// When no Redis address is configured everything is allowed.
type Limiter struct {
	enabled bool

	log     *zap.Logger
	cfg     *config.RealtimeConfigHolder
	bucket  *TokenBucket
	locker  *Locker
	metrics *metrics.Metrics
}

func NewLimiter(log *zap.Logger, cfg config.Config, realtime *config.RealtimeConfigHolder, m *metrics.Metrics) *Limiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return &Limiter{enabled: false, log: log.Named("ratelimit"), cfg: realtime, metrics: m}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &Limiter{
		enabled: true,
		log:     log.Named("ratelimit"),
		cfg:     realtime,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		metrics: m,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowChatSend enforces the per-user message rate.
func (l *Limiter) AllowChatSend(ctx context.Context, userID string) bool {
	if !l.Enabled() {
		return true
	}
	perMinute := l.cfg.Get().MessagesPerMinute
	return l.allow(ctx, fmt.Sprintf(keyChatSend, userID), float64(perMinute)/60, perMinute, "chat_send")
}

// AllowInviteSend enforces the per-workspace invite rate.
func (l *Limiter) AllowInviteSend(ctx context.Context, workspaceID string) bool {
	if !l.Enabled() {
		return true
	}
	perHour := l.cfg.Get().InvitesPerHour
	return l.allow(ctx, fmt.Sprintf(keyInviteSend, workspaceID), float64(perHour)/3600, perHour, "invite_send")
}

// TryLockImport allows at most one running import per user.
func (l *Limiter) TryLockImport(ctx context.Context, userID string, ttl time.Duration) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyImportLock, userID), ttl)
}

func (l *Limiter) ReleaseImport(ctx context.Context, userID, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyImportLock, userID), token)
}

// allow fails open: a Redis error never blocks the request.
func (l *Limiter) allow(ctx context.Context, key string, rate float64, burst int, endpoint string) bool {
	if !l.Enabled() || burst <= 0 {
		return true
	}

	result, err := l.bucket.Allow(ctx, key, rate, burst)
	if err != nil {
		l.log.Warn("rate limit check failed", zap.String("endpoint", endpoint), zap.Error(err))
		return true
	}
	if result.Allowed {
		l.metrics.RecordRateLimitAllowed(ctx, endpoint)
		return true
	}
	l.metrics.RecordRateLimitDenied(ctx, endpoint, "bucket_empty")
	return false
}
