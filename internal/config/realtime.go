package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RealtimeConfig tunes the chat stream and its protection limits.
// It is loaded from realtime.yml and hot-reloaded on change.
type RealtimeConfig struct {
	BacklogSize        int           `mapstructure:"backlogSize"`
	SubscriberBuffer   int           `mapstructure:"subscriberBuffer"`
	HeartbeatInterval  time.Duration `mapstructure:"heartbeatInterval"`
	MaxMessageLength   int           `mapstructure:"maxMessageLength"`
	MessagesPerMinute  int           `mapstructure:"messagesPerMinute"`
	InvitesPerHour     int           `mapstructure:"invitesPerHour"`
	ImportMaxBatchSize int           `mapstructure:"importMaxBatchSize"`
}

func DefaultRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		BacklogSize:        128,
		SubscriberBuffer:   16,
		HeartbeatInterval:  15 * time.Second,
		MaxMessageLength:   4000,
		MessagesPerMinute:  60,
		InvitesPerHour:     20,
		ImportMaxBatchSize: 500,
	}
}

type RealtimeConfigHolder struct {
	current atomic.Value // holds RealtimeConfig
}

func NewRealtimeConfigHolder() (*RealtimeConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("realtime")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/kamrel/config")
	v.AddConfigPath("/etc/kamrel")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KAMREL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRealtimeConfig()
	v.SetDefault("realtime.backlogSize", defaults.BacklogSize)
	v.SetDefault("realtime.subscriberBuffer", defaults.SubscriberBuffer)
	v.SetDefault("realtime.heartbeatInterval", defaults.HeartbeatInterval)
	v.SetDefault("realtime.maxMessageLength", defaults.MaxMessageLength)
	v.SetDefault("realtime.messagesPerMinute", defaults.MessagesPerMinute)
	v.SetDefault("realtime.invitesPerHour", defaults.InvitesPerHour)
	v.SetDefault("realtime.importMaxBatchSize", defaults.ImportMaxBatchSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg RealtimeConfig
	if err := v.UnmarshalKey("realtime", &cfg); err != nil {
		return nil, err
	}
	if err := validateRealtimeConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RealtimeConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RealtimeConfig
		if err := v.UnmarshalKey("realtime", &updated); err != nil {
			log.Printf("[realtime-config] reload failed: %v", err)
			return
		}
		if err := validateRealtimeConfig(updated); err != nil {
			log.Printf("[realtime-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[realtime-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRealtimeConfigHolder wraps a fixed config, bypassing viper.
// Used by tests and tools that do not watch a config file.
func NewStaticRealtimeConfigHolder(cfg RealtimeConfig) *RealtimeConfigHolder {
	holder := &RealtimeConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *RealtimeConfigHolder) Get() RealtimeConfig {
	return h.current.Load().(RealtimeConfig)
}

func validateRealtimeConfig(cfg RealtimeConfig) error {
	if cfg.BacklogSize <= 0 {
		return errors.New("realtime.backlogSize must be positive")
	}
	if cfg.SubscriberBuffer <= 0 {
		return errors.New("realtime.subscriberBuffer must be positive")
	}
	if cfg.HeartbeatInterval <= 0 {
		return errors.New("realtime.heartbeatInterval must be positive")
	}
	if cfg.MaxMessageLength <= 0 {
		return errors.New("realtime.maxMessageLength must be positive")
	}
	return nil
}
