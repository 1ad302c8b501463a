package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig configures the Redis forwarder.
type RedisConfig struct {
	Addr    string
	Channel string
	NodeID  string
	Timeout time.Duration
}

// DefaultRedisConfig returns default Redis settings.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:    "localhost:6379",
		Channel: "jukebox.events",
		Timeout: 3 * time.Second,
	}
}

type redisMessage struct {
	NodeID string `json:"node_id"`
	Event  Event  `json:"event"`
}

// Publisher is the part of a Redis client the forwarder uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisForwarder republishes bus events on a Redis pub/sub channel so remote
// displays can follow playback.
type RedisForwarder struct {
	client Publisher
	cfg    RedisConfig
	logger zerolog.Logger
}

// NewRedisForwarder connects to Redis and checks the connection.
func NewRedisForwarder(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisForwarder, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.Info().Str("addr", cfg.Addr).Str("channel", cfg.Channel).Msg("redis event forwarding enabled")
	return NewForwarder(client, cfg, logger), client, nil
}

// NewForwarder wraps an existing publisher.
func NewForwarder(client Publisher, cfg RedisConfig, logger zerolog.Logger) *RedisForwarder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRedisConfig().Timeout
	}
	return &RedisForwarder{client: client, cfg: cfg, logger: logger}
}

// Run forwards events from sub until ctx is done or sub is closed.
func (f *RedisForwarder) Run(ctx context.Context, sub *Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.Events:
			if err := f.forward(ctx, e); err != nil {
				f.logger.Warn().Err(err).Str("kind", string(e.Kind)).Msg("failed to forward event")
			}
		}
	}
}

func (f *RedisForwarder) forward(ctx context.Context, e Event) error {
	data, err := json.Marshal(redisMessage{NodeID: f.cfg.NodeID, Event: e})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pubCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()
	return f.client.Publish(pubCtx, f.cfg.Channel, data).Err()
}
