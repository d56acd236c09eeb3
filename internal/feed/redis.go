package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBroker fans changes out over Redis pub/sub so several server
// instances can share one board audience.
type RedisBroker struct {
	client *redis.Client
	logger *slog.Logger
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisBroker connects to Redis and verifies the connection.
func NewRedisBroker(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBroker{client: client, logger: logger}, nil
}

// Publish sends change on the board's Redis channel.
func (b *RedisBroker) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to encode change: %w", err)
	}
	if err := b.client.Publish(ctx, channelName(change.BoardID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Subscribe listens on the board's Redis channel until cancel is called or
// ctx is done. Malformed messages are logged and skipped.
func (b *RedisBroker) Subscribe(ctx context.Context, boardID string) (<-chan Change, func()) {
	out := make(chan Change, subscriberBuffer)
	pubsub := b.client.Subscribe(ctx, channelName(boardID))

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					if b.logger != nil {
						b.logger.Warn("dropping malformed board change", "channel", msg.Channel, "error", err)
					}
					continue
				}
				select {
				case out <- change:
				default:
				}
			}
		}
	}()

	return out, cancel
}

// Close closes the Redis client.
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
