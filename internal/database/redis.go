package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/config"
)

// NewRedis creates the client for the session profile cache. It parses the
// URL, connects, and pings to verify connectivity before returning. Losing
// Redis only costs cached verifications, so no startup retry loop here; the
// auth service re-verifies against the upstream on every cache miss anyway.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Verify the connection is alive before returning.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
