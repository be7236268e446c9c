// Package lease provides a Redis-backed leader lease so that only one
// deployment replica drives a matching cycle at a time, per §5's
// concurrency note ("deployers must serialize cycle execution, e.g. a
// leader lease"). Grounded on the teacher's internal/pkg/database
// RedisClient.SetNX wrapper and go-redis/redis/v8 client construction.
package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Lease holds a Redis-backed mutual-exclusion lock for cycle execution.
type Lease struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// Config configures a Lease.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NewClient builds the underlying go-redis client, verifying connectivity
// the way the teacher's NewRedisClient does.
func NewClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// New returns a Lease identified by key, holding the lock for ttl once
// acquired.
func New(client *redis.Client, key string, ttl time.Duration) *Lease {
	return &Lease{client: client, key: key, ttl: ttl}
}

// TryAcquire attempts a SET NX PX style acquisition. Returns true if this
// process now holds the lease.
func (l *Lease) TryAcquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// renewScript extends the TTL only if the caller's token still owns the
// key, preventing a process that lost its lease from renewing someone
// else's.
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`)

// Renew extends the lease TTL if this process still owns it.
func (l *Lease) Renew(ctx context.Context) (bool, error) {
	if l.token == "" {
		return false, nil
	}
	res, err := renewScript.Run(ctx, l.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// releaseScript deletes the key only if the caller's token still owns it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Release gives up the lease if this process still owns it.
func (l *Lease) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	_, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Result()
	l.token = ""
	return err
}
