package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker grants short-lived exclusive locks. unlock must be safe to call once
// the lock has already expired.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}

// LocalLocker serializes holders within this process only.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, false, nil
	}
	l.held[key] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker coordinates ticks across instances with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "reportvault:lock:"}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	name := l.prefix + key
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, name, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{name}, token).Err()
	}, true, nil
}
