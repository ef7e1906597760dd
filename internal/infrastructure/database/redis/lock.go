package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "lock is held by another process")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// Mutex is a single-holder lock with a TTL.  Acquisition never waits or
// retries: a held lock fails TryLock immediately.
type Mutex interface {
	TryLock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

type redisMutex struct {
	client *Client
	key    string
	value  string
	ttl    time.Duration
	logger logging.Logger
}

// NewMutex returns a lock stored at "lock:<name>".  The TTL bounds how long a
// crashed holder can block others.
func NewMutex(client *Client, name string, ttl time.Duration, log logging.Logger) Mutex {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisMutex{
		client: client,
		key:    "lock:" + name,
		value:  uuid.NewString(),
		ttl:    ttl,
		logger: log,
	}
}

func (m *redisMutex) TryLock(ctx context.Context) error {
	ok, err := m.client.SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to acquire lock")
	}
	if !ok {
		return ErrLockNotAcquired.WithDetail("key=" + m.key)
	}
	m.logger.Debug("Lock acquired", logging.String("key", m.key), logging.Duration("ttl", m.ttl))
	return nil
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	if m.client.isClosed() {
		return ErrClientClosed
	}
	res, err := unlockScript.Run(ctx, m.client.GetUnderlyingClient(), []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to release lock")
	}
	if res == 0 {
		return ErrLockNotHeld.WithDetail("key=" + m.key)
	}
	return nil
}

//Personal.AI order the ending
