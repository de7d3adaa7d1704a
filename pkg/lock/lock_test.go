package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNilLocker(t *testing.T) {
	var l *Locker
	_, ok, err := l.TryLock(context.Background(), "pipeline", time.Minute)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	assert.False(t, ok)
	assert.NoError(t, l.Release(context.Background(), "pipeline", "token"))
	assert.Nil(t, NewLocker(nil))
}

func TestNewWithoutAddr(t *testing.T) {
	l, err := New(nil, config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, l)
}

func TestTryLockValidatesArguments(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	l := NewLocker(client)

	_, _, err := l.TryLock(context.Background(), " ", time.Minute)
	assert.EqualError(t, err, "lock key is empty")

	_, _, err = l.TryLock(context.Background(), "pipeline", 0)
	assert.EqualError(t, err, "lock ttl must be positive")
}
