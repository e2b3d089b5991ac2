package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestAuthRateLimiterAllow_WindowMax(t *testing.T) {
	limiter := NewAuthRateLimiter(time.Minute, 2)

	if !limiter.Allow("alice") {
		t.Fatalf("expected first attempt allowed")
	}
	if !limiter.Allow("alice") {
		t.Fatalf("expected second attempt allowed")
	}
	if limiter.Allow("alice") {
		t.Fatalf("expected third attempt blocked")
	}
	if !limiter.Allow("bob") {
		t.Fatalf("expected independent keys")
	}
}

func TestAuthRateLimiterAllow_WindowExpiry(t *testing.T) {
	limiter := NewAuthRateLimiter(50*time.Millisecond, 1)

	if !limiter.Allow("alice") {
		t.Fatalf("expected first attempt allowed")
	}
	if limiter.Allow("alice") {
		t.Fatalf("expected second attempt blocked inside window")
	}
	time.Sleep(70 * time.Millisecond)
	if !limiter.Allow("alice") {
		t.Fatalf("expected attempt allowed after window expiry")
	}
}

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisAuthRateLimiterAllow(t *testing.T) {
	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisAuthRateLimiter{
			client: mock,
			window: 2 * time.Minute,
			max:    3,
			prefix: "auth:rl:",
		}
		if !l.Allow(" Alice ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "auth:rl:alice" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAuthAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisAuthRateLimiter{
			client: &mockRedisEvaler{result: 4},
			window: time.Minute,
			max:    3,
			prefix: "auth:rl:",
		}
		if l.Allow("alice") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisAuthRateLimiter{
			client: &mockRedisEvaler{result: 1},
			window: time.Minute,
			max:    3,
			prefix: "auth:rl:",
		}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisAuthRateLimiter{
			client: &mockRedisEvaler{err: errors.New("redis down")},
			window: time.Minute,
			max:    3,
			prefix: "auth:rl:",
		}
		if !l.Allow("alice") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisAuthRateLimiter
		if !l.Allow("alice") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})
}
