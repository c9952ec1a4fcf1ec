package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	if l.limit != defaultLoginLimit || l.window != defaultLoginWindow {
		t.Fatalf("expected defaults, got limit=%d window=%v", l.limit, l.window)
	}
}

func TestLoginLimiter_KeyIsBucketedByWindow(t *testing.T) {
	l := NewLoginLimiter(nil, 5, time.Minute)
	base := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	l.now = func() time.Time { return base.Add(10 * time.Second) }
	first := l.key("10.0.0.1")
	l.now = func() time.Time { return base.Add(59 * time.Second) }
	second := l.key("10.0.0.1")
	l.now = func() time.Time { return base.Add(61 * time.Second) }
	third := l.key("10.0.0.1")

	if first != second {
		t.Fatalf("attempts in the same window must share a key: %q vs %q", first, second)
	}
	if first == third {
		t.Fatalf("next window must use a new key, got %q", third)
	}
	if want := "login:attempts:10.0.0.1:1742040000"; first != want {
		t.Fatalf("key = %q, want %q", first, want)
	}
}

func TestLoginLimiter_UnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewLoginLimiter(client, 5, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := l.Allow(ctx, "10.0.0.1"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
	if err := l.Ping(ctx); err == nil {
		t.Fatal("expected ping error when redis is unreachable")
	}
}
