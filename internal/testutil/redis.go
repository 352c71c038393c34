// Package testutil holds shared helpers for tests that need live infrastructure.
package testutil

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTestRedisDB = 15

// SetupTestRedis returns a client bound to a flushed test database. The test is
// skipped when no Redis answers, unless TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr, ok := findTestRedis(t)
	if !ok {
		if envBool("TEST_REQUIRE_REDIS") {
			t.Fatal("Redis not available for testing")
		}
		t.Skip("Redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: testRedisDB(t)})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("flush test redis db: %v", err)
	}

	return client
}

// findTestRedis probes TEST_REDIS_ADDR, then the compose service name, then localhost.
func findTestRedis(t testing.TB) (string, bool) {
	t.Helper()

	candidates := []string{"redis:6379", "localhost:6379"}
	if addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR")); addr != "" {
		candidates = []string{addr}
	}

	for _, addr := range candidates {
		if ping(addr) {
			return addr, true
		}
		t.Logf("Redis not available at %s", addr)
	}
	return "", false
}

func ping(addr string) bool {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

func testRedisDB(t testing.TB) int {
	v := os.Getenv("TEST_REDIS_DB")
	if v == "" {
		return defaultTestRedisDB
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		t.Logf("Invalid TEST_REDIS_DB=%q, using %d", v, defaultTestRedisDB)
		return defaultTestRedisDB
	}
	return i
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
