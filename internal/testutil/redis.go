package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/creatures/internal/storage/redis"
)

// NewRedis starts an in-memory Redis server and returns it with a client
// connected to it. Both are closed when the test ends.
func NewRedis(t *testing.T) (*miniredis.Miniredis, redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}
