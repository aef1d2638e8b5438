package redis

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestNewRedisClientConnects(t *testing.T) {
	mini := miniredis.RunT(t)
	host, port := splitAddr(t, mini.Addr())

	client, err := NewRedisClient(&RedisConfig{
		Host:      host,
		Port:      port,
		Namespace: "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// The client came back ping-verified and usable.
	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "probe-key", "value", 0).Err())
	value, err := client.Get(ctx, "probe-key").Result()
	require.NoError(t, err)
	require.Equal(t, "value", value)
}

func TestNewRedisClientWithPassword(t *testing.T) {
	mini := miniredis.RunT(t)
	mini.RequireAuth("secret")
	host, port := splitAddr(t, mini.Addr())

	client, err := NewRedisClient(&RedisConfig{
		Host:     host,
		Port:     port,
		Password: "secret",
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewRedisClientRejectsWrongPassword(t *testing.T) {
	mini := miniredis.RunT(t)
	mini.RequireAuth("secret")
	host, port := splitAddr(t, mini.Addr())

	client, err := NewRedisClient(&RedisConfig{
		Host:     host,
		Port:     port,
		Password: "wrong",
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisClientConnectionRefused(t *testing.T) {
	mini := miniredis.RunT(t)
	host, port := splitAddr(t, mini.Addr())
	mini.Close() // nothing is listening on that port anymore

	client, err := NewRedisClient(&RedisConfig{
		Host: host,
		Port: port,
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisClientInvalidHost(t *testing.T) {
	client, err := NewRedisClient(&RedisConfig{
		Host: "invalid-redis-host-that-does-not-exist",
		Port: 6379,
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisSentinelClientUnreachableSentinel(t *testing.T) {
	mini := miniredis.RunT(t)
	host, port := splitAddr(t, mini.Addr())
	mini.Close()

	client, err := NewRedisSentinelClient(&RedisSentinelConfig{
		SentinelHost: host,
		SentinelPort: port,
		MasterName:   "mymaster",
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis through Sentinel")
}

func TestNewRedisSentinelClientInvalidHost(t *testing.T) {
	client, err := NewRedisSentinelClient(&RedisSentinelConfig{
		SentinelHost: "invalid-sentinel-host-that-does-not-exist",
		SentinelPort: 26379,
		MasterName:   "mymaster",
	})
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to Redis through Sentinel")
}
