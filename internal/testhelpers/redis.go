package testhelpers

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var lockRedis = service{
	image:   "redis:7-alpine",
	port:    "6379",
	readyOn: "Ready to accept connections",
	startup: 30 * time.Second,
}

type TestRedis struct {
	started
	Client *redis.Client
}

func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()
	rd := lockRedis.start(t)

	client := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(rd.host, strconv.Itoa(rd.port))})
	require.NoError(t, client.Ping(context.Background()).Err())

	return &TestRedis{started: rd, Client: client}
}

func (tr *TestRedis) Cleanup(t *testing.T) {
	require.NoError(t, tr.Client.Close())
	tr.terminate(t)
}
