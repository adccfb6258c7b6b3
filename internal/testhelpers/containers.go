// Package testhelpers starts throwaway Postgres and Redis containers for
// integration tests and seeds checkout data into them.
package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// service describes one backing container a suite needs.
type service struct {
	image   string
	port    string
	env     map[string]string
	readyOn string
	// Postgres logs its ready line once for the init server and once for
	// the real one.
	readyCount int
	startup    time.Duration
}

// started is a running container and the address its port is mapped to.
type started struct {
	container testcontainers.Container
	host      string
	port      int
}

func (s service) start(t *testing.T) started {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        s.image,
			ExposedPorts: []string{s.port + "/tcp"},
			Env:          s.env,
			WaitingFor: wait.ForLog(s.readyOn).
				WithOccurrence(max(s.readyCount, 1)).
				WithStartupTimeout(s.startup),
		},
		Started: true,
	})
	require.NoError(t, err, "start %s", s.image)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, nat.Port(s.port))
	require.NoError(t, err)

	return started{container: container, host: host, port: mapped.Int()}
}

func (s started) terminate(t *testing.T) {
	t.Helper()
	require.NoError(t, s.container.Terminate(context.Background()))
}
