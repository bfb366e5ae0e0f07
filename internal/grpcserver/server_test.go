package grpcserver_test

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"cantinho/internal/grpcserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (*grpcserver.Server, grpc_health_v1.HealthClient) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpcserver.New(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return server, grpc_health_v1.NewHealthClient(conn)
}

func TestHealthServer(t *testing.T) {
	ctx := context.Background()

	t.Run("ServingByDefault", func(t *testing.T) {
		_, client := startServer(t)

		for _, name := range []string{"", grpcserver.ServiceName} {
			resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: name})
			require.NoError(t, err)
			assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
		}
	})

	t.Run("SetServingFalse", func(t *testing.T) {
		server, client := startServer(t)

		server.SetServing(false)

		resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: grpcserver.ServiceName})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
	})

	t.Run("WatchFollowsCheck", func(t *testing.T) {
		server, client := startServer(t)
		var failing atomic.Bool
		failing.Store(true)

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go server.Watch(watchCtx, 10*time.Millisecond, func(context.Context) error {
			if failing.Load() {
				return errors.New("database down")
			}
			return nil
		})

		assert.Eventually(t, func() bool {
			resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
			return err == nil && resp.Status == grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}, 2*time.Second, 10*time.Millisecond)

		failing.Store(false)

		assert.Eventually(t, func() bool {
			resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
			return err == nil && resp.Status == grpc_health_v1.HealthCheckResponse_SERVING
		}, 2*time.Second, 10*time.Millisecond)
	})
}
