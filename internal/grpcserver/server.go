// Package grpcserver exposes the standard gRPC health service so that
// Kubernetes probes and service meshes can watch the BFF.
package grpcserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "cantinho.v1.BackOffice"

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

func New(logger *slog.Logger) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler())),
		health:     health.NewServer(),
		logger:     logger,
	}
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(true)
	return s
}

func (s *Server) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch runs check every interval and mirrors the result into the health status
// until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration, check func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := check(ctx)
			if ok := err == nil; ok != serving {
				serving = ok
				s.SetServing(ok)
				s.logger.WarnContext(ctx, "gRPC health status changed", "serving", ok, "error", err)
			}
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

func (s *Server) ListenAndServe(port string) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	return s.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
