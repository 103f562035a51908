package dependencies

import (
	"fmt"
	"net"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ImageServiceName is the service name the health endpoint reports on.
const ImageServiceName = "imageworld.ImageGeneration"

// Rpc exposes the standard gRPC health service so orchestrators can probe the
// generation api without going through HTTP.
type Rpc struct {
	server *grpc.Server
	health *health.Server
	lis    net.Listener
}

func NewRpc(port string) (*Rpc, error) {
	lis, err := net.Listen("tcp", fmt.Sprint(":", port))
	if err != nil {
		return nil, fmt.Errorf("error creating newrpc: %w", err)
	}
	return NewRpcWithListener(lis), nil
}

func NewRpcWithListener(lis net.Listener) *Rpc {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	hs.SetServingStatus(ImageServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Rpc{
		server: server,
		health: hs,
		lis:    lis,
	}
}

// Serve blocks until Close.
func (r *Rpc) Serve() error {
	log.With("component", "rpc").Info("grpc health listening", "addr", r.lis.Addr().String())
	if err := r.server.Serve(r.lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

func (r *Rpc) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	r.health.SetServingStatus(ImageServiceName, status)
}

func (r *Rpc) Close() {
	r.health.Shutdown()
	r.server.GracefulStop()
	// never served listeners are not closed by GracefulStop
	_ = r.lis.Close()
}
