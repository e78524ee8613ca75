package diagserver

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
)

// NewGRPCServer returns a *grpc.Server with a DiagnosticsServer already
// registered, ready for the caller to Serve on a net.Listener of its
// choosing.
func NewGRPCServer() *grpc.Server {
	s := grpc.NewServer()
	RegisterDiagnosticsServer(s, NewServer())
	return s
}

// Listen binds addr, registers a DiagnosticsServer, and blocks until the
// server stops or fails to accept. Mirrors the listen-then-Serve shape
// funvibe-funxy's own builtinGrpcServe uses for its dynamic-proto
// servers, minus the dynamic descriptor loading this service has no
// need for. The bound address (useful when addr ends in ":0") is
// reported to addrCh before Serve blocks, if addrCh is non-nil.
func Listen(addr string, addrCh chan<- net.Addr) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("diagserver: listen %s: %w", addr, err)
	}
	if addrCh != nil {
		addrCh <- lis.Addr()
	}
	return NewGRPCServer().Serve(lis)
}
