package diagserver_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/fluxlang/flux/internal/diagserver"
)

// dialServer starts diagserver's gRPC server over an in-memory bufconn
// listener (no real network socket) and returns a ready client
// connection, same pattern grpc-go's own bufconn docs use for in-process
// service tests.
func dialServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := diagserver.NewGRPCServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestCheckReportsParseDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.flux")
	require.NoError(t, os.WriteFile(path, []byte("def main() -> int {\n    int x = ;\n}\n"), 0o644))

	conn := dialServer(t)
	reply := new(structpb.ListValue)
	err := conn.Invoke(context.Background(), "/flux.diagserver.v1.Diagnostics/Check",
		wrapperspb.String(path), reply)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Values)
}

func TestCheckCleanFileReportsNoDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.flux")
	require.NoError(t, os.WriteFile(path, []byte("def main() -> int {\n    return 0;\n}\n"), 0o644))

	conn := dialServer(t)
	reply := new(structpb.ListValue)
	err := conn.Invoke(context.Background(), "/flux.diagserver.v1.Diagnostics/Check",
		wrapperspb.String(path), reply)
	require.NoError(t, err)
	assert.Empty(t, reply.Values)
}

// fakeWatchServer collects Send calls without any grpc.ServerStream
// plumbing, letting Watch be exercised directly against
// diagserver.Server without going over the wire.
type fakeWatchServer struct {
	grpc.ServerStream
	received []*structpb.Struct
}

func (f *fakeWatchServer) Send(s *structpb.Struct) error {
	f.received = append(f.received, s)
	return nil
}

func (f *fakeWatchServer) Context() context.Context { return context.Background() }

func TestWatchStreamsOneStructPerSourceFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.flux"), []byte("def main() -> int { return 0; }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.fx"), []byte("def main() -> int { return 0; }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not flux\n"), 0o644))

	fw := &fakeWatchServer{}
	srv := diagserver.NewServer()
	require.NoError(t, srv.Watch(wrapperspb.String(dir), fw))
	assert.Len(t, fw.received, 2)
}
