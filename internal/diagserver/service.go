// Package diagserver is the gRPC surface of the headless diagnostics
// service that cmd/flux-lsp starts (SPEC_FULL.md §6.1 expansion): it
// reuses the Tokenizer and Parser to turn a `.flux` file, or a directory
// of them, into diagnostics over the wire, and nothing else. There is no
// RPC that reaches the evaluator — a diagnostics client never gets a
// remote code execution surface.
//
// The service and message types below are hand-wired against
// google.golang.org/grpc and google.golang.org/protobuf's well-known
// wrapper/struct types directly, in the same shape protoc-gen-go-grpc
// itself emits, rather than against a dedicated .proto-generated
// package: a Diagnostic is small and uniform enough that
// structpb.Struct already expresses it without inventing a bespoke wire
// message.
package diagserver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/parser"
	"github.com/fluxlang/flux/internal/source"
)

const serviceName = "flux.diagserver.v1.Diagnostics"

// DiagnosticsServer is the service every generated server stub in the
// pack implements the same way: a plain Go interface HandlerType points
// at, with one unary and one server-streaming method.
type DiagnosticsServer interface {
	// Check parses the single file named by req.Value and returns its
	// diagnostics as a list of Structs, each built by diagnosticValues.
	Check(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error)
	// Watch walks the directory named by req.Value and streams one
	// Struct per `.flux`/`.fx` file found, each carrying that file's
	// path and diagnostic list.
	Watch(req *wrapperspb.StringValue, stream Diagnostics_WatchServer) error
}

// Diagnostics_WatchServer is the server-side handle Watch sends on,
// mirroring the *_Server interfaces protoc-gen-go-grpc generates for a
// server-streaming RPC.
type Diagnostics_WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type diagnosticsWatchServer struct{ grpc.ServerStream }

func (s *diagnosticsWatchServer) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

// ServiceDesc is the grpc.ServiceDesc a generated _grpc.pb.go file would
// define for this service; RegisterDiagnosticsServer hands it to the
// grpc.Server the same way generated Register* functions do.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DiagnosticsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Check", Handler: checkHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "internal/diagserver/service.go",
}

// RegisterDiagnosticsServer registers srv on s, the same call shape a
// generated pb.go's Register<Service>Server function has.
func RegisterDiagnosticsServer(s grpc.ServiceRegistrar, srv DiagnosticsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func checkHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiagnosticsServer).Check(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Check"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DiagnosticsServer).Check(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DiagnosticsServer).Watch(m, &diagnosticsWatchServer{stream})
}

// Server implements DiagnosticsServer by running the Tokenizer (via
// internal/lexer, indirectly through internal/parser) and Parser over
// plain os.ReadFile'd source text. It never touches internal/evaluator.
type Server struct{}

// NewServer returns a ready-to-register DiagnosticsServer.
func NewServer() *Server { return &Server{} }

func (s *Server) Check(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	diags, _, err := checkFile(req.Value)
	if err != nil {
		return nil, err
	}
	return diagnosticList(diags), nil
}

func (s *Server) Watch(req *wrapperspb.StringValue, stream Diagnostics_WatchServer) error {
	return filepath.WalkDir(req.Value, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !config.HasSourceExt(path) {
			return nil
		}
		diags, _, ferr := checkFile(path)
		if ferr != nil {
			return ferr
		}
		st, serr := structpb.NewStruct(map[string]interface{}{
			"file":        path,
			"diagnostics": diagnosticValues(diags),
		})
		if serr != nil {
			return serr
		}
		return stream.Send(st)
	})
}

// checkFile reads and parses path, returning every diagnostic the
// Tokenizer/Parser pass produced. Lex/Parse errors are collected, not
// thrown (spec.md §7), so this always returns a (possibly empty)
// Diagnostic slice rather than an error for bad Flux source — err is
// reserved for I/O failures reading path itself.
func checkFile(path string) ([]source.Diagnostic, *source.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	src := source.New(path, string(data))
	diags := source.NewCollector()
	p := parser.New(src, diags)
	p.ParseProgram(path)
	return diags.Diagnostics(), src, nil
}

func diagnosticList(diags []source.Diagnostic) *structpb.ListValue {
	return &structpb.ListValue{Values: diagnosticValues(diags)}
}

func diagnosticValues(diags []source.Diagnostic) []interface{} {
	values := make([]interface{}, len(diags))
	for i, d := range diags {
		values[i] = map[string]interface{}{
			"level":   d.Level.String(),
			"kind":    string(d.Kind),
			"message": d.Message,
			"hasPos":  d.HasPos,
			"start":   float64(d.Range.Start),
			"end":     float64(d.Range.End),
		}
	}
	return values
}
