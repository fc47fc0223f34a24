package hostrpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/selfswitch/internal/command"
)

// #region service-desc
const (
	ServiceName    = "selfswitch.v1.Host"
	MethodDispatch = "/" + ServiceName + "/Dispatch"
)

// HostServer is the server API of the Host service.
type HostServer interface {
	Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HostServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "selfswitch/v1/host.proto",
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDispatch}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HostServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc

// #region server

// Dispatcher runs a named command. *command.Registry satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]string) (command.Result, error)
}

// Server exposes a Dispatcher to out-of-process host runtimes.
type Server struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// NewServer wraps a dispatcher.
func NewServer(d Dispatcher, logger zerolog.Logger) *Server {
	return &Server{dispatcher: d, logger: logger}
}

// Register attaches the Host service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

// Dispatch implements HostServer.
func (s *Server) Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, args, err := decodeRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.dispatcher.Dispatch(ctx, name, args)
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return nil, status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return nil, status.Error(codes.DeadlineExceeded, err.Error())
	case err != nil:
		s.logger.Error().Err(err).Str("command", name).Msg("rpc dispatch failed")
		return nil, status.Error(codes.Internal, err.Error())
	}
	return encodeReply(res), nil
}

// #endregion server
