package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

// unary adapts a typed RPC method to a grpc.MethodHandler.
func unary[Req any, Resp any](name string, call func(*Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*Server)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary("BuildDashboard", (*Server).BuildDashboard),
		unary("ListJobs", (*Server).ListJobs),
		unary("OpenJob", (*Server).OpenJob),
		unary("SetStatus", (*Server).SetStatus),
		unary("JobActions", (*Server).JobActions),
		unary("ApplyAction", (*Server).ApplyAction),
		unary("RecordCorrection", (*Server).RecordCorrection),
		unary("CorrectionStats", (*Server).CorrectionStats),
		unary("MonthlyTotal", (*Server).MonthlyTotal),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recruiter/v1/recruiter.proto",
}
