package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/usecase"
)

const serviceName = "streamlinepay.forms.v1.FormService"

type Empty struct{}

// SetFieldsRequest sets several draft fields at once, keyed by JSON field name.
type SetFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

type StateResponse struct {
	State usecase.State `json:"state"`
}

type SubmitResponse struct {
	Result usecase.SubmitResult `json:"result"`
	State  usecase.State        `json:"state"`
}

// FormServiceServer is the server API for FormService.
type FormServiceServer interface {
	GetState(context.Context, *Empty) (*StateResponse, error)
	SetTransactionFields(context.Context, *SetFieldsRequest) (*StateResponse, error)
	SetUserFields(context.Context, *SetFieldsRequest) (*StateResponse, error)
	SubmitTransaction(context.Context, *Empty) (*SubmitResponse, error)
	SubmitUser(context.Context, *Empty) (*SubmitResponse, error)
	Refresh(context.Context, *Empty) (*StateResponse, error)
	DismissError(context.Context, *Empty) (*StateResponse, error)
}

var formServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FormServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetState", FormServiceServer.GetState),
		unary("SetTransactionFields", FormServiceServer.SetTransactionFields),
		unary("SetUserFields", FormServiceServer.SetUserFields),
		unary("SubmitTransaction", FormServiceServer.SubmitTransaction),
		unary("SubmitUser", FormServiceServer.SubmitUser),
		unary("Refresh", FormServiceServer.Refresh),
		unary("DismissError", FormServiceServer.DismissError),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "streamlinepay/forms/v1/forms.proto",
}

func fullMethod(method string) string { return "/" + serviceName + "/" + method }

// unary builds the method handler the generated code would otherwise provide.
func unary[Req, Resp any](method string, call func(FormServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	invoke := func(srv any, ctx context.Context, in *Req) (any, error) {
		out, err := call(srv.(FormServiceServer), ctx, in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return invoke(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return invoke(srv, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
