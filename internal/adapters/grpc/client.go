package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial opens a plaintext connection to a FormService at addr.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	return grpc.NewClient(addr, opts...)
}

// FormClient is the client API for FormService.
type FormClient struct {
	cc grpc.ClientConnInterface
}

func NewFormClient(cc grpc.ClientConnInterface) *FormClient {
	return &FormClient{cc: cc}
}

func (c *FormClient) GetState(ctx context.Context) (*StateResponse, error) {
	return call[StateResponse](ctx, c, "GetState", &Empty{})
}

func (c *FormClient) SetTransactionFields(ctx context.Context, fields map[string]string) (*StateResponse, error) {
	return call[StateResponse](ctx, c, "SetTransactionFields", &SetFieldsRequest{Fields: fields})
}

func (c *FormClient) SetUserFields(ctx context.Context, fields map[string]string) (*StateResponse, error) {
	return call[StateResponse](ctx, c, "SetUserFields", &SetFieldsRequest{Fields: fields})
}

func (c *FormClient) SubmitTransaction(ctx context.Context) (*SubmitResponse, error) {
	return call[SubmitResponse](ctx, c, "SubmitTransaction", &Empty{})
}

func (c *FormClient) SubmitUser(ctx context.Context) (*SubmitResponse, error) {
	return call[SubmitResponse](ctx, c, "SubmitUser", &Empty{})
}

func (c *FormClient) Refresh(ctx context.Context) (*StateResponse, error) {
	return call[StateResponse](ctx, c, "Refresh", &Empty{})
}

func (c *FormClient) DismissError(ctx context.Context) (*StateResponse, error) {
	return call[StateResponse](ctx, c, "DismissError", &Empty{})
}

func call[T any](ctx context.Context, c *FormClient, method string, in any) (*T, error) {
	out := new(T)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}
