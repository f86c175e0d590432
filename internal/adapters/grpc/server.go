package grpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/usecase"
)

// RegisterFormServer registers the form service.
func RegisterFormServer(s *grpc.Server, impl FormServiceServer) {
	s.RegisterService(&formServiceDesc, impl)
}

// FormService exposes a FormController to remote views.
type FormService struct {
	forms *usecase.FormController
	log   zerolog.Logger
}

var _ FormServiceServer = (*FormService)(nil)

func NewFormService(forms *usecase.FormController, log zerolog.Logger) *FormService {
	return &FormService{forms: forms, log: log}
}

func (s *FormService) GetState(ctx context.Context, _ *Empty) (*StateResponse, error) {
	return s.state(), nil
}

func (s *FormService) SetTransactionFields(ctx context.Context, req *SetFieldsRequest) (*StateResponse, error) {
	if err := setFields(req.Fields, s.forms.SetTransactionFields); err != nil {
		return nil, err
	}
	return s.state(), nil
}

func (s *FormService) SetUserFields(ctx context.Context, req *SetFieldsRequest) (*StateResponse, error) {
	if err := setFields(req.Fields, s.forms.SetUserFields); err != nil {
		return nil, err
	}
	return s.state(), nil
}

func (s *FormService) SubmitTransaction(ctx context.Context, _ *Empty) (*SubmitResponse, error) {
	res, err := s.forms.SubmitTransaction(ctx)
	return s.submitted(res, err)
}

func (s *FormService) SubmitUser(ctx context.Context, _ *Empty) (*SubmitResponse, error) {
	res, err := s.forms.SubmitUser(ctx)
	return s.submitted(res, err)
}

func (s *FormService) Refresh(ctx context.Context, _ *Empty) (*StateResponse, error) {
	if err := s.forms.Load(ctx); err != nil {
		return nil, status.Errorf(codes.Unavailable, "refresh failed: %v", err)
	}
	return s.state(), nil
}

func (s *FormService) DismissError(ctx context.Context, _ *Empty) (*StateResponse, error) {
	s.forms.DismissError()
	return s.state(), nil
}

func (s *FormService) state() *StateResponse {
	return &StateResponse{State: s.forms.State()}
}

// submitted maps a submission onto the wire. A rejected form is a normal
// answer carrying the error set; a failed collaborator call is Unavailable.
func (s *FormService) submitted(res usecase.SubmitResult, err error) (*SubmitResponse, error) {
	if err != nil && !errors.Is(err, usecase.ErrFormInvalid) {
		return nil, status.Errorf(codes.Unavailable, "%v", err)
	}
	return &SubmitResponse{Result: res, State: s.forms.State()}, nil
}

// setFields hands the whole batch to the controller, which rejects it without
// changes if any name is unknown.
func setFields(fields map[string]string, set func(map[string]string) error) error {
	if len(fields) == 0 {
		return status.Error(codes.InvalidArgument, "fields is empty")
	}
	if err := set(fields); err != nil {
		if errors.Is(err, usecase.ErrUnknownField) {
			return status.Error(codes.InvalidArgument, err.Error())
		}
		return status.Errorf(codes.Internal, "set fields: %v", err)
	}
	return nil
}
