package usecase

import (
	"context"
	"errors"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
)

// ErrFormInvalid is returned when a submission is stopped by validation.
var ErrFormInvalid = errors.New("form invalid")

type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeRequestFailed Outcome = "request_failed"
)

// SubmitIfValid validates *draft and calls create only when the error set is
// empty. On success *draft is replaced by reset(). On failure the draft is left
// as it was so the user can correct and resubmit.
func SubmitIfValid[D any](
	ctx context.Context,
	draft *D,
	reset func() D,
	validate func(D) domain.ValidationErrors,
	create func(context.Context, D) error,
) (Outcome, domain.ValidationErrors, error) {
	if errs := validate(*draft); !errs.Empty() {
		return OutcomeInvalid, errs, ErrFormInvalid
	}
	if err := create(ctx, *draft); err != nil {
		return OutcomeRequestFailed, domain.ValidationErrors{}, err
	}
	*draft = reset()
	return OutcomeCreated, domain.ValidationErrors{}, nil
}
