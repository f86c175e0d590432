// Command formctl drives a running form service from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	formgrpc "github.com/cp25sy5-modjot/streamlinepay-forms/internal/adapters/grpc"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/usecase"
)

// errInvalid makes formctl exit 2 when a submission was rejected by validation.
var errInvalid = errors.New("form invalid")

type formAPI interface {
	GetState(ctx context.Context) (*formgrpc.StateResponse, error)
	SetTransactionFields(ctx context.Context, fields map[string]string) (*formgrpc.StateResponse, error)
	SetUserFields(ctx context.Context, fields map[string]string) (*formgrpc.StateResponse, error)
	SubmitTransaction(ctx context.Context) (*formgrpc.SubmitResponse, error)
	SubmitUser(ctx context.Context) (*formgrpc.SubmitResponse, error)
	Refresh(ctx context.Context) (*formgrpc.StateResponse, error)
	DismissError(ctx context.Context) (*formgrpc.StateResponse, error)
}

const usage = `usage: formctl [flags] <command> [field=value ...]

commands:
  state                       print drafts, errors, lists and banner
  set-tx field=value...       set transaction draft fields
                              (accountNumber, amount, type, date, userEmail)
  set-user field=value...     set user draft fields (username, password, email)
  submit-tx                   validate and create the transaction
  submit-user                 validate and create the user
  refresh                     re-fetch transactions and users
  dismiss                     clear the error banner

flags:
`

func main() {
	fs := pflag.NewFlagSet("formctl", pflag.ExitOnError)
	addr := fs.String("addr", env("FORMS_ADDR", "localhost:50051"), "form service address")
	timeout := fs.Duration("timeout", 30*time.Second, "deadline for the call")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	conn, err := formgrpc.Dial(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "formctl:", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	err = run(ctx, formgrpc.NewFormClient(conn), fs.Args(), os.Stdout)
	cancel()
	switch {
	case errors.Is(err, errInvalid):
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, "formctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api formAPI, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	var (
		resp any
		err  error
	)
	switch cmd {
	case "state":
		resp, err = api.GetState(ctx)
	case "set-tx", "set-user":
		fields, perr := parseAssignments(rest)
		if perr != nil {
			return perr
		}
		if cmd == "set-tx" {
			resp, err = api.SetTransactionFields(ctx, fields)
		} else {
			resp, err = api.SetUserFields(ctx, fields)
		}
	case "submit-tx", "submit-user":
		var sub *formgrpc.SubmitResponse
		if cmd == "submit-tx" {
			sub, err = api.SubmitTransaction(ctx)
		} else {
			sub, err = api.SubmitUser(ctx)
		}
		if err == nil {
			if werr := writeJSON(out, sub); werr != nil {
				return werr
			}
			if sub.Result.Outcome == usecase.OutcomeInvalid {
				return errInvalid
			}
			return nil
		}
	case "refresh":
		resp, err = api.Refresh(ctx)
	case "dismiss":
		resp, err = api.DismissError(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return err
	}
	return writeJSON(out, resp)
}

// parseAssignments turns ["amount=50.25", "type=DEBIT"] into a field map.
// Values may contain '='; only the first one splits.
func parseAssignments(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, errors.New("expected at least one field=value")
	}
	fields := make(map[string]string, len(args))
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bad assignment %q, want field=value", a)
		}
		fields[name] = value
	}
	return fields, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
