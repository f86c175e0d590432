package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/ports"
)

// ErrUnknownField is returned by the field setters for a name the form does not have.
var ErrUnknownField = errors.New("unknown form field")

const (
	opFetchTransactions = "fetching transactions"
	opFetchUsers        = "fetching users"
	opCreateTransaction = "creating transaction"
	opCreateUser        = "creating user"
)

// State is everything a view needs to render both forms and both lists.
type State struct {
	TransactionDraft  domain.TransactionDraft `json:"transactionDraft"`
	TransactionErrors domain.ValidationErrors `json:"transactionErrors"`
	UserDraft         domain.UserDraft        `json:"userDraft"`
	UserErrors        domain.ValidationErrors `json:"userErrors"`
	Transactions      []domain.Transaction    `json:"transactions"`
	Users             []domain.User           `json:"users"`
	Error             string                  `json:"error,omitempty"`
}

type SubmitResult struct {
	Outcome Outcome                 `json:"outcome"`
	Errors  domain.ValidationErrors `json:"errors,omitempty"`
}

type Option func(*FormController)

// WithClock replaces time.Now, which sets the default transaction date.
func WithClock(now func() time.Time) Option {
	return func(c *FormController) { c.now = now }
}

func WithValidator(v *Validator) Option {
	return func(c *FormController) { c.validator = v }
}

// FormController owns the transaction and user drafts, their error sets, the
// fetched lists and the error banner. Remote calls are made without holding
// the lock, so concurrent callers never wait on the network for each other.
type FormController struct {
	transactions ports.TransactionAPI
	users        ports.UserAPI
	validator    *Validator
	now          func() time.Time
	log          zerolog.Logger

	mu        sync.Mutex
	txDraft   domain.TransactionDraft
	txErrors  domain.ValidationErrors
	usrDraft  domain.UserDraft
	usrErrors domain.ValidationErrors
	txList    []domain.Transaction
	userList  []domain.User
	banner    string
}

func NewFormController(tx ports.TransactionAPI, users ports.UserAPI, log zerolog.Logger, opts ...Option) *FormController {
	c := &FormController{
		transactions: tx,
		users:        users,
		now:          time.Now,
		log:          log,
		txErrors:     domain.ValidationErrors{},
		usrErrors:    domain.ValidationErrors{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.validator == nil {
		c.validator = NewValidator()
	}
	c.txDraft = domain.NewTransactionDraft(c.now(), "")
	return c
}

// Load fetches both lists. It is the first thing a view does.
func (c *FormController) Load(ctx context.Context) error {
	return errors.Join(c.RefreshTransactions(ctx), c.RefreshUsers(ctx))
}

func (c *FormController) RefreshTransactions(ctx context.Context) error {
	list, err := c.transactions.ListTransactions(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(opFetchTransactions, err)
		return err
	}
	c.txList = list
	return nil
}

func (c *FormController) RefreshUsers(ctx context.Context) error {
	list, err := c.users.ListUsers(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(opFetchUsers, err)
		return err
	}
	c.setUsersLocked(list)
	return nil
}

// setUsersLocked stores the user list and keeps the transaction draft's email
// pointing at a listed user. Server state flows into the draft, never back.
func (c *FormController) setUsersLocked(users []domain.User) {
	c.userList = users
	if len(users) == 0 {
		return
	}
	if email := c.txDraft.UserEmail; email == "" || !domain.HasEmail(users, email) {
		c.txDraft.UserEmail = domain.FirstEmail(users)
	}
}

func (c *FormController) SetTransactionField(name, value string) error {
	return c.SetTransactionFields(map[string]string{name: value})
}

func (c *FormController) SetUserField(name, value string) error {
	return c.SetUserFields(map[string]string{name: value})
}

// SetTransactionFields applies every field or none: an unknown name leaves the
// draft as it was. Amounts are stored without surrounding spaces.
func (c *FormController) SetTransactionFields(fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.txDraft
	for _, name := range sortedNames(fields) {
		value := fields[name]
		switch name {
		case "accountNumber":
			d.AccountNumber = value
		case "amount":
			d.Amount = strings.TrimSpace(value)
		case "type":
			d.Type = domain.TransactionType(value)
		case "date":
			d.Date = value
		case "userEmail":
			d.UserEmail = value
		default:
			return fmt.Errorf("transaction %q: %w", name, ErrUnknownField)
		}
	}
	c.txDraft = d
	return nil
}

// SetUserFields applies every field or none.
func (c *FormController) SetUserFields(fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.usrDraft
	for _, name := range sortedNames(fields) {
		value := fields[name]
		switch name {
		case "username":
			d.Username = value
		case "password":
			d.Password = value
		case "email":
			d.Email = value
		default:
			return fmt.Errorf("user %q: %w", name, ErrUnknownField)
		}
	}
	c.usrDraft = d
	return nil
}

// sortedNames keeps the reported unknown field stable across calls.
func sortedNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SubmitTransaction validates the current transaction draft and creates it.
// A successful create resets the draft and re-fetches the transaction list.
func (c *FormController) SubmitTransaction(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	draft := c.txDraft
	known := c.userList
	c.mu.Unlock()

	outcome, errs, err := SubmitIfValid(ctx, &draft,
		func() domain.TransactionDraft {
			return domain.NewTransactionDraft(c.now(), domain.FirstEmail(known))
		},
		func(d domain.TransactionDraft) domain.ValidationErrors {
			return c.validator.ValidateTransaction(d, known)
		},
		c.transactions.CreateTransaction,
	)

	c.mu.Lock()
	c.txErrors = errs
	switch outcome {
	case OutcomeCreated:
		c.txDraft = draft
		// the list may have changed while the create was in flight
		if len(c.userList) > 0 && !domain.HasEmail(c.userList, c.txDraft.UserEmail) {
			c.txDraft.UserEmail = domain.FirstEmail(c.userList)
		}
	case OutcomeRequestFailed:
		c.fail(opCreateTransaction, err)
	}
	c.mu.Unlock()

	c.log.Info().Str("form", "transaction").Str("outcome", string(outcome)).Int("errors", len(errs)).Msg("submit")
	if outcome == OutcomeCreated {
		_ = c.RefreshTransactions(ctx)
	}
	return SubmitResult{Outcome: outcome, Errors: errs.Clone()}, err
}

// SubmitUser validates the current user draft and creates it. A successful
// create resets the draft and re-fetches the user list.
func (c *FormController) SubmitUser(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	draft := c.usrDraft
	c.mu.Unlock()

	outcome, errs, err := SubmitIfValid(ctx, &draft,
		func() domain.UserDraft { return domain.UserDraft{} },
		c.validator.ValidateUser,
		c.users.CreateUser,
	)

	c.mu.Lock()
	c.usrErrors = errs
	switch outcome {
	case OutcomeCreated:
		c.usrDraft = draft
	case OutcomeRequestFailed:
		c.fail(opCreateUser, err)
	}
	c.mu.Unlock()

	c.log.Info().Str("form", "user").Str("outcome", string(outcome)).Int("errors", len(errs)).Msg("submit")
	if outcome == OutcomeCreated {
		_ = c.RefreshUsers(ctx)
	}
	return SubmitResult{Outcome: outcome, Errors: errs.Clone()}, err
}

func (c *FormController) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = ""
}

// State returns a copy that callers may keep or modify.
func (c *FormController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		TransactionDraft:  c.txDraft,
		TransactionErrors: c.txErrors.Clone(),
		UserDraft:         c.usrDraft,
		UserErrors:        c.usrErrors.Clone(),
		Transactions:      append([]domain.Transaction(nil), c.txList...),
		Users:             append([]domain.User(nil), c.userList...),
		Error:             c.banner,
	}
}

// fail sets the banner. Caller holds c.mu.
func (c *FormController) fail(op string, err error) {
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		c.banner = reqErr.Banner()
	} else {
		c.banner = "Error " + op
	}
	c.log.Error().Err(err).Str("op", op).Msg("request failed")
}
