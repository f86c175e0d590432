package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
)

type fakeTransactions struct {
	mu        sync.Mutex
	list      []domain.Transaction
	created   []domain.TransactionDraft
	createErr error
	listErr   error
	// onCreate runs inside CreateTransaction before the fake's lock is taken.
	onCreate func()
}

func (f *fakeTransactions) ListTransactions(context.Context) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Transaction(nil), f.list...), nil
}

func (f *fakeTransactions) CreateTransaction(_ context.Context, d domain.TransactionDraft) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, d)
	f.list = append(f.list, domain.Transaction{ID: "t1", AccountNumber: d.AccountNumber, Type: d.Type, Date: d.Date, UserEmail: d.UserEmail})
	return nil
}

type fakeUsers struct {
	mu        sync.Mutex
	list      []domain.User
	created   []domain.UserDraft
	createErr error
	listErr   error
}

func (f *fakeUsers) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.User(nil), f.list...), nil
}

func (f *fakeUsers) CreateUser(_ context.Context, d domain.UserDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, d)
	f.list = append(f.list, domain.User{ID: "u" + d.Username, Username: d.Username, Email: d.Email})
	return nil
}

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func newTestController(tx *fakeTransactions, users *fakeUsers) *FormController {
	return NewFormController(tx, users, zerolog.Nop(), WithClock(func() time.Time { return testNow }))
}

func fill(t *testing.T, c *FormController, fields map[string]string) {
	t.Helper()
	for k, v := range fields {
		if err := c.SetTransactionField(k, v); err != nil {
			t.Fatalf("SetTransactionField(%s): %v", k, err)
		}
	}
}

func TestControllerInitialDraft(t *testing.T) {
	c := newTestController(&fakeTransactions{}, &fakeUsers{})
	st := c.State()
	if st.TransactionDraft != (domain.TransactionDraft{Date: "2026-10-16"}) {
		t.Errorf("initial draft = %+v", st.TransactionDraft)
	}
	if st.UserDraft != (domain.UserDraft{}) {
		t.Errorf("initial user draft = %+v", st.UserDraft)
	}
}

func TestControllerEmailFollowsFirstUser(t *testing.T) {
	users := &fakeUsers{}
	c := newTestController(&fakeTransactions{}, users)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.State().TransactionDraft.UserEmail; got != "" {
		t.Fatalf("expected empty email with no users, got %q", got)
	}

	users.list = []domain.User{{ID: "1", Username: "a", Email: "a@b.com"}}
	if err := c.RefreshUsers(context.Background()); err != nil {
		t.Fatalf("RefreshUsers: %v", err)
	}
	if got := c.State().TransactionDraft.UserEmail; got != "a@b.com" {
		t.Errorf("userEmail = %q, want a@b.com", got)
	}

	// a chosen email that is still listed survives a refresh
	users.list = append(users.list, domain.User{ID: "2", Username: "c", Email: "c@d.com"})
	fill(t, c, map[string]string{"userEmail": "c@d.com"})
	_ = c.RefreshUsers(context.Background())
	if got := c.State().TransactionDraft.UserEmail; got != "c@d.com" {
		t.Errorf("userEmail = %q, want c@d.com", got)
	}

	// a stale one is replaced
	users.list = users.list[:1]
	_ = c.RefreshUsers(context.Background())
	if got := c.State().TransactionDraft.UserEmail; got != "a@b.com" {
		t.Errorf("userEmail = %q, want a@b.com", got)
	}
}

func TestControllerSubmitTransactionSuccess(t *testing.T) {
	tx := &fakeTransactions{}
	users := &fakeUsers{list: []domain.User{{ID: "1", Username: "a", Email: "a@b.com"}}}
	c := newTestController(tx, users)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	fill(t, c, map[string]string{"accountNumber": "12345678", "amount": "50.25", "type": "CREDIT"})

	res, err := c.SubmitTransaction(context.Background())
	if err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	if res.Outcome != OutcomeCreated || !res.Errors.Empty() {
		t.Errorf("result = %+v", res)
	}
	if len(tx.created) != 1 {
		t.Fatalf("create called %d times", len(tx.created))
	}
	if tx.created[0].UserEmail != "a@b.com" || tx.created[0].Date != "2026-10-16" {
		t.Errorf("sent draft = %+v", tx.created[0])
	}

	st := c.State()
	want := domain.TransactionDraft{Date: "2026-10-16", UserEmail: "a@b.com"}
	if st.TransactionDraft != want {
		t.Errorf("draft after submit = %+v, want %+v", st.TransactionDraft, want)
	}
	if len(st.Transactions) != 1 {
		t.Errorf("expected list re-fetched after create, got %d", len(st.Transactions))
	}
	if st.Error != "" {
		t.Errorf("unexpected banner %q", st.Error)
	}
}

func TestControllerSubmitTransactionInvalid(t *testing.T) {
	tx := &fakeTransactions{}
	c := newTestController(tx, &fakeUsers{})
	fill(t, c, map[string]string{"accountNumber": "123", "amount": "-1"})

	res, err := c.SubmitTransaction(context.Background())
	if !errors.Is(err, ErrFormInvalid) {
		t.Fatalf("expected ErrFormInvalid, got %v", err)
	}
	if res.Outcome != OutcomeInvalid {
		t.Errorf("outcome = %s", res.Outcome)
	}
	for _, f := range []string{"accountNumber", "amount", "type", "userEmail"} {
		if res.Errors[f] == "" {
			t.Errorf("missing %s error in %v", f, res.Errors)
		}
	}
	if len(tx.created) != 0 {
		t.Errorf("create must not be called")
	}
	st := c.State()
	if st.TransactionDraft.AccountNumber != "123" || len(st.TransactionErrors) != 4 {
		t.Errorf("state after invalid submit = %+v", st)
	}

	// fixing the form and resubmitting clears the errors
	fill(t, c, map[string]string{"accountNumber": "87654321", "amount": "10", "type": "DEBIT", "userEmail": "x@y.io"})
	if _, err := c.SubmitTransaction(context.Background()); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if errs := c.State().TransactionErrors; !errs.Empty() {
		t.Errorf("errors not cleared: %v", errs)
	}
}

func TestControllerSubmitTransactionRequestFailure(t *testing.T) {
	tx := &fakeTransactions{createErr: &domain.RequestError{Op: "creating transaction", StatusCode: 500}}
	c := newTestController(tx, &fakeUsers{})
	fill(t, c, map[string]string{"accountNumber": "12345678", "amount": "5", "type": "DEBIT", "userEmail": "a@b.com"})

	res, err := c.SubmitTransaction(context.Background())
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if res.Outcome != OutcomeRequestFailed {
		t.Errorf("outcome = %s", res.Outcome)
	}
	st := c.State()
	if st.Error != "Error creating transaction" {
		t.Errorf("banner = %q", st.Error)
	}
	if st.TransactionDraft.AccountNumber != "12345678" || st.TransactionDraft.Amount != "5" {
		t.Errorf("draft lost after failure: %+v", st.TransactionDraft)
	}

	c.DismissError()
	if c.State().Error != "" {
		t.Errorf("banner not dismissed")
	}
}

func TestControllerSubmitUser(t *testing.T) {
	users := &fakeUsers{}
	c := newTestController(&fakeTransactions{}, users)
	for k, v := range map[string]string{"username": "amr", "password": "12345", "email": "a@b.com"} {
		if err := c.SetUserField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	res, err := c.SubmitUser(context.Background())
	if !errors.Is(err, ErrFormInvalid) || res.Errors["password"] == "" {
		t.Fatalf("expected password error, got %+v, %v", res, err)
	}

	_ = c.SetUserField("password", "123456")
	res, err = c.SubmitUser(context.Background())
	if err != nil || res.Outcome != OutcomeCreated {
		t.Fatalf("SubmitUser: %+v, %v", res, err)
	}
	st := c.State()
	if st.UserDraft != (domain.UserDraft{}) {
		t.Errorf("user draft not reset: %+v", st.UserDraft)
	}
	if len(st.Users) != 1 || st.TransactionDraft.UserEmail != "a@b.com" {
		t.Errorf("user list not refreshed into state: %+v", st)
	}
}

func TestControllerFetchFailureSetsBanner(t *testing.T) {
	tx := &fakeTransactions{listErr: &domain.RequestError{Op: "fetching transactions", Err: errors.New("connection refused")}}
	c := newTestController(tx, &fakeUsers{})
	if err := c.Load(context.Background()); err == nil {
		t.Fatal("expected error from Load")
	}
	if got := c.State().Error; got != "Error fetching transactions" {
		t.Errorf("banner = %q", got)
	}
}

func TestControllerUnknownField(t *testing.T) {
	c := newTestController(&fakeTransactions{}, &fakeUsers{})
	if err := c.SetTransactionField("memo", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
	if err := c.SetUserField("role", "admin"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestControllerSetFieldsAllOrNothing(t *testing.T) {
	c := newTestController(&fakeTransactions{}, &fakeUsers{})
	err := c.SetTransactionFields(map[string]string{"accountNumber": "99999999", "amount": "5", "memo": "x"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if d := c.State().TransactionDraft; d.AccountNumber != "" || d.Amount != "" {
		t.Errorf("rejected batch changed the draft: %+v", d)
	}

	err = c.SetUserFields(map[string]string{"username": "amr", "role": "admin"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if d := c.State().UserDraft; d.Username != "" {
		t.Errorf("rejected batch changed the user draft: %+v", d)
	}

	if err := c.SetTransactionFields(map[string]string{"accountNumber": "99999999", "amount": " 5.50 "}); err != nil {
		t.Fatal(err)
	}
	if d := c.State().TransactionDraft; d.AccountNumber != "99999999" || d.Amount != "5.50" {
		t.Errorf("draft = %+v", d)
	}
}

func TestControllerRefetchFailureKeepsCreate(t *testing.T) {
	tx := &fakeTransactions{}
	users := &fakeUsers{list: []domain.User{{ID: "1", Username: "a", Email: "a@b.com"}}}
	c := newTestController(tx, users)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	tx.listErr = &domain.RequestError{Op: "fetching transactions", StatusCode: 503}
	fill(t, c, map[string]string{"accountNumber": "12345678", "amount": "7", "type": "DEBIT"})

	res, err := c.SubmitTransaction(context.Background())
	if err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	if res.Outcome != OutcomeCreated {
		t.Errorf("outcome = %s, want created", res.Outcome)
	}
	st := c.State()
	if st.Error != "Error fetching transactions" {
		t.Errorf("banner = %q", st.Error)
	}
	if want := (domain.TransactionDraft{Date: "2026-10-16", UserEmail: "a@b.com"}); st.TransactionDraft != want {
		t.Errorf("draft = %+v, want %+v", st.TransactionDraft, want)
	}
}

func TestControllerUsersChangeDuringCreate(t *testing.T) {
	tx := &fakeTransactions{}
	users := &fakeUsers{list: []domain.User{{ID: "1", Username: "a", Email: "a@b.com"}}}
	c := newTestController(tx, users)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	tx.onCreate = func() {
		users.mu.Lock()
		users.list = []domain.User{{ID: "2", Username: "c", Email: "c@d.com"}}
		users.mu.Unlock()
		if err := c.RefreshUsers(context.Background()); err != nil {
			t.Errorf("RefreshUsers: %v", err)
		}
	}
	fill(t, c, map[string]string{"accountNumber": "12345678", "amount": "7", "type": "DEBIT"})

	res, err := c.SubmitTransaction(context.Background())
	if err != nil || res.Outcome != OutcomeCreated {
		t.Fatalf("SubmitTransaction: %+v, %v", res, err)
	}
	if got := c.State().TransactionDraft.UserEmail; got != "c@d.com" {
		t.Errorf("userEmail = %q, want the user listed after the create", got)
	}
}

func TestControllerConcurrentCallers(t *testing.T) {
	tx := &fakeTransactions{}
	users := &fakeUsers{list: []domain.User{{ID: "1", Username: "a", Email: "a@b.com"}}}
	c := newTestController(tx, users)
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(5)
		go func() {
			defer wg.Done()
			_ = c.SetTransactionFields(map[string]string{"accountNumber": "12345678", "amount": "5", "type": "DEBIT"})
		}()
		go func() {
			defer wg.Done()
			_, _ = c.SubmitTransaction(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = c.Load(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = c.SetUserField("username", "amr")
			_, _ = c.SubmitUser(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = c.State()
			c.DismissError()
		}()
	}
	wg.Wait()

	tx.mu.Lock()
	defer tx.mu.Unlock()
	for _, d := range tx.created {
		if d.AccountNumber != "12345678" || d.Amount != "5" || d.UserEmail != "a@b.com" {
			t.Errorf("created an unvalidated draft: %+v", d)
		}
	}
	if got := c.State().TransactionDraft.UserEmail; got != "a@b.com" {
		t.Errorf("userEmail = %q", got)
	}
}
