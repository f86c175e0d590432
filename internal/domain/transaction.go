package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date used by drafts and the transaction service.
const DateLayout = "2006-01-02"

type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction is a record owned by the transaction service.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Date          string          `json:"date"` // YYYY-MM-DD
	UserEmail     string          `json:"userEmail"`
}

// TransactionDraft is the not-yet-submitted transaction form. Amount stays a
// string so the raw input can be reported back when it is not a number.
type TransactionDraft struct {
	AccountNumber string          `json:"accountNumber" validate:"required,account_number"`
	Amount        string          `json:"amount" validate:"required,decimal_string,positive_decimal"`
	Type          TransactionType `json:"type" validate:"required,oneof=DEBIT CREDIT"`
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	UserEmail     string          `json:"userEmail" validate:"required,simple_email"`
}

// NewTransactionDraft returns the default draft: date set to today and the
// user email preselected.
func NewTransactionDraft(now time.Time, userEmail string) TransactionDraft {
	return TransactionDraft{
		Date:      now.Format(DateLayout),
		UserEmail: userEmail,
	}
}
