package usecase

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
)

var (
	accountNumberRe = regexp.MustCompile(`^\d{8}$`)
	emailRe         = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// messages keyed by field, then by the failing rule.
var messages = map[string]map[string]string{
	"accountNumber": {
		"required":       "Account number is required",
		"account_number": "Account number must be exactly 8 digits",
	},
	"amount": {
		"required":         "Amount is required",
		"decimal_string":   "Amount must be a number",
		"positive_decimal": "Amount must be greater than zero",
	},
	"type": {
		"required": "Transaction type is required",
		"oneof":    "Transaction type must be DEBIT or CREDIT",
	},
	"date": {
		"datetime": "Date must be formatted as YYYY-MM-DD",
	},
	"userEmail": {
		"required":     "User email is required",
		"simple_email": "User email is invalid",
		"known_user":   "User email does not belong to a registered user",
	},
	"username": {
		"required": "Username is required",
	},
	"password": {
		"min": "Password must be at least 6 characters",
	},
	"email": {
		"required":     "Email is required",
		"simple_email": "Email is invalid",
	},
}

// Validator runs the form rules. Every field is checked on each pass so the
// caller gets the complete error set at once.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "account_number", func(fl validator.FieldLevel) bool {
		return accountNumberRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "simple_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "decimal_string", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "positive_decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("usecase: register " + tag + ": " + err.Error())
	}
}

// ValidateTransaction checks a transaction draft. When known is non-empty the
// user email must also belong to one of those users.
func (v *Validator) ValidateTransaction(d domain.TransactionDraft, known []domain.User) domain.ValidationErrors {
	errs := v.collect(d)
	if _, bad := errs["userEmail"]; !bad && len(known) > 0 && !domain.HasEmail(known, d.UserEmail) {
		errs["userEmail"] = messages["userEmail"]["known_user"]
	}
	return errs
}

func (v *Validator) ValidateUser(d domain.UserDraft) domain.ValidationErrors {
	return v.collect(d)
}

func (v *Validator) collect(s any) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	err := v.v.Struct(s)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// only reachable with a non-struct argument
		panic("usecase: validate: " + err.Error())
	}
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		errs[fe.Field()] = msg
	}
	return errs
}
