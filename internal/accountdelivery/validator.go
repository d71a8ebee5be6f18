package accountdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pocket-ledger/internal/domain"
)

// ValidAccountType validates whether the account type is supported.
var ValidAccountType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return domain.IsValidAccountType(domain.AccountType(t))
	}

	return false
}
