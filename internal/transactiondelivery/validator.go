package transactiondelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pocket-ledger/internal/domain"
)

// ValidTransactionType validates whether the transaction type is supported.
var ValidTransactionType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return domain.IsValidTransactionType(domain.TransactionType(t))
	}

	return false
}

// ValidInterval validates whether the recurring interval is supported.
var ValidInterval validator.Func = func(fl validator.FieldLevel) bool {
	if i, ok := fl.Field().Interface().(string); ok {
		return domain.IsValidInterval(domain.RecurringInterval(i))
	}

	return false
}
