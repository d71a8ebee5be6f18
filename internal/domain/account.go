package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found or not owned by the caller.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrUnsupportedAccountType indicates an unknown account type.
	ErrUnsupportedAccountType = errors.New("unsupported account type")
	// ErrNoDefaultAccount indicates that the owner has no default account.
	ErrNoDefaultAccount = errors.New("no default account")
)

// AccountType enumerates the supported account types.
type AccountType string

// Supported account types.
const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
)

// IsValidAccountType returns true if the account type is supported.
func IsValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeCurrent, AccountTypeSavings:
		return true
	}

	return false
}

// Account holds a user's balance data.
//
// Balance is never written directly by a client. It always equals the sum of
// the signed amounts of the transactions referencing the account and is only
// changed together with a transaction write inside a single database transaction.
type Account struct {
	ID        int32       `json:"id"`
	Owner     string      `json:"owner"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Balance   string      `json:"balance"`
	IsDefault bool        `json:"is_default"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	IsDefault bool        `json:"is_default"`
}
