package domain

import (
	"errors"
	"time"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found or not owned by the caller.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates negative amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrUnsupportedTransactionType indicates an unknown transaction type.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")
	// ErrUnsupportedInterval indicates an unknown recurring interval.
	ErrUnsupportedInterval = errors.New("unsupported recurring interval")
	// ErrAccountReassignment indicates an attempt to move a transaction to another account.
	ErrAccountReassignment = errors.New("transaction account cannot be changed")
)

// TransactionType enumerates the supported transaction types.
type TransactionType string

// Supported transaction types.
const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValidTransactionType returns true if the transaction type is supported.
func IsValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	}

	return false
}

// RecurringInterval enumerates the supported recurrence cadences.
type RecurringInterval string

// Supported recurring intervals.
const (
	IntervalDaily   RecurringInterval = "DAILY"
	IntervalWeekly  RecurringInterval = "WEEKLY"
	IntervalMonthly RecurringInterval = "MONTHLY"
	IntervalYearly  RecurringInterval = "YEARLY"
)

// IsValidInterval returns true if the recurring interval is supported.
func IsValidInterval(i RecurringInterval) bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}

	return false
}

// NextOccurrenceDate returns the next occurrence of a recurring transaction
// after start.
//
// Calendar overflow follows time.AddDate normalization: adding one month to
// January 31 yields March 2 (March 3 in non-leap years), not the last day of
// February.
func NextOccurrenceDate(start time.Time, interval RecurringInterval) time.Time {
	switch interval {
	case IntervalDaily:
		return start.AddDate(0, 0, 1)
	case IntervalWeekly:
		return start.AddDate(0, 0, 7)
	case IntervalMonthly:
		return start.AddDate(0, 1, 0)
	case IntervalYearly:
		return start.AddDate(1, 0, 0)
	}

	return start
}

// Transaction holds a single income or expense record.
type Transaction struct {
	ID                int64             `json:"id"`
	Owner             string            `json:"owner"`
	AccountID         int32             `json:"account_id"`
	Type              TransactionType   `json:"type"`
	Amount            string            `json:"amount"` // must be non-negative
	Category          string            `json:"category"`
	Description       string            `json:"description"`
	Date              time.Time         `json:"date"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurringInterval RecurringInterval `json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time        `json:"next_recurring_date,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// SignedAmount returns the transaction's contribution to its account balance:
// negative for expenses, positive for incomes.
func (t Transaction) SignedAmount() (string, error) {
	switch t.Type {
	case TransactionTypeExpense:
		return "-" + t.Amount, nil
	case TransactionTypeIncome:
		return t.Amount, nil
	}

	return "", ErrUnsupportedTransactionType
}

// CreateTransactionParams is the input data to create a transaction.
type CreateTransactionParams struct {
	AccountID         int32             `json:"account_id"`
	Type              TransactionType   `json:"type"`
	Amount            string            `json:"amount"`
	Category          string            `json:"category"`
	Description       string            `json:"description"`
	Date              time.Time         `json:"date"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurringInterval RecurringInterval `json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time        `json:"next_recurring_date,omitempty"`
}

// UpdateTransactionParams is the input data to update a transaction.
type UpdateTransactionParams struct {
	Type              TransactionType   `json:"type"`
	Amount            string            `json:"amount"`
	Category          string            `json:"category"`
	Description       string            `json:"description"`
	Date              time.Time         `json:"date"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurringInterval RecurringInterval `json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time        `json:"next_recurring_date,omitempty"`
}

// ListTransactionsParams is the input data to list an account's transactions.
type ListTransactionsParams struct {
	AccountID int32 `json:"account_id"`
	Limit     int32 `json:"limit"`
	Offset    int32 `json:"offset"`
}
