package domain

import (
	"errors"
	"time"
)

// ErrBudgetNotFound indicates that the owner has not set a budget yet.
var ErrBudgetNotFound = errors.New("budget not found")

// Budget holds the monthly spending ceiling of an owner, tracked against the
// current month's expenses on the default account.
type Budget struct {
	ID        int32     `json:"id"`
	Owner     string    `json:"owner"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetUsage pairs a budget with the expenses accumulated so far this month.
type BudgetUsage struct {
	Budget          Budget `json:"budget"`
	CurrentExpenses string `json:"current_expenses"`
}
