// Package budgetservice manages business logic layer of budgets.
package budgetservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pocket-ledger/internal/domain"
)

// Repo provides data access layer interface needed by budget service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package budgetservice
type Repo interface {
	Get(ctx context.Context, owner string) (domain.Budget, error)
	Upsert(ctx context.Context, owner, amount string) (domain.Budget, error)
	ExpensesBetween(ctx context.Context, owner string, accountID int32, from, to time.Time) (string, error)
}

// AccountService provides the account operations needed by the budget service layer.
type AccountService interface {
	GetDefault(ctx context.Context, owner string) (domain.Account, error)
}

// Service facilitates budget service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
}

// New returns budget service struct to manage budget bussines logic.
func New(br Repo, as AccountService) *Service {
	return &Service{
		repo:           br,
		accountService: as,
	}
}

// monthBounds returns the start of the month containing t and the start of the
// next month, in UTC.
func monthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Get returns the owner's budget together with the current month's expenses on
// the default account.
func (s *Service) Get(ctx context.Context, owner string, now time.Time) (domain.BudgetUsage, error) {
	l := zerolog.Ctx(ctx)

	budget, err := s.repo.Get(ctx, owner)
	if err != nil {
		return domain.BudgetUsage{}, err
	}

	account, err := s.accountService.GetDefault(ctx, owner)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.BudgetUsage{}, err
	}

	from, to := monthBounds(now)

	expenses, err := s.repo.ExpensesBetween(ctx, owner, account.ID, from, to)
	if err != nil {
		return domain.BudgetUsage{}, err
	}

	return domain.BudgetUsage{Budget: budget, CurrentExpenses: expenses}, nil
}

// Set validates the amount and creates or replaces the owner's budget.
func (s *Service) Set(ctx context.Context, owner, amount string) (domain.Budget, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Budget{}, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.Budget{}, domain.ErrNegativeAmount
	}

	budget, err := s.repo.Upsert(ctx, owner, amount)
	if err != nil {
		return budget, err
	}

	return budget, nil
}
