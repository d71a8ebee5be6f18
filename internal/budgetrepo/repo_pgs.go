// Package budgetrepo manages repository layer of budgets.
package budgetrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/pkg/dbpkg"
	"github.com/go-petr/pocket-ledger/pkg/errorspkg"
)

// RepoPGS facilitates budget repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns budget RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const budgetColumns = `id, owner, amount, created_at, updated_at`

func scanBudget(row *sql.Row) (domain.Budget, error) {
	var b domain.Budget

	err := row.Scan(
		&b.ID,
		&b.Owner,
		&b.Amount,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	return b, err
}

const getQuery = `
SELECT ` + budgetColumns + `
FROM budgets
WHERE owner = $1
`

// Get returns the owner's budget.
func (r *RepoPGS) Get(ctx context.Context, owner string) (domain.Budget, error) {
	l := zerolog.Ctx(ctx)

	b, err := scanBudget(r.db.QueryRowContext(ctx, getQuery, owner))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return b, domain.ErrBudgetNotFound
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const upsertQuery = `
INSERT INTO budgets (owner, amount)
VALUES ($1, $2)
ON CONFLICT (owner) DO UPDATE
SET amount = EXCLUDED.amount,
    updated_at = now()
RETURNING ` + budgetColumns

// Upsert creates the owner's budget or replaces its amount.
func (r *RepoPGS) Upsert(ctx context.Context, owner, amount string) (domain.Budget, error) {
	l := zerolog.Ctx(ctx)

	b, err := scanBudget(r.db.QueryRowContext(ctx, upsertQuery, owner, amount))
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "budgets_owner_fkey":
				return b, domain.ErrUserNotFound
			case "budgets_amount_check":
				return b, domain.ErrNegativeAmount
			}
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const expensesBetweenQuery = `
SELECT COALESCE(sum(amount), 0)
FROM transactions
WHERE owner = $1 AND account_id = $2 AND type = 'EXPENSE' AND date >= $3 AND date < $4
`

// ExpensesBetween returns the sum of the owner's expenses on the given account
// within [from, to).
func (r *RepoPGS) ExpensesBetween(ctx context.Context, owner string, accountID int32, from, to time.Time) (string, error) {
	l := zerolog.Ctx(ctx)

	var sum string

	err := r.db.QueryRowContext(ctx, expensesBetweenQuery, owner, accountID, from, to).Scan(&sum)
	if err != nil {
		l.Error().Err(err).Send()
		return "", errorspkg.ErrInternal
	}

	return sum, nil
}
