// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/pkg/dbpkg"
	"github.com/go-petr/pocket-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewRepoPGS returns account RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// NewTxRepoPGS returns account RepoPGS bound to an already started transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `id, owner, name, type, balance, is_default, created_at`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Owner,
		&a.Name,
		&a.Type,
		&a.Balance,
		&a.IsDefault,
		&a.CreatedAt,
	)

	return a, err
}

const countByOwnerQuery = `
SELECT count(*) FROM accounts
WHERE owner = $1
`

const clearDefaultQuery = `
UPDATE accounts
SET is_default = false
WHERE owner = $1 AND is_default
`

const createQuery = `
INSERT INTO
    accounts (owner, name, type, balance, is_default)
VALUES
    ($1, $2, $3, 0, $4)
RETURNING ` + accountColumns

// Create creates the account and then returns it.
//
// The first account of an owner is always created as the default one
// regardless of the requested flag. When the new account is to become the
// default, the owner's previous default is cleared in the same database
// transaction as the insert.
func (r *RepoPGS) Create(ctx context.Context, owner string, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	var existing int32
	if err := tx.QueryRowContext(ctx, countByOwnerQuery, owner).Scan(&existing); err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	isDefault := arg.IsDefault || existing == 0

	if isDefault {
		if _, err := tx.ExecContext(ctx, clearDefaultQuery, owner); err != nil {
			l.Error().Err(err).Send()
			return a, errorspkg.ErrInternal
		}
	}

	a, err = scanAccount(tx.QueryRowContext(ctx, createQuery, owner, arg.Name, arg.Type, isDefault))
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_owner_fkey" {
				return domain.Account{}, domain.ErrOwnerNotFound
			}
		}

		return domain.Account{}, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	return a, nil
}

const setDefaultQuery = `
UPDATE accounts
SET is_default = true
WHERE id = $1 AND owner = $2
RETURNING ` + accountColumns

// SetDefault makes the given account the owner's default one.
//
// Clearing the previous default and setting the new one happen in a single
// database transaction so that the owner never observes zero or two defaults.
// Accounts of other owners are reported as not found.
func (r *RepoPGS) SetDefault(ctx context.Context, owner string, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	if _, err := tx.ExecContext(ctx, clearDefaultQuery, owner); err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	a, err = scanAccount(tx.QueryRowContext(ctx, setDefaultQuery, id, owner))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		return domain.Account{}, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING ` + accountColumns

// AddBalance increments the account's balance and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, addBalanceQuery, amount, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1 AND owner = $2
`

// Get returns the owner's account with the given id.
func (r *RepoPGS) Get(ctx context.Context, owner string, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, id, owner))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getDefaultQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner = $1 AND is_default
`

// GetDefault returns the owner's default account.
func (r *RepoPGS) GetDefault(ctx context.Context, owner string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getDefaultQuery, owner))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrNoDefaultAccount
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listAccounts = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// List returns the specified number of accounts for the given user.
func (r *RepoPGS) List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listAccounts, owner, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Owner, &a.Name, &a.Type, &a.Balance, &a.IsDefault, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
