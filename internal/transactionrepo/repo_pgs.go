// Package transactionrepo manages repository layer of transactions.
//
// Every mutating operation pairs the transaction write with the compensating
// account balance update inside a single database transaction, so an account's
// balance always equals the sum of the signed amounts of its transactions.
package transactionrepo

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pocket-ledger/internal/accountrepo"
	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/pkg/dbpkg"
	"github.com/go-petr/pocket-ledger/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewRepoPGS returns transaction RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// NewTxRepoPGS returns transaction RepoPGS bound to an already started transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const transactionColumns = `id, owner, account_id, type, amount, category, description, date,
	is_recurring, recurring_interval, next_recurring_date, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t        domain.Transaction
		interval sql.NullString
		nextDate sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Owner,
		&t.AccountID,
		&t.Type,
		&t.Amount,
		&t.Category,
		&t.Description,
		&t.Date,
		&t.IsRecurring,
		&interval,
		&nextDate,
		&t.CreatedAt,
	)
	if err != nil {
		return t, err
	}

	if interval.Valid {
		t.RecurringInterval = domain.RecurringInterval(interval.String)
	}

	if nextDate.Valid {
		t.NextRecurringDate = &nextDate.Time
	}

	return t, nil
}

func nullInterval(i domain.RecurringInterval) sql.NullString {
	return sql.NullString{String: string(i), Valid: i != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}

func signed(txType domain.TransactionType, amount string) string {
	if txType == domain.TransactionTypeExpense {
		return "-" + amount
	}

	return amount
}

const insertQuery = `
INSERT INTO transactions
    (owner, account_id, type, amount, category, description, date,
     is_recurring, recurring_interval, next_recurring_date)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + transactionColumns

func (r *RepoPGS) insert(ctx context.Context, db dbpkg.SQLInterface, owner string, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := db.QueryRowContext(ctx, insertQuery,
		owner,
		arg.AccountID,
		arg.Type,
		arg.Amount,
		arg.Category,
		arg.Description,
		arg.Date,
		arg.IsRecurring,
		nullInterval(arg.RecurringInterval),
		nullTime(arg.NextRecurringDate),
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("insert(ctx, db, %v, %+v)", owner, arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_owner_fkey":
				return t, domain.ErrOwnerNotFound
			case "transactions_amount_check":
				return t, domain.ErrNegativeAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// Create inserts the transaction and applies its signed amount to the owning
// account's balance within a single database transaction.
func (r *RepoPGS) Create(ctx context.Context, owner string, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var t domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	t, err = r.insert(ctx, tx, owner, arg)
	if err != nil {
		return domain.Transaction{}, err
	}

	accountRepo := accountrepo.NewTxRepoPGS(tx)

	if _, err := accountRepo.AddBalance(ctx, signed(arg.Type, arg.Amount), arg.AccountID); err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return t, nil
}

const getForUpdateQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1 AND owner = $2
FOR UPDATE
`

const updateQuery = `
UPDATE transactions
SET type = $1,
    amount = $2,
    category = $3,
    description = $4,
    date = $5,
    is_recurring = $6,
    recurring_interval = $7,
    next_recurring_date = $8
WHERE id = $9 AND owner = $10
RETURNING ` + transactionColumns

// Update rewrites the transaction's mutable fields and shifts the owning
// account's balance by the net difference between the new and the old signed
// amounts, all within a single database transaction.
//
// The owning account never changes: reassigning a transaction to a different
// account is not a supported operation.
func (r *RepoPGS) Update(ctx context.Context, owner string, id int64, arg domain.UpdateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var t domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	old, err := scanTransaction(tx.QueryRowContext(ctx, getForUpdateQuery, id, owner))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	oldDelta, err := decimal.NewFromString(signed(old.Type, old.Amount))
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	newDelta, err := decimal.NewFromString(signed(arg.Type, arg.Amount))
	if err != nil {
		l.Error().Err(err).Send()
		return t, domain.ErrInvalidAmount
	}

	row := tx.QueryRowContext(ctx, updateQuery,
		arg.Type,
		arg.Amount,
		arg.Category,
		arg.Description,
		arg.Date,
		arg.IsRecurring,
		nullInterval(arg.RecurringInterval),
		nullTime(arg.NextRecurringDate),
		id,
		owner,
	)

	t, err = scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_amount_check" {
				return domain.Transaction{}, domain.ErrNegativeAmount
			}
		}

		return domain.Transaction{}, errorspkg.ErrInternal
	}

	netDelta := newDelta.Sub(oldDelta)

	if !netDelta.IsZero() {
		accountRepo := accountrepo.NewTxRepoPGS(tx)

		if _, err := accountRepo.AddBalance(ctx, netDelta.String(), old.AccountID); err != nil {
			return domain.Transaction{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return t, nil
}

const selectForDeleteQuery = `
SELECT account_id, type, amount
FROM transactions
WHERE id = ANY($1) AND owner = $2
FOR UPDATE
`

const bulkDeleteQuery = `
DELETE FROM transactions
WHERE id = ANY($1) AND owner = $2
`

// BulkDelete removes the owner's transactions among the given ids and reverses
// their contributions on the affected accounts' balances, grouped per account,
// within a single database transaction. Ids that do not belong to the owner
// are silently ignored.
func (r *RepoPGS) BulkDelete(ctx context.Context, owner string, ids []int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	rows, err := tx.QueryContext(ctx, selectForDeleteQuery, pq.Array(ids), owner)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}
	defer rows.Close()

	compensations := map[int32]decimal.Decimal{}

	for rows.Next() {
		var (
			accountID int32
			txType    domain.TransactionType
			amount    string
		)

		if err := rows.Scan(&accountID, &txType, &amount); err != nil {
			l.Error().Err(err).Send()
			return 0, errorspkg.ErrInternal
		}

		// Reverse of the original contribution: deleted expenses give the
		// amount back, deleted incomes take it away.
		delta, err := decimal.NewFromString(signed(txType, amount))
		if err != nil {
			l.Error().Err(err).Send()
			return 0, errorspkg.ErrInternal
		}

		compensations[accountID] = compensations[accountID].Sub(delta)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	res, err := tx.ExecContext(ctx, bulkDeleteQuery, pq.Array(ids), owner)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	// To avoid deadlocks execute statements in consistent id order
	accountIDs := make([]int32, 0, len(compensations))
	for id := range compensations {
		accountIDs = append(accountIDs, id)
	}

	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })

	accountRepo := accountrepo.NewTxRepoPGS(tx)

	for _, accountID := range accountIDs {
		if _, err := accountRepo.AddBalance(ctx, compensations[accountID].String(), accountID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return deleted, nil
}

const getQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1 AND owner = $2
`

// Get returns the owner's transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, owner string, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id, owner))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE owner = $1 AND account_id = $2
ORDER BY date DESC, id DESC
LIMIT $3 OFFSET $4
`

// List returns the owner's transactions on the given account, newest first.
func (r *RepoPGS) List(ctx context.Context, owner string, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listDueRecurringQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE is_recurring AND next_recurring_date <= $1
ORDER BY next_recurring_date
LIMIT $2
`

// ListDueRecurring returns recurring transactions whose next occurrence is due.
func (r *RepoPGS) ListDueRecurring(ctx context.Context, due time.Time, limit int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listDueRecurringQuery, due, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const advanceRecurringQuery = `
UPDATE transactions
SET next_recurring_date = $1
WHERE id = $2
`

// CreateOccurrence materializes one due occurrence of a recurring transaction:
// it inserts a regular transaction dated occurredAt, applies the signed amount
// to the account balance and advances the source's next occurrence date, all
// within a single database transaction.
func (r *RepoPGS) CreateOccurrence(ctx context.Context, src domain.Transaction, occurredAt, nextDate time.Time) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var t domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	arg := domain.CreateTransactionParams{
		AccountID:   src.AccountID,
		Type:        src.Type,
		Amount:      src.Amount,
		Category:    src.Category,
		Description: src.Description,
		Date:        occurredAt,
	}

	t, err = r.insert(ctx, tx, src.Owner, arg)
	if err != nil {
		return domain.Transaction{}, err
	}

	accountRepo := accountrepo.NewTxRepoPGS(tx)

	if _, err := accountRepo.AddBalance(ctx, signed(src.Type, src.Amount), src.AccountID); err != nil {
		return domain.Transaction{}, err
	}

	if _, err := tx.ExecContext(ctx, advanceRecurringQuery, nextDate, src.ID); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return t, nil
}
