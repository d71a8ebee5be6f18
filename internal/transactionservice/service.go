// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pocket-ledger/internal/domain"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Create(ctx context.Context, owner string, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Update(ctx context.Context, owner string, id int64, arg domain.UpdateTransactionParams) (domain.Transaction, error)
	BulkDelete(ctx context.Context, owner string, ids []int64) (int64, error)
	Get(ctx context.Context, owner string, id int64) (domain.Transaction, error)
	List(ctx context.Context, owner string, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
	ListDueRecurring(ctx context.Context, due time.Time, limit int32) ([]domain.Transaction, error)
	CreateOccurrence(ctx context.Context, src domain.Transaction, occurredAt, nextDate time.Time) (domain.Transaction, error)
}

// AccountService provides the account operations needed by the transaction service layer.
type AccountService interface {
	Get(ctx context.Context, owner string, id int32) (domain.Account, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
}

// New returns transaction service struct to manage transaction bussines logic.
func New(tr Repo, as AccountService) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
	}
}

// validAmount parses the amount and rejects non-numeric and negative values.
func validAmount(amount string) error {
	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.ErrInvalidAmount
	}

	if amountDecimal.IsNegative() {
		return domain.ErrNegativeAmount
	}

	return nil
}

// recurrence returns the next occurrence date when the transaction is
// recurring, nil otherwise.
func recurrence(date time.Time, isRecurring bool, interval domain.RecurringInterval) (*time.Time, error) {
	if !isRecurring {
		return nil, nil
	}

	if !domain.IsValidInterval(interval) {
		return nil, domain.ErrUnsupportedInterval
	}

	next := domain.NextOccurrenceDate(date, interval)

	return &next, nil
}

// Create validates the input, checks that the target account belongs to the
// caller and executes the atomic insert-and-adjust-balance unit.
func (s *Service) Create(ctx context.Context, owner string, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if !domain.IsValidTransactionType(arg.Type) {
		return domain.Transaction{}, domain.ErrUnsupportedTransactionType
	}

	if err := validAmount(arg.Amount); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	if _, err := s.accountService.Get(ctx, owner, arg.AccountID); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	next, err := recurrence(arg.Date, arg.IsRecurring, arg.RecurringInterval)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	if !arg.IsRecurring {
		arg.RecurringInterval = ""
	}

	arg.NextRecurringDate = next

	transaction, err := s.repo.Create(ctx, owner, arg)
	if err != nil {
		return transaction, err
	}

	return transaction, nil
}

// Update validates the input and executes the atomic update-and-adjust-balance
// unit. The transaction keeps its account: the balance shift applies to the
// account the transaction already belongs to.
func (s *Service) Update(ctx context.Context, owner string, id int64, arg domain.UpdateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if !domain.IsValidTransactionType(arg.Type) {
		return domain.Transaction{}, domain.ErrUnsupportedTransactionType
	}

	if err := validAmount(arg.Amount); err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	next, err := recurrence(arg.Date, arg.IsRecurring, arg.RecurringInterval)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	if !arg.IsRecurring {
		arg.RecurringInterval = ""
	}

	arg.NextRecurringDate = next

	transaction, err := s.repo.Update(ctx, owner, id, arg)
	if err != nil {
		return transaction, err
	}

	return transaction, nil
}

// Get returns the owner's transaction with the given id.
func (s *Service) Get(ctx context.Context, owner string, id int64) (domain.Transaction, error) {
	transaction, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return transaction, err
	}

	return transaction, nil
}

// List returns the owner's transactions on the given account.
func (s *Service) List(ctx context.Context, owner string, accountID, pageSize, pageID int32) ([]domain.Transaction, error) {
	arg := domain.ListTransactionsParams{
		AccountID: accountID,
		Limit:     pageSize,
		Offset:    (pageID - 1) * pageSize,
	}

	transactions, err := s.repo.List(ctx, owner, arg)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// BulkDelete removes the owner's transactions among the given ids and returns
// the number of deleted rows. Ids not owned by the caller are ignored.
func (s *Service) BulkDelete(ctx context.Context, owner string, ids []int64) (int64, error) {
	deleted, err := s.repo.BulkDelete(ctx, owner, ids)
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// processBatchSize bounds a single ProcessDue scan.
const processBatchSize = 100

// ProcessDue materializes every due occurrence of recurring transactions as of
// now. Each occurrence commits in its own atomic unit; a failed occurrence is
// logged and skipped so one broken row does not stall the rest.
func (s *Service) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	l := zerolog.Ctx(ctx)

	due, err := s.repo.ListDueRecurring(ctx, now, processBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0

	for _, src := range due {
		next, err := recurrence(now, true, src.RecurringInterval)
		if err != nil {
			l.Error().Err(err).Int64("transaction_id", src.ID).Send()
			continue
		}

		if _, err := s.repo.CreateOccurrence(ctx, src, now, *next); err != nil {
			l.Error().Err(err).Int64("transaction_id", src.ID).Send()
			continue
		}

		processed++
	}

	return processed, nil
}
