// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/pocket-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, owner string, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, owner string, id int32) (domain.Account, error)
	GetDefault(ctx context.Context, owner string) (domain.Account, error)
	SetDefault(ctx context.Context, owner string, id int32) (domain.Account, error)
	List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates and returns an account for the given owner.
//
// The repository guarantees the default selection policy: an owner's first
// account is forced to be the default one and a requested default clears the
// previous default atomically with the insert.
func (s *Service) Create(ctx context.Context, owner string, arg domain.CreateAccountParams) (domain.Account, error) {
	if !domain.IsValidAccountType(arg.Type) {
		return domain.Account{}, domain.ErrUnsupportedAccountType
	}

	account, err := s.repo.Create(ctx, owner, arg)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns the owner's account for the given account ID.
func (s *Service) Get(ctx context.Context, owner string, id int32) (domain.Account, error) {
	account, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// GetDefault returns the owner's default account.
func (s *Service) GetDefault(ctx context.Context, owner string) (domain.Account, error) {
	account, err := s.repo.GetDefault(ctx, owner)
	if err != nil {
		return account, err
	}

	return account, nil
}

// SetDefault makes the given account the owner's default one.
func (s *Service) SetDefault(ctx context.Context, owner string, id int32) (domain.Account, error) {
	account, err := s.repo.SetDefault(ctx, owner, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns accounts that are owned by the given user.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.List(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
