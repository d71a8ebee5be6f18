// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pocket-ledger/internal/domain"
	"github.com/go-petr/pocket-ledger/pkg/passpkg"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, username string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user bussines logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// NewUserWihtoutPassword returns user with removed sensitive data.
func NewUserWihtoutPassword(u domain.User) domain.UserWihtoutPassword {
	return domain.UserWihtoutPassword{
		Username:          u.Username,
		FullName:          u.FullName,
		Email:             u.Email,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
	}
}

// Create creates and returns the user.
func (s *Service) Create(ctx context.Context, username, password, fullname, email string) (domain.UserWihtoutPassword, error) {
	l := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.UserWihtoutPassword{}, err
	}

	arg := domain.CreateUserParams{
		Username:       username,
		HashedPassword: hashedPassword,
		FullName:       fullname,
		Email:          email,
	}

	user, err := s.repo.Create(ctx, arg)
	if err != nil {
		return domain.UserWihtoutPassword{}, err
	}

	return NewUserWihtoutPassword(user), nil
}

// CheckPassword verifies the user's password and returns the user without
// sensitive data.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.UserWihtoutPassword, error) {
	l := zerolog.Ctx(ctx)

	user, err := s.repo.Get(ctx, username)
	if err != nil {
		return domain.UserWihtoutPassword{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		l.Info().Err(err).Send()
		return domain.UserWihtoutPassword{}, domain.ErrWrongPassword
	}

	return NewUserWihtoutPassword(user), nil
}
