// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameAlreadyExists indicates that the username is already taken.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrEmailALreadyExists indicates that the email is already taken.
	ErrEmailALreadyExists = errors.New("email already exists")
	// ErrWrongPassword indicates that the given password is incorrect.
	ErrWrongPassword = errors.New("incorrect password")
)

// User holds user identity data.
type User struct {
	Username          string    `json:"username"`
	HashedPassword    string    `json:"hashed_password"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	PasswordChangedAt time.Time `json:"password_changed_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
}

// UserWihtoutPassword holds user data without sensitive information.
type UserWihtoutPassword struct {
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	PasswordChangedAt time.Time `json:"password_changed_at"`
	CreatedAt         time.Time `json:"created_at"`
}
