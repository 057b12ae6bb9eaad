package account

import "errors"

var (
	// -- Validation & Input --
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// -- Resource State --
	ErrUserNotFound = errors.New("user not found")
	ErrNotLoggedIn  = errors.New("no user is logged in")
)
