package directory

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailRequired  = errors.New("email is required")
	ErrNameRequired   = errors.New("name is required")
	ErrInvalidRole    = errors.New("invalid role")
	ErrUserFired      = errors.New("user has been fired")
	ErrAlreadyHR      = errors.New("user already holds the hr role")
	ErrSalaryInvalid  = errors.New("salary must not be negative")
	ErrEmailTaken     = errors.New("email already registered")
	ErrWeakCredential = errors.New("password is required")
)
