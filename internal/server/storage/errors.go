package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrDeviceNotFound indicates that device was not found in storage
	ErrDeviceNotFound = errors.New("device not found")

	// ErrTwoFactorNotFound indicates that two-factor record was not found
	ErrTwoFactorNotFound = errors.New("two-factor record not found")
)
