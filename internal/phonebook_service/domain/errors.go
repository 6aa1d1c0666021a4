package domain

import "errors"

var (
	// ErrNotFound indicates that no contact exists with the requested id.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicatePhoneNumber indicates a write was rejected because another
	// contact already holds the phone number.
	ErrDuplicatePhoneNumber = errors.New("phone number already in use")
)
