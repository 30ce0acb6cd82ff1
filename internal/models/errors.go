package models

import "errors"

var (
	// ErrValidation covers malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden means the transaction PIN did not match.
	ErrForbidden = errors.New("invalid pin")

	// ErrAccountNotFound covers missing senders, recipients and users.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAgentNotFound means no Agent-role account exists at the mobile.
	// A matching mobile with a different role is still not found.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrRequestNotFound covers cash-in requests that do not exist, are not
	// pending anymore, or belong to another agent. The three cases are
	// deliberately indistinguishable.
	ErrRequestNotFound = errors.New("request not found")

	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrConflict means a concurrent mutation won; the caller may retry.
	ErrConflict = errors.New("conflicting update")

	// ErrDuplicateAccount means the mobile or email is already registered.
	ErrDuplicateAccount = errors.New("account already exists")
)
