package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNoGatewaysEnabled    = errors.New("no payment methods available")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrCheckoutInProgress   = errors.New("a payment is already being processed")
	ErrGatewayDeclined      = errors.New("payment declined by gateway")
	ErrLockHeld             = errors.New("resource lock is held")

	// Persistence-layer errors surfaced to use cases
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
)
