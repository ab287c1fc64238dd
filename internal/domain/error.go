package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid exec context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrTerminalStatus     = errors.New("payment is already in a terminal status")
	ErrNotConfigured      = errors.New("payment processor is not configured")
	ErrBadSignature       = errors.New("webhook signature verification failed")
)

// GatewayError carries the processor's HTTP status and the message extracted
// from its structured error body (or the transport status text when the body
// is not parseable).
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s (status %d)", e.Message, e.StatusCode)
}

// IsGatewayError reports whether err is (or wraps) a GatewayError.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
