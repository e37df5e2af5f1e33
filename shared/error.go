package shared

import (
	"errors"
	"fmt"
)

// ClientError is a custom error that we will use in our API responses
type ClientError struct {
	message string
}

// Error - implementing this on ClientError makes it compatible for places where want to return errors
func (err *ClientError) Error() string {
	return err.message
}

// NewClientError - use this to return client errors from your service
func NewClientError(message string) *ClientError {
	return &ClientError{
		message: message,
	}
}

// IsClientError reports whether err (or anything it wraps) is a ClientError,
// i.e. the caller's fault and safe to surface as a 400.
func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

// ErrShapeRoomMismatch is returned when an upsert targets a shape id that
// already belongs to a different room. Cross-room id reuse is rejected
// rather than treated as a transfer of ownership.
var ErrShapeRoomMismatch = errors.New("shape id already belongs to a different room")

// StoreError wraps a failure of the backing store so that callers can tell
// "the database said no" apart from "the client sent garbage".
type StoreError struct {
	cause error
}

func (err *StoreError) Error() string {
	return fmt.Sprintf("store error: %s", err.cause)
}

func (err *StoreError) Unwrap() error {
	return err.cause
}

// NewStoreError - use this to wrap database failures on the persistence boundary
func NewStoreError(cause error) *StoreError {
	return &StoreError{cause: cause}
}
