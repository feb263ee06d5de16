package client

import "fmt"

// Every gateway call fails with exactly one of three error kinds. Callers
// match with errors.As and surface the message; no retries happen here.

// ServerError means the backend responded with an error status. The message
// comes from the response body.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// NetworkError means the request was sent but no response was received
// (timeout, connectivity).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "It's not you, it's us, want to give it another try?"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UnknownError covers everything else: serialization failures, client bugs.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return "Oops! Something went wrong."
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

func unknownf(format string, args ...interface{}) *UnknownError {
	return &UnknownError{Err: fmt.Errorf(format, args...)}
}
