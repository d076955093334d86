package imap

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is matched by errors reporting an IMAP grammar violation.
	ErrMalformed = errors.New("imap: malformed response")
	// ErrIncapable is matched by errors reporting that an operation requires a
	// capability the server didn't advertise.
	ErrIncapable = errors.New("imap: operation not supported by server")
	// ErrArgument is matched by errors reporting an invalid argument.
	ErrArgument = errors.New("imap: invalid argument")
	// ErrConnection is matched by errors reported by the underlying
	// connection.
	ErrConnection = errors.New("imap: connection fault")
)

// MalformedError reports a grammar violation in data received from the
// server. Raw holds the offending text.
type MalformedError struct {
	Raw string
	Msg string
}

// Error implements the error interface.
func (err *MalformedError) Error() string {
	if err.Raw == "" {
		return fmt.Sprintf("imap: malformed response: %v", err.Msg)
	}
	return fmt.Sprintf("imap: malformed response: %v (in %q)", err.Msg, err.Raw)
}

// Is makes errors.Is(err, ErrMalformed) report true.
func (err *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// IncapableError reports that a response or feature requires a capability
// which is not advertised by the server.
type IncapableError struct {
	Cap Cap
	Op  string
}

// Error implements the error interface.
func (err *IncapableError) Error() string {
	return fmt.Sprintf("imap: %v requires the %v capability", err.Op, err.Cap)
}

// Is makes errors.Is(err, ErrIncapable) report true.
func (err *IncapableError) Is(target error) bool {
	return target == ErrIncapable
}

// ArgumentError reports an invalid argument supplied by the caller.
type ArgumentError struct {
	Name  string
	Value string
	Err   error
}

// Error implements the error interface.
func (err *ArgumentError) Error() string {
	msg := fmt.Sprintf("imap: invalid %v", err.Name)
	if err.Value != "" {
		msg += fmt.Sprintf(" %q", err.Value)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (err *ArgumentError) Unwrap() error {
	return err.Err
}

// Is makes errors.Is(err, ErrArgument) report true.
func (err *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}

// ConnError wraps an error returned by the connection the engine reads from
// or writes to.
type ConnError struct {
	Op  string // "read", "write" or "TLS handshake"
	Err error
}

// Error implements the error interface.
func (err *ConnError) Error() string {
	return fmt.Sprintf("imap: connection %v: %v", err.Op, err.Err)
}

// Unwrap returns the underlying I/O error.
func (err *ConnError) Unwrap() error {
	return err.Err
}

// Is makes errors.Is(err, ErrConnection) report true.
func (err *ConnError) Is(target error) bool {
	return target == ErrConnection
}
