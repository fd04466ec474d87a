package search

import "fmt"

// TransportError reports a failure of the networking layer before a complete
// response body was obtained (DNS, refused connection, TLS, timeout, cancel).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports valid JSON that does not carry a usable results array.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return e.Reason }

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}
