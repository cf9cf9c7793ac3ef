package cmc

import (
	"errors"
	"fmt"

	"github.com/pawrequest/gommence/internal/com"
)

// Error represents a failure reported by, or detected while driving,
// the Commence COM server.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// HResult is the raw COM result code, when the failure originated
	// in a COM call.
	HResult int32

	// Category is the Commence category involved, when known.
	Category string

	// Err is the underlying error, when the failure wraps one.
	Err error
}

// Code categorizes Commence errors.
type Code string

const (
	// CodeConnectFailed indicates the database ProgID could not be
	// attached to.
	CodeConnectFailed Code = "CONNECT_FAILED"

	// CodeNotFound indicates no row matched the requested key.
	CodeNotFound Code = "NOT_FOUND"

	// CodeTooMany indicates more rows matched than the operation
	// permits.
	CodeTooMany Code = "TOO_MANY"

	// CodeDuplicate indicates the primary key already exists.
	CodeDuplicate Code = "DUPLICATE"

	// CodeCommitFailed indicates a row-set commit was rejected.
	CodeCommitFailed Code = "COMMIT_FAILED"

	// CodeInvalidArg indicates a malformed argument, such as a filter
	// string the server rejected.
	CodeInvalidArg Code = "INVALID_ARG"

	// CodeCOMFailure covers COM errors with no more specific mapping.
	CodeCOMFailure Code = "COM_FAILURE"
)

// HRESULTs the vendor is known to return for specific conditions.
const (
	// hresultClassString is CO_E_CLASSSTRING: the ProgID is not
	// registered, i.e. the named database does not exist.
	hresultClassString = -2147221005

	// hresultDuplicate is returned when committing an add row-set
	// whose primary key already exists.
	hresultDuplicate = -2147483617
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("%s: %s (category=%s)", e.Code, e.Message, e.Category)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NOT_FOUND Commence error.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsDuplicate reports whether err is a DUPLICATE Commence error.
func IsDuplicate(err error) bool { return hasCode(err, CodeDuplicate) }

// IsTooMany reports whether err is a TOO_MANY Commence error.
func IsTooMany(err error) bool { return hasCode(err, CodeTooMany) }

func hasCode(err error, code Code) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// NewNotFound creates a NOT_FOUND error for a key lookup.
func NewNotFound(category, key string) *Error {
	return &Error{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("no row found for %q", key),
		Category: category,
	}
}

// NewTooMany creates a TOO_MANY error for a key lookup.
func NewTooMany(category, key string, got int) *Error {
	return &Error{
		Code:     CodeTooMany,
		Message:  fmt.Sprintf("expected one row for %q, got %d", key, got),
		Category: category,
	}
}

// NewDuplicate creates a DUPLICATE error for a primary key.
func NewDuplicate(category, pk string) *Error {
	return &Error{
		Code:     CodeDuplicate,
		Message:  fmt.Sprintf("primary key %q already exists", pk),
		Category: category,
	}
}

// translateCOM maps a failed COM call to a domain *Error, special-
// casing the HRESULTs the vendor uses for known conditions.
func translateCOM(op string, err error) *Error {
	ce, ok := com.AsCOMError(err)
	if !ok {
		return &Error{Code: CodeCOMFailure, Message: op, Err: err}
	}
	switch ce.HResult {
	case hresultClassString:
		return &Error{
			Code:    CodeConnectFailed,
			Message: op + ": not registered, does the database exist?",
			HResult: ce.HResult,
			Err:     err,
		}
	case hresultDuplicate:
		return &Error{
			Code:    CodeDuplicate,
			Message: op + ": row already exists",
			HResult: ce.HResult,
			Err:     err,
		}
	default:
		return &Error{Code: CodeCOMFailure, Message: op, HResult: ce.HResult, Err: err}
	}
}
