package errors

import "net/http"

// Code identifies a class of domain failure. Codes are stable API surface:
// transports serialize them verbatim and clients branch on them.
type Code string

const (
	// CodeInsufficientBalance means the debited principal holds less than the
	// requested amount.
	CodeInsufficientBalance Code = "insufficient_balance"
	// CodeInsufficientAllowance means the spender's finite allowance from the
	// owner is smaller than the requested amount.
	CodeInsufficientAllowance Code = "insufficient_allowance"
	// CodeUnauthorized means the caller is not permitted to perform the
	// operation (not the owner, not the bridge identity).
	CodeUnauthorized Code = "unauthorized"
	// CodeInvalidRecipient means the target principal is the null principal.
	CodeInvalidRecipient Code = "invalid_recipient"
	// CodeInvalidInput covers malformed external input rejected before any
	// state access.
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound keeps store-level 404s consistent across implementations.
	CodeNotFound Code = "not_found"
	// CodeInternal is the fallback for unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// LedgerError is the coded error every domain operation returns on failure.
// It is a value type so callers can match with a plain type assertion.
type LedgerError struct {
	Code    Code
	Message string
}

func (e LedgerError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a coded domain error.
func New(code Code, message string) LedgerError {
	return LedgerError{Code: code, Message: message}
}

// CodeOf extracts the domain code from an error, or CodeInternal when the
// error did not originate in domain logic.
func CodeOf(err error) Code {
	if le, ok := err.(LedgerError); ok {
		return le.Code
	}
	return CodeInternal
}

// HasCode reports whether err is a domain error carrying the given code.
func HasCode(err error, code Code) bool {
	le, ok := err.(LedgerError)
	return ok && le.Code == code
}

// ToHTTPStatus centralizes the domain-code to HTTP-status mapping so every
// handler reports failures the same way.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInsufficientBalance, CodeInsufficientAllowance:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeInvalidRecipient, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
