// Package apierrors defines the client-facing error taxonomy of the auth API
// and its mapping onto HTTP responses.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingFields
	KindInvalidInput
	KindDuplicateEmail
	KindInvalidCredentials
	KindUnauthenticated
	KindHashing
	KindIssuance
)

func (k Kind) String() string {
	switch k {
	case KindMissingFields:
		return "missing_fields"
	case KindInvalidInput:
		return "invalid_input"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindHashing:
		return "hashing"
	case KindIssuance:
		return "issuance"
	default:
		return "internal"
	}
}

// InternalMessage is shown for every infrastructure fault.
const InternalMessage = "Something went wrong, try again later."

// APIError is an error that knows how it is presented to the client.
type APIError struct {
	Kind     Kind
	HTTPCode int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewErrMissingFields reports absent or empty request fields.
func NewErrMissingFields(message string) *APIError {
	return &APIError{Kind: KindMissingFields, HTTPCode: http.StatusBadRequest, Message: message}
}

// NewErrInvalidInput reports a request field that is present but unusable.
func NewErrInvalidInput(message string, err error) *APIError {
	return &APIError{Kind: KindInvalidInput, HTTPCode: http.StatusBadRequest, Message: message, Err: err}
}

// NewErrEmailIsTaken reports an email that already belongs to an account.
func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{
		Kind:     KindDuplicateEmail,
		HTTPCode: http.StatusBadRequest,
		Message:  "Email already in use.",
		Err:      fmt.Errorf("email %q is already taken", email),
	}
}

// NewErrInvalidCredentials is returned for both unknown emails and wrong
// passwords. It carries no cause so both paths render identically.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials, HTTPCode: http.StatusUnauthorized, Message: "Invalid credentials."}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthenticated, HTTPCode: http.StatusUnauthorized, Message: "Authentication invalid."}
}

func NewErrInvalidAuthorizationToken(err error) *APIError {
	return &APIError{Kind: KindUnauthenticated, HTTPCode: http.StatusUnauthorized, Message: "Authentication invalid.", Err: err}
}

// NewErrHashing wraps a credential hasher failure.
func NewErrHashing(err error) *APIError {
	return &APIError{Kind: KindHashing, HTTPCode: http.StatusInternalServerError, Message: InternalMessage, Err: err}
}

// NewErrIssuance wraps a session token issuance failure.
func NewErrIssuance(err error) *APIError {
	return &APIError{Kind: KindIssuance, HTTPCode: http.StatusInternalServerError, Message: InternalMessage, Err: err}
}

func NewErrInternalServerError(err error) *APIError {
	return &APIError{Kind: KindInternal, HTTPCode: http.StatusInternalServerError, Message: InternalMessage, Err: err}
}

// KindOf returns the kind of the first APIError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// ToHTTP translates any error into the status code and message sent to the
// client. Errors outside the taxonomy become a generic 500.
func ToHTTP(err error) (int, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPCode, apiErr.Message
	}
	return http.StatusInternalServerError, InternalMessage
}
