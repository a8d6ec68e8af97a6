package apperror

import (
	"errors"
	"net/http"
)

// Kinds. Match them with errors.Is.
var (
	ErrBadRequest            = errors.New("bad request")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrStalePassword         = errors.New("password changed after token issuance")
	ErrUserGone              = errors.New("user no longer exists")
	ErrTooManyAttempts       = errors.New("too many login attempts")
	ErrVerificationExpired   = errors.New("verification expired")
	ErrAlreadyVerified       = errors.New("already verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrPaymentDeclined       = errors.New("payment declined")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrEmailDelivery         = errors.New("email delivery failed")
)

var statusByKind = map[error]int{
	ErrBadRequest:            http.StatusBadRequest,
	ErrUnauthorized:          http.StatusUnauthorized,
	ErrUnauthenticated:       http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrTokenExpired:          http.StatusUnauthorized,
	ErrStalePassword:         http.StatusUnauthorized,
	ErrUserGone:              http.StatusUnauthorized,
	ErrTooManyAttempts:       http.StatusUnauthorized,
	ErrVerificationExpired:   http.StatusUnauthorized,
	ErrAlreadyVerified:       http.StatusUnauthorized,
	ErrInvalidOrExpiredToken: http.StatusBadRequest,
	ErrForbidden:             http.StatusForbidden,
	ErrNotFound:              http.StatusNotFound,
	ErrConflict:              http.StatusConflict,
	ErrPaymentDeclined:       http.StatusPaymentRequired,
	ErrTooManyRequests:       http.StatusTooManyRequests,
	ErrEmailDelivery:         http.StatusServiceUnavailable,
}

// Error is a failure that is safe to show to the client: it carries the
// HTTP status and the message that goes into the response body.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// New builds an Error of the given kind with its default status.
func New(kind error, message string) *Error {
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// Wrap is New with an underlying cause attached for logging.
func Wrap(kind error, message string, cause error) *Error {
	e := New(kind, message)
	e.Err = cause
	return e
}

// StatusOf reports the HTTP status for err, or 500 when err is not an *Error.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
