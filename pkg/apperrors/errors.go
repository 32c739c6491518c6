package apperrors

import (
	"errors"
	"net/http"
	"time"
)

// Kind classifies a business-rule rejection or failure. Expected
// outcomes (rate limited, already solved, insufficient points) are
// returned as typed errors, never panics, so callers can branch on
// them and build a response payload.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindNotFound            Kind = "NOT_FOUND"
	KindBanned              Kind = "BANNED"
	KindCompetitionClosed   Kind = "COMPETITION_CLOSED"
	KindRateLimited         Kind = "RATE_LIMITED"
	KindAlreadySolved       Kind = "ALREADY_SOLVED"
	KindAlreadyUnlocked     Kind = "ALREADY_UNLOCKED"
	KindInsufficientPoints  Kind = "INSUFFICIENT_POINTS"
	KindManipulationBlocked Kind = "MANIPULATION_BLOCKED"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindInternal            Kind = "INTERNAL"
)

// AppError carries an HTTP status, a machine-readable kind and a
// user-safe message. Internal storage detail never goes in Message.
type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	// RetryAfter is set only for rate-limit rejections.
	RetryAfter time.Duration `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, kind Kind, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message}
}

var (
	ErrUnauthorized = New(http.StatusUnauthorized, KindUnauthorized, "Unauthorized access")
	ErrInternal     = New(http.StatusInternalServerError, KindInternal, "Something went wrong. Please try again.")
)

func Validation(msg string) *AppError {
	return New(http.StatusBadRequest, KindValidation, msg)
}

func NotFound(msg string) *AppError {
	return New(http.StatusNotFound, KindNotFound, msg)
}

func Banned(msg string) *AppError {
	return New(http.StatusForbidden, KindBanned, msg)
}

func CompetitionClosed(msg string) *AppError {
	return New(http.StatusForbidden, KindCompetitionClosed, msg)
}

func RateLimited(retryAfter time.Duration) *AppError {
	e := New(http.StatusTooManyRequests, KindRateLimited, "Too many attempts. Slow down.")
	e.RetryAfter = retryAfter
	return e
}

func AlreadySolved() *AppError {
	return New(http.StatusConflict, KindAlreadySolved, "Challenge already solved")
}

func AlreadyUnlocked() *AppError {
	return New(http.StatusConflict, KindAlreadyUnlocked, "Hint already unlocked")
}

func InsufficientPoints(msg string) *AppError {
	return New(http.StatusBadRequest, KindInsufficientPoints, msg)
}

func ManipulationBlocked() *AppError {
	return New(http.StatusForbidden, KindManipulationBlocked, "Score fields cannot be modified directly")
}

// Internal wraps a storage failure. The underlying error is logged at
// the call site, never surfaced to the client.
func Internal() *AppError {
	return ErrInternal
}

// FromError extracts an *AppError, falling back to a generic internal
// error so handlers never leak raw storage errors.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
