package apperror

import (
	"errors"
	"net/http"
	"time"
)

// Kind classifies a failure independently of its HTTP status.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindRateLimit     Kind = "rate_limit"
	KindUpload        Kind = "upload"
	KindPersistence   Kind = "persistence"
	KindConfiguration Kind = "configuration"
	KindProvider      Kind = "provider"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Code       int           `json:"code"`
	Kind       Kind          `json:"kind"`
	Message    string        `json:"message"`
	Details    string        `json:"details,omitempty"`
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

// TooManyRequests carries the time left in the window.
func TooManyRequests(message string, retryAfter time.Duration) *AppError {
	e := New(http.StatusTooManyRequests, KindRateLimit, message, nil)
	e.RetryAfter = retryAfter
	return e
}

func Upload(message string, err error) *AppError {
	return New(http.StatusInternalServerError, KindUpload, message, err)
}

func Configuration(message, details string) *AppError {
	return New(http.StatusInternalServerError, KindConfiguration, message, nil).WithDetails(details)
}

// Provider wraps a failure of an external delivery service; the error text becomes the details.
func Provider(message string, err error) *AppError {
	e := New(http.StatusInternalServerError, KindProvider, message, err)
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Erreur interne du serveur", err)
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
