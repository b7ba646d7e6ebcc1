package svc

import (
	"context"
	"errors"
	"fmt"
)

// Manager is the external service-management layer. Implementations
// wrap whatever actually administers services (a management daemon, a
// remote API, the in-memory LocalManager) and report failures as
// errors, preferably *ManagerError, never as panics.
//
// All calls are synchronous: Start and Stop return only once the
// requested state change has fully completed.
type Manager interface {
	// Start brings the named service into the running state.
	Start(ctx context.Context, service string) error

	// Stop shuts the named service down.
	Stop(ctx context.Context, service string) error

	// GetProperty reads the current value of a configuration property.
	GetProperty(ctx context.Context, service, name string) (string, error)

	// SetProperty writes a configuration property. The management layer
	// enforces the property's type and value range.
	SetProperty(ctx context.Context, service, name, value string) error

	// Status reads a derived runtime attribute such as "pid" or
	// "state". Attributes may be unavailable while the service is
	// stopped.
	Status(ctx context.Context, service, attribute string) (string, error)
}

// ManagerErrorCode categorizes management-layer failures.
type ManagerErrorCode string

const (
	// ErrCodeNotFound indicates the named service is unknown to the
	// management layer.
	ErrCodeNotFound ManagerErrorCode = "NOT_FOUND"

	// ErrCodeUnsupported indicates the service does not support the
	// requested operation, property, or attribute.
	ErrCodeUnsupported ManagerErrorCode = "UNSUPPORTED"

	// ErrCodeInvalidValue indicates a property write violated the
	// property's type or allowed range.
	ErrCodeInvalidValue ManagerErrorCode = "INVALID_VALUE"

	// ErrCodeTimeout indicates the operation did not complete before
	// the management layer (or the caller's context) gave up.
	ErrCodeTimeout ManagerErrorCode = "TIMEOUT"
)

// ManagerError is a structured management-layer failure.
type ManagerError struct {
	Code    ManagerErrorCode
	Service string
	Message string
}

// Error implements the error interface.
func (e *ManagerError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %s (service=%s)", e.Code, e.Message, e.Service)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a NOT_FOUND management error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var me *ManagerError
	return errors.As(err, &me) && me.Code == ErrCodeNotFound
}

// IsInvalidValue reports whether err is an INVALID_VALUE management error.
func IsInvalidValue(err error) bool {
	var me *ManagerError
	return errors.As(err, &me) && me.Code == ErrCodeInvalidValue
}

// IsTimeout reports whether err is a TIMEOUT management error.
func IsTimeout(err error) bool {
	var me *ManagerError
	return errors.As(err, &me) && me.Code == ErrCodeTimeout
}

// NewNotFoundError reports an unknown service.
func NewNotFoundError(service string) *ManagerError {
	return &ManagerError{
		Code:    ErrCodeNotFound,
		Service: service,
		Message: "service not known to the management layer",
	}
}

// NewUnsupportedError reports an operation the service cannot perform.
func NewUnsupportedError(service, what string) *ManagerError {
	return &ManagerError{
		Code:    ErrCodeUnsupported,
		Service: service,
		Message: what,
	}
}

// NewInvalidValueError reports a rejected property write.
func NewInvalidValueError(service, detail string) *ManagerError {
	return &ManagerError{
		Code:    ErrCodeInvalidValue,
		Service: service,
		Message: detail,
	}
}

// NewTimeoutError reports an operation cut short by cancellation or a
// management-layer deadline.
func NewTimeoutError(service string, cause error) *ManagerError {
	return &ManagerError{
		Code:    ErrCodeTimeout,
		Service: service,
		Message: fmt.Sprintf("operation did not complete: %v", cause),
	}
}
