package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrSignedOut          = errors.New("signed out")
	ErrSessionUnresolved  = errors.New("session not resolved yet")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidRole      = errors.New("invalid role")
	ErrBadRequest       = errors.New("bad request")
)

// Feed errors
var (
	ErrFeedLoadFailed   = errors.New("feed load failed")
	ErrMutationFailed   = errors.New("mutation failed")
	ErrMutationInFlight = errors.New("a mutation for this post is already in flight")
	ErrPostNotFound     = errors.New("post not found")
)

// Composer errors
var (
	ErrLimitExceeded   = errors.New("image limit exceeded")
	ErrImageTooLarge   = errors.New("image too large")
	ErrEmptyPost       = errors.New("post has no text and no images")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrProfileRequired = errors.New("a complete profile is required")
	ErrUploadFailed    = errors.New("upload failed")
	ErrSubmitInFlight  = errors.New("a submission is already in flight")
)

// Video errors
var (
	ErrVideoTooLarge = errors.New("video too large")
	ErrVideoTooLong  = errors.New("video too long")
)

// Profile and booking errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrCoachNotFound   = errors.New("coach not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
