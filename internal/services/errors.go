// Package services holds the dashboard's business logic between the HTTP
// handlers and the store, queue and analytics engine.
package services

import "errors"

// Service error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidTemperature = "INVALID_TEMPERATURE"
	CodeInvalidFanSpeed    = "INVALID_FAN_SPEED"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeQueryFailed        = "QUERY_FAILED"
	CodeAnalyticsFailed    = "ANALYTICS_FAILED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// AsServiceError extracts a *ServiceError from err's chain
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
