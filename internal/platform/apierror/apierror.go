// Package apierror carries an HTTP status code together with a
// human-readable message, so services can decide the response code
// without the handler re-classifying the failure.
package apierror

import "fmt"

type APIError struct {
	Status  int
	Message string
}

func New(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}
