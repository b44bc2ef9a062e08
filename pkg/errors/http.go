package errors

import "net/http"

// NewHTTPError returns a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, StatusCode: code}
}

// NewUnauthorizedHTTPError returns a 401 Unauthorized error.
func NewUnauthorizedHTTPError() *HTTPError {
	return &HTTPError{
		Code:       http.StatusUnauthorized,
		Message:    "Unauthorized",
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotFoundHTTPError returns a 404 Not Found error.
func NewNotFoundHTTPError(message string) *HTTPError {
	return &HTTPError{
		Code:       http.StatusNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewBadRequestHTTPError returns a 400 Bad Request error.
func NewBadRequestHTTPError(message string) *HTTPError {
	return &HTTPError{
		Code:       http.StatusBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func (e *HTTPError) Error() string {
	return e.Message
}
