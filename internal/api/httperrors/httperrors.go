package httperrors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	// HTTPErrorTypeGeneric marks errors without a more specific public type.
	HTTPErrorTypeGeneric = "generic"
)

// HTTPError is the public JSON error body returned by the API.
type HTTPError struct {
	Code     int    `json:"status"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Internal error  `json:"-"`
}

// NewHTTPError returns a new HTTPError with the given public fields.
func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

// NewHTTPErrorWithInternal wraps an internal error that is logged but
// never sent to the caller.
func NewHTTPErrorWithInternal(code int, errorType string, title string, internal error) *HTTPError {
	return &HTTPError{
		Code:     code,
		Type:     errorType,
		Title:    title,
		Internal: internal,
	}
}

// NewFromEcho converts an *echo.HTTPError into our public error shape.
func NewFromEcho(err *echo.HTTPError) *HTTPError {
	return &HTTPError{
		Code:     err.Code,
		Type:     HTTPErrorTypeGeneric,
		Title:    fmt.Sprintf("%v", err.Message),
		Internal: err.Internal,
	}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", e.Code, e.Type, e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// ErrNotFound is the generic 404 error.
var ErrNotFound = NewHTTPError(http.StatusNotFound, HTTPErrorTypeGeneric, http.StatusText(http.StatusNotFound))
