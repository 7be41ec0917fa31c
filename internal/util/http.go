package util

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api/httperrors"
)

// BindAndValidateBody binds the JSON request body into v and, if v
// implements Validatable, runs its validation. Malformed bodies and
// validation failures surface as a 400 HTTPError.
func BindAndValidateBody(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, "Malformed request body", err)
	}

	if validatable, ok := v.(Validatable); ok {
		if err := validatable.Validate(); err != nil {
			return httperrors.NewHTTPErrorWithInternal(http.StatusBadRequest, httperrors.HTTPErrorTypeGeneric, err.Error(), err)
		}
	}

	return nil
}

// Validatable is implemented by payload types that carry their own
// structural validation.
type Validatable interface {
	Validate() error
}
