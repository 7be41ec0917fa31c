package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/api/httperrors"
)

// GenericPayload is a loosely typed request body for tests.
type GenericPayload map[string]interface{}

func (g GenericPayload) Reader(t *testing.T) *bytes.Reader {
	t.Helper()

	b, err := json.Marshal(g)
	require.NoError(t, err)

	return bytes.NewReader(b)
}

// PerformRequest runs a request through the server's full middleware
// and routing stack and returns the recorded response.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body GenericPayload, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body.Reader(t))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseBody unmarshals the recorded JSON body into v.
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}

// RequireHTTPError asserts the response carries the expected public
// error payload.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, expected *httperrors.HTTPError) {
	t.Helper()

	require.Equal(t, expected.Code, res.Result().StatusCode)

	var actual httperrors.HTTPError
	ParseResponseBody(t, res, &actual)

	require.Equal(t, expected.Code, actual.Code)
	require.Equal(t, expected.Type, actual.Type)
	require.Equal(t, expected.Title, actual.Title)
}

// HexAddress parses a hex address, failing loudly on malformed input.
func HexAddress(raw string) common.Address {
	if !common.IsHexAddress(raw) {
		panic("not a hex address: " + raw)
	}
	return common.HexToAddress(raw)
}
