package poolwithdrawer_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/test"
	"github.com/lemx/swapd/internal/types"
)

func TestGetCurveExchangeRate(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/pool-withdrawer/curve-exchange-rate/1000", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.ExchangeRateResponse
		test.ParseResponseBody(t, res, &response)

		assert.True(t, response.Success)
		assert.Equal(t, "1000", response.AmountIn)
		assert.Equal(t, "998", response.AmountOut)
		assert.Equal(t, "0.998", response.ImpliedRate)
	})
}

func TestGetCurveExchangeRateInvalidAmount(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/pool-withdrawer/curve-exchange-rate/abc", nil, nil)
		require.Equal(t, http.StatusInternalServerError, res.Result().StatusCode)

		var response types.ExchangeRateResponse
		test.ParseResponseBody(t, res, &response)

		assert.False(t, response.Success)
		assert.NotEmpty(t, response.Error)
	})
}

func TestGetCurveExchangeRateChainFailure(t *testing.T) {
	cfg := test.DefaultTestServerConfig()
	mock := test.HealthyMockChain(cfg)
	mock.QuoteErr = assert.AnError

	test.WithTestServerFromMock(t, mock, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/pool-withdrawer/curve-exchange-rate/1000", nil, nil)
		require.Equal(t, http.StatusInternalServerError, res.Result().StatusCode)

		var response types.ExchangeRateResponse
		test.ParseResponseBody(t, res, &response)
		assert.False(t, response.Success)
	})
}
